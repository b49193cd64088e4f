package main

import "spendtrack/internal/app"

func main() {
	app.Run()
}
