package models

import "time"

type Expense struct {
	ID        int       `json:"id"`
	AccountID int       `json:"account_id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	SpentAt   time.Time `json:"spent_at"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
