package models

import "time"

type Income struct {
	ID         int       `json:"id"`
	AccountID  int       `json:"account_id"`
	Title      string    `json:"title"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
	ReceivedAt time.Time `json:"received_at"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// CategoryTotal is one row of a per-category aggregation.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
