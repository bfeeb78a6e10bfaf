package models

import "time"

// CurrencyRate is one append-only entry in the exchange rate history.
// The current rate is the most recent entry's rate.
type CurrencyRate struct {
	ID        string    `json:"id"`
	Rate      float64   `json:"rate"` // USD → SYP
	CreatedAt time.Time `json:"created_at"`
}
