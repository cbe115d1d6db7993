package models

import "time"

// Transaction represents a single movement of money on an account.
// A positive amount is income, a negative amount is an expense.
type Transaction struct {
	ID           int       `json:"id"`
	Amount       float64   `json:"amount"`
	AccountID    int       `json:"accountId"`
	CategoryID   int       `json:"categoryId"`
	Date         time.Time `json:"date"`
	Description  string    `json:"description,omitempty"`
	AccountName  string    `json:"accountName,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
}

// CreateTransaction is the payload for creating a transaction.
type CreateTransaction struct {
	Amount      float64 `json:"amount"`
	AccountID   int     `json:"accountId"`
	CategoryID  int     `json:"categoryId"`
	Date        string  `json:"date"` // RFC3339
	Description string  `json:"description,omitempty"`
}
