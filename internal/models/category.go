package models

// Category classifies transactions and scopes budgets.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
