package models

// Client represents an operator-managed client of the finance system.
type Client struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
