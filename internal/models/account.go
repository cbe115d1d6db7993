package models

import "time"

// Account represents a money account owned by exactly one client.
// Balance is a signed decimal; overdrawn accounts carry a negative balance.
type Account struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	ClientID  int       `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
