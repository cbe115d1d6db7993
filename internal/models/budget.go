package models

// Budget represents a spending ceiling on one category, shared by one or
// more clients. AvailableSum is maintained by the backend and is never
// recomputed client-side; the only derived figure is the spent amount
// (Limitation - AvailableSum).
type Budget struct {
	ID           int     `json:"id"`
	CategoryID   int     `json:"categoryId"`
	CategoryName string  `json:"categoryName,omitempty"`
	ClientIDs    []int   `json:"clientIds"`
	Limitation   float64 `json:"limitation"`
	AvailableSum float64 `json:"availableSum"`
	Period       int     `json:"period"` // duration in days
}
