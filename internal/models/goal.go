package models

// Goal represents a savings goal owned by exactly one client.
type Goal struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	StartDate     string  `json:"startDate,omitempty"` // YYYY-MM-DD, optional
	EndDate       string  `json:"endDate"`
	ClientID      int     `json:"clientId"`
}

// CreateGoal is the payload for creating a savings goal.
type CreateGoal struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	StartDate    string  `json:"startDate,omitempty"`
	EndDate      string  `json:"endDate"`
	ClientID     int     `json:"clientId"`
}
