package view

import (
	"finman/internal/aggregate"
	"finman/internal/models"
)

// State is the lifecycle state of a composite view.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Section is a tagged per-section variant inside an otherwise Ready view.
// It lets one dependent section fail (goals, typically) without discarding
// the sections that loaded fine.
type Section[T any] struct {
	Available bool   `json:"available"`
	Data      T      `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ReadySection wraps data in an available section.
func ReadySection[T any](data T) Section[T] {
	return Section[T]{Available: true, Data: data}
}

// UnavailableSection marks a section as failed with its own error message.
func UnavailableSection[T any](err error) Section[T] {
	return Section[T]{Available: false, Error: err.Error()}
}

// ClientView is one immutable snapshot of the client-focused composite
// view. It is always replaced wholesale, never mutated after publication.
type ClientView struct {
	RunID    string `json:"runId"`
	ClientID int    `json:"clientId"`
	State    State  `json:"state"`

	Client       *models.Client          `json:"client,omitempty"`
	Accounts     []models.Account        `json:"accounts,omitempty"`
	Transactions []models.Transaction    `json:"transactions,omitempty"`
	Budgets      []models.Budget         `json:"budgets,omitempty"`
	Goals        Section[[]models.Goal]  `json:"goals"`

	TotalBalance float64           `json:"totalBalance"`
	Summary      aggregate.Summary `json:"summary"`

	// Err is the terminal error of a Failed run. The message is what the
	// presentation layer shows; the error itself keeps the taxonomy for
	// status mapping.
	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// BudgetView is one immutable snapshot of the budget-focused composite view.
type BudgetView struct {
	RunID    string `json:"runId"`
	BudgetID int    `json:"budgetId"`
	State    State  `json:"state"`

	Budget       *models.Budget       `json:"budget,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	AmountSpent  float64              `json:"amountSpent"`
	Summary      aggregate.Summary    `json:"summary"`

	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

func failedClientView(runID string, clientID int, err error) *ClientView {
	return &ClientView{
		RunID:        runID,
		ClientID:     clientID,
		State:        StateFailed,
		Err:          err,
		ErrorMessage: err.Error(),
	}
}

func failedBudgetView(runID string, budgetID int, err error) *BudgetView {
	return &BudgetView{
		RunID:        runID,
		BudgetID:     budgetID,
		State:        StateFailed,
		Err:          err,
		ErrorMessage: err.Error(),
	}
}
