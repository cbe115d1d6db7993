// Package aggregate derives scalar financial summaries from joined
// collections. All functions are deterministic and side-effect free; an
// empty input set is a zero result, never an error.
package aggregate

import "finman/internal/models"

// Summary holds the income/expense split of a transaction set. Expenses
// are kept negative; display layers take the absolute value.
type Summary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// TotalBalance sums the balances of a set of accounts.
func TotalBalance(accounts []models.Account) float64 {
	var total float64
	for _, acc := range accounts {
		total += acc.Balance
	}
	return total
}

// Summarize splits a transaction set into total income (amounts > 0) and
// total expenses (amounts < 0). A transaction with amount exactly 0 counts
// toward neither side.
func Summarize(transactions []models.Transaction) Summary {
	var s Summary
	for _, tx := range transactions {
		switch {
		case tx.Amount > 0:
			s.Income += tx.Amount
		case tx.Amount < 0:
			s.Expenses += tx.Amount
		}
	}
	return s
}

// AmountSpent derives how much of a budget's limitation has been consumed.
// AvailableSum is backend-authoritative; this is the only budget figure
// computed client-side.
func AmountSpent(budget models.Budget) float64 {
	return budget.Limitation - budget.AvailableSum
}
