package view

import (
	"context"
	"sync"
	"time"

	"finman/internal/aggregate"
	apperrors "finman/internal/errors"
	"finman/internal/join"
	"finman/internal/metrics"
	"finman/internal/models"
)

// LoadBudget runs a budget-focused aggregation for budgetID: fetch the
// budget, then fan out one transaction fetch per sharing client and merge
// the settled results. Individual sub-fetch failures are dropped from the
// union (best-effort aggregation); only a failure of the budget fetch
// itself fails the run. Error semantics of the return values match
// LoadClient.
func (a *Assembler) LoadBudget(ctx context.Context, budgetID int) (*BudgetView, error) {
	r := a.begin(ctx, kindBudget, budgetID)
	defer r.cancel()

	budget, err := a.fetchBudget(r, budgetID)
	if err != nil {
		if abortErr := a.aborted(r); abortErr != nil {
			return nil, a.discard(r, kindBudget, abortErr)
		}
		v := failedBudgetView(r.id, budgetID, err)
		a.publishBudget(r, v)
		metrics.RunsFailed.WithLabelValues(kindBudget).Inc()
		r.log.Warnw("aggregation run failed", "error", err)
		return v, nil
	}

	// A budget with no sharing clients yields an empty transaction set
	// without issuing any fetch.
	batches := make([][]models.Transaction, len(budget.ClientIDs))
	if len(budget.ClientIDs) > 0 {
		var wg sync.WaitGroup
		wg.Add(len(budget.ClientIDs))
		for i, clientID := range budget.ClientIDs {
			go func(i, clientID int) {
				defer wg.Done()
				txs, fetchErr := timed("transactions_by_client_category", func() ([]models.Transaction, error) {
					return a.api.TransactionsByClientAndCategory(r.ctx, clientID, budget.CategoryID)
				})
				if fetchErr != nil {
					// Best effort: a failed sub-fetch contributes nothing.
					r.log.Warnw("budget sub-fetch dropped", "client_id", clientID, "error", fetchErr)
					return
				}
				batches[i] = txs
			}(i, clientID)
		}
		wg.Wait()
	}

	if abortErr := a.aborted(r); abortErr != nil {
		return nil, a.discard(r, kindBudget, abortErr)
	}

	transactions := join.MergeTransactions(batches...)

	v := &BudgetView{
		RunID:        r.id,
		BudgetID:     budgetID,
		State:        StateReady,
		Budget:       budget,
		Transactions: transactions,
		AmountSpent:  aggregate.AmountSpent(*budget),
		Summary:      aggregate.Summarize(transactions),
	}
	if !a.publishBudget(r, v) {
		return nil, a.discard(r, kindBudget, apperrors.ErrRunSuperseded)
	}
	r.log.Infow("aggregation run published",
		"clients", len(budget.ClientIDs),
		"transactions", len(transactions),
	)
	return v, nil
}

func (a *Assembler) fetchBudget(r run, budgetID int) (*models.Budget, error) {
	start := time.Now()
	budget, err := a.api.GetBudget(r.ctx, budgetID)
	metrics.FetchDuration.WithLabelValues("budget").Observe(time.Since(start).Seconds())
	return budget, err
}
