// Package view assembles the composite detail views: it orchestrates the
// finance API fetches, the join engine and the aggregate calculators into
// one atomic snapshot per focal entity, and guarantees that only the most
// recently started run can ever publish.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finman/internal/aggregate"
	apperrors "finman/internal/errors"
	"finman/internal/join"
	"finman/internal/logger"
	"finman/internal/metrics"
	"finman/internal/models"
)

// FinanceAPI defines the finance API operations the assembler and
// coordinator need.
type FinanceAPI interface {
	GetClient(ctx context.Context, id int) (*models.Client, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListBudgets(ctx context.Context) ([]models.Budget, error)
	GoalsByClient(ctx context.Context, clientID int) ([]models.Goal, error)
	GetBudget(ctx context.Context, id int) (*models.Budget, error)
	TransactionsByClientAndCategory(ctx context.Context, clientID, categoryID int) ([]models.Transaction, error)
	AddFundsToGoal(ctx context.Context, goalID int, tx models.CreateTransaction) (*models.Goal, error)
}

const (
	kindClient = "client"
	kindBudget = "budget"
)

// Assembler builds composite view snapshots. It owns the published
// snapshots exclusively: they are swapped wholesale under the mutex and
// only by the current run.
//
// Supersession is cancellation-based. Every run derives its own cancellable
// context and a generation number; starting a new run (any focal kind)
// cancels the previous run's context and bumps the generation. Before a
// run publishes it re-checks that its generation is still current; a stale
// run discards its result and reports ErrRunSuperseded.
type Assembler struct {
	api FinanceAPI
	log *zap.SugaredLogger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	clientView *ClientView
	budgetView *BudgetView
}

// NewAssembler creates a new Assembler on top of the given finance API.
func NewAssembler(api FinanceAPI) *Assembler {
	return &Assembler{api: api, log: logger.Get()}
}

// run is the per-run token: a generation number, a cancellable context and
// a correlation id for logs.
type run struct {
	id     string
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.SugaredLogger
}

// begin starts a new run: it cancels the previous run, bumps the
// generation, and publishes a Loading snapshot so stale derived numbers
// are never shown under a new focal identity.
func (a *Assembler) begin(ctx context.Context, kind string, focalID int) run {
	runCtx, cancel := context.WithCancel(ctx)
	r := run{id: uuid.New().String(), ctx: runCtx, cancel: cancel}
	r.log = a.log.With("run_id", r.id, "kind", kind, "focal_id", focalID)

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.generation++
	r.gen = a.generation
	a.cancel = cancel
	switch kind {
	case kindClient:
		a.clientView = &ClientView{RunID: r.id, ClientID: focalID, State: StateLoading}
		a.budgetView = nil
	case kindBudget:
		a.budgetView = &BudgetView{RunID: r.id, BudgetID: focalID, State: StateLoading}
		a.clientView = nil
	}
	a.mu.Unlock()

	metrics.RunsStarted.WithLabelValues(kind).Inc()
	r.log.Infow("aggregation run started")
	return r
}

// aborted reports why a run can no longer proceed: ErrRunSuperseded when a
// newer run took over, or the context error on teardown. Returns nil while
// the run is still current and live.
func (a *Assembler) aborted(r run) error {
	a.mu.Lock()
	current := r.gen == a.generation
	a.mu.Unlock()

	if !current {
		return apperrors.ErrRunSuperseded
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}
	return nil
}

// publishClient swaps in a client snapshot if the run is still current.
func (a *Assembler) publishClient(r run, v *ClientView) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r.gen != a.generation {
		return false
	}
	a.clientView = v
	return true
}

// publishBudget swaps in a budget snapshot if the run is still current.
func (a *Assembler) publishBudget(r run, v *BudgetView) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r.gen != a.generation {
		return false
	}
	a.budgetView = v
	return true
}

// ClientSnapshot returns the currently published client-focused snapshot,
// or nil when no client run has been started since the last budget run.
func (a *Assembler) ClientSnapshot() *ClientView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clientView
}

// BudgetSnapshot returns the currently published budget-focused snapshot.
func (a *Assembler) BudgetSnapshot() *BudgetView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.budgetView
}

// LoadClient runs a full client-focused aggregation for clientID and
// returns the published snapshot. Fetch failures end up inside a Failed
// snapshot, not in the returned error; the error is non-nil only when the
// run could not publish at all (superseded by a newer run, or torn down
// via ctx).
func (a *Assembler) LoadClient(ctx context.Context, clientID int) (*ClientView, error) {
	r := a.begin(ctx, kindClient, clientID)
	defer r.cancel()

	// The focal entity gates everything: if the client itself cannot be
	// fetched, none of the dependent collections are requested.
	client, err := a.fetchClient(r, clientID)
	if err != nil {
		if abortErr := a.aborted(r); abortErr != nil {
			return nil, a.discard(r, kindClient, abortErr)
		}
		v := failedClientView(r.id, clientID, err)
		a.publishClient(r, v)
		metrics.RunsFailed.WithLabelValues(kindClient).Inc()
		r.log.Warnw("aggregation run failed", "error", err)
		return v, nil
	}

	// The four dependent collections are independent; fetch them
	// concurrently and wait for every settlement before joining.
	var (
		wg           sync.WaitGroup
		accounts     []models.Account
		transactions []models.Transaction
		budgets      []models.Budget
		goals        []models.Goal
		accErr       error
		txErr        error
		budgetErr    error
		goalErr      error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		accounts, accErr = timed("accounts", func() ([]models.Account, error) {
			return a.api.ListAccounts(r.ctx)
		})
	}()
	go func() {
		defer wg.Done()
		transactions, txErr = timed("transactions", func() ([]models.Transaction, error) {
			return a.api.ListTransactions(r.ctx)
		})
	}()
	go func() {
		defer wg.Done()
		budgets, budgetErr = timed("budgets", func() ([]models.Budget, error) {
			return a.api.ListBudgets(r.ctx)
		})
	}()
	go func() {
		defer wg.Done()
		goals, goalErr = timed("goals", func() ([]models.Goal, error) {
			return a.api.GoalsByClient(r.ctx, clientID)
		})
	}()
	wg.Wait()

	if abortErr := a.aborted(r); abortErr != nil {
		return nil, a.discard(r, kindClient, abortErr)
	}

	// Accounts, transactions and budgets are load-bearing for the derived
	// aggregates; any of them failing fails the run. Goals degrade to an
	// Unavailable section on their own.
	for _, fetchErr := range []error{accErr, txErr, budgetErr} {
		if fetchErr != nil {
			v := failedClientView(r.id, clientID, fetchErr)
			a.publishClient(r, v)
			metrics.RunsFailed.WithLabelValues(kindClient).Inc()
			r.log.Warnw("aggregation run failed", "error", fetchErr)
			return v, nil
		}
	}

	joined := join.ForClient(clientID, accounts, transactions, budgets)

	v := &ClientView{
		RunID:        r.id,
		ClientID:     clientID,
		State:        StateReady,
		Client:       client,
		Accounts:     joined.Accounts,
		Transactions: joined.Transactions,
		Budgets:      joined.Budgets,
		TotalBalance: aggregate.TotalBalance(joined.Accounts),
		Summary:      aggregate.Summarize(joined.Transactions),
	}
	if goalErr != nil {
		v.Goals = UnavailableSection[[]models.Goal](goalErr)
		r.log.Warnw("goals section unavailable", "error", goalErr)
	} else {
		v.Goals = ReadySection(goals)
	}

	if !a.publishClient(r, v) {
		return nil, a.discard(r, kindClient, apperrors.ErrRunSuperseded)
	}
	r.log.Infow("aggregation run published",
		"accounts", len(v.Accounts),
		"transactions", len(v.Transactions),
		"budgets", len(v.Budgets),
		"goals_available", v.Goals.Available,
	)
	return v, nil
}

func (a *Assembler) fetchClient(r run, clientID int) (*models.Client, error) {
	start := time.Now()
	client, err := a.api.GetClient(r.ctx, clientID)
	metrics.FetchDuration.WithLabelValues("client").Observe(time.Since(start).Seconds())
	return client, err
}

// timed wraps a collection fetch with the latency histogram.
func timed[T any](collection string, fetch func() ([]T, error)) ([]T, error) {
	start := time.Now()
	out, err := fetch()
	metrics.FetchDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	return out, err
}

// discard accounts for a run that may not publish. The result, if any, is
// dropped unconditionally.
func (a *Assembler) discard(r run, kind string, reason error) error {
	if errors.Is(reason, apperrors.ErrRunSuperseded) {
		metrics.RunsSuperseded.WithLabelValues(kind).Inc()
		r.log.Infow("aggregation run superseded")
	} else {
		r.log.Infow("aggregation run cancelled", "reason", reason)
	}
	return reason
}
