package view

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "finman/internal/errors"
	"finman/internal/models"
	"finman/internal/testutil"
)

// goalStore backs the fake with mutable goal state, so a refresh after the
// mutation observes the backend's post-mutation value instead of a local
// increment.
type goalStore struct {
	mu   sync.Mutex
	goal models.Goal
}

func newCoordinatorFixture(t *testing.T) (*testutil.FakeFinanceAPI, *goalStore) {
	t.Helper()
	store := &goalStore{goal: models.Goal{ID: 7, Name: "Vacation", ClientID: 42, TargetAmount: 1000, CurrentAmount: 250}}

	api := fixtureAPI()
	api.GoalsByClientFn = func(ctx context.Context, clientID int) ([]models.Goal, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		return []models.Goal{store.goal}, nil
	}
	api.AddFundsToGoalFn = func(ctx context.Context, goalID int, tx models.CreateTransaction) (*models.Goal, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		store.goal.CurrentAmount += tx.Amount
		updated := store.goal
		return &updated, nil
	}
	return api, store
}

func TestAddFunds(t *testing.T) {
	t.Run("refresh_reflects_backend_value", func(t *testing.T) {
		api, _ := newCoordinatorFixture(t)
		a := NewAssembler(api)
		c := NewCoordinator(api, a)

		v, err := c.AddFunds(context.Background(), 7, 42, AddFundsRequest{
			Amount: 25, AccountID: 1, CategoryID: 30,
		})
		testutil.AssertNoError(t, err)

		if v.State != StateReady {
			t.Fatalf("expected Ready after refresh, got %s", v.State)
		}
		if !v.Goals.Available || len(v.Goals.Data) != 1 {
			t.Fatalf("expected refreshed goals section, got %+v", v.Goals)
		}
		if got := v.Goals.Data[0].CurrentAmount; got != 275 {
			t.Errorf("expected backend-reported current amount 275, got %v", got)
		}
		if n := api.CallCount("ListAccounts"); n != 1 {
			t.Errorf("expected a full re-fetch, got %d account fetches", n)
		}
	})

	t.Run("negative_amount_is_credited_absolute", func(t *testing.T) {
		api, store := newCoordinatorFixture(t)
		a := NewAssembler(api)
		c := NewCoordinator(api, a)

		_, err := c.AddFunds(context.Background(), 7, 42, AddFundsRequest{
			Amount: -25, AccountID: 1, CategoryID: 30,
		})
		testutil.AssertNoError(t, err)

		store.mu.Lock()
		defer store.mu.Unlock()
		if store.goal.CurrentAmount != 275 {
			t.Errorf("expected 275 after absolute-value credit, got %v", store.goal.CurrentAmount)
		}
	})

	t.Run("mutation_failure_leaves_view_untouched", func(t *testing.T) {
		api, _ := newCoordinatorFixture(t)
		a := NewAssembler(api)
		c := NewCoordinator(api, a)

		// Publish a view first, then fail the mutation.
		before, err := a.LoadClient(context.Background(), 42)
		testutil.AssertNoError(t, err)

		api.AddFundsToGoalFn = func(ctx context.Context, goalID int, tx models.CreateTransaction) (*models.Goal, error) {
			return nil, &apperrors.APIError{Status: http.StatusBadRequest, Message: "Amount to save must be positive."}
		}

		v, err := c.AddFunds(context.Background(), 7, 42, AddFundsRequest{
			Amount: 25, AccountID: 1, CategoryID: 30,
		})
		if v != nil {
			t.Errorf("expected no view on mutation failure, got %+v", v)
		}
		testutil.AssertAPIStatus(t, err, http.StatusBadRequest)

		if snap := a.ClientSnapshot(); snap != before {
			t.Error("mutation failure must not replace the published view")
		}
		if n := api.CallCount("GetClient"); n != 1 {
			t.Errorf("expected no refresh after mutation failure, got %d client fetches", n)
		}
	})

	t.Run("newer_run_supersedes_pending_refresh", func(t *testing.T) {
		api, _ := newCoordinatorFixture(t)

		// The first client fetch (the refresh's) blocks until released;
		// later fetches pass straight through.
		entered := make(chan struct{})
		release := make(chan struct{})
		var calls int32
		base := api.GetClientFn
		api.GetClientFn = func(ctx context.Context, id int) (*models.Client, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				close(entered)
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return base(ctx, id)
		}
		a := NewAssembler(api)
		c := NewCoordinator(api, a)

		refreshDone := make(chan error, 1)
		go func() {
			_, err := c.AddFunds(context.Background(), 7, 42, AddFundsRequest{
				Amount: 25, AccountID: 1, CategoryID: 30,
			})
			refreshDone <- err
		}()
		<-entered

		v, err := a.LoadClient(context.Background(), 42)
		testutil.AssertNoError(t, err)
		if v.State != StateReady {
			t.Fatalf("expected Ready for the newer run, got %s", v.State)
		}

		close(release)
		if err := <-refreshDone; !errors.Is(err, apperrors.ErrRunSuperseded) {
			t.Fatalf("expected ErrRunSuperseded for the pending refresh, got %v", err)
		}
	})
}
