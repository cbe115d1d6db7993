package view

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "finman/internal/errors"
	"finman/internal/models"
	"finman/internal/testutil"
)

// fixtureAPI returns a fake pre-loaded with the canonical client-42 data
// set: two accounts, three transactions on them, one shared budget, one
// goal, plus noise belonging to other clients.
func fixtureAPI() *testutil.FakeFinanceAPI {
	api := testutil.NewFakeFinanceAPI()
	api.GetClientFn = func(ctx context.Context, id int) (*models.Client, error) {
		if id != 42 {
			return nil, &apperrors.APIError{Status: http.StatusNotFound, Message: "Client not found"}
		}
		return &models.Client{ID: 42, Username: "ada", Email: "ada@example.com"}, nil
	}
	api.ListAccountsFn = func(ctx context.Context) ([]models.Account, error) {
		return []models.Account{
			{ID: 1, ClientID: 42, Balance: 100},
			{ID: 2, ClientID: 42, Balance: -30},
			{ID: 3, ClientID: 7, Balance: 5000},
		}, nil
	}
	api.ListTransactionsFn = func(ctx context.Context) ([]models.Transaction, error) {
		return []models.Transaction{
			{ID: 10, AccountID: 1, Amount: 50},
			{ID: 11, AccountID: 1, Amount: -20},
			{ID: 12, AccountID: 2, Amount: -5},
			{ID: 13, AccountID: 3, Amount: 9000},
		}, nil
	}
	api.ListBudgetsFn = func(ctx context.Context) ([]models.Budget, error) {
		return []models.Budget{
			{ID: 20, ClientIDs: []int{42, 7}, CategoryID: 30, Limitation: 500, AvailableSum: 400},
			{ID: 21, ClientIDs: []int{7}, CategoryID: 31, Limitation: 100, AvailableSum: 100},
		}, nil
	}
	api.GoalsByClientFn = func(ctx context.Context, clientID int) ([]models.Goal, error) {
		return []models.Goal{{ID: 7, Name: "Vacation", ClientID: clientID, TargetAmount: 1000, CurrentAmount: 250}}, nil
	}
	return api
}

func TestLoadClient(t *testing.T) {
	t.Run("joins_and_aggregates", func(t *testing.T) {
		api := fixtureAPI()
		a := NewAssembler(api)

		v, err := a.LoadClient(context.Background(), 42)
		testutil.AssertNoError(t, err)

		if v.State != StateReady {
			t.Fatalf("expected Ready, got %s (%s)", v.State, v.ErrorMessage)
		}
		if v.TotalBalance != 70 {
			t.Errorf("expected total balance 70, got %v", v.TotalBalance)
		}
		if v.Summary.Income != 50 || v.Summary.Expenses != -25 {
			t.Errorf("expected income 50 / expenses -25, got %+v", v.Summary)
		}
		if len(v.Accounts) != 2 || len(v.Transactions) != 3 {
			t.Errorf("unexpected join sizes: %d accounts, %d transactions", len(v.Accounts), len(v.Transactions))
		}
		if len(v.Budgets) != 1 || v.Budgets[0].ID != 20 {
			t.Errorf("expected only the shared budget, got %+v", v.Budgets)
		}
		if !v.Goals.Available || len(v.Goals.Data) != 1 {
			t.Errorf("expected goals section available with 1 goal, got %+v", v.Goals)
		}
		if snap := a.ClientSnapshot(); snap != v {
			t.Error("published snapshot should be the returned one")
		}
	})

	t.Run("missing_client_fails_without_dependent_fetches", func(t *testing.T) {
		api := fixtureAPI()
		a := NewAssembler(api)

		v, err := a.LoadClient(context.Background(), 999)
		testutil.AssertNoError(t, err)

		if v.State != StateFailed {
			t.Fatalf("expected Failed, got %s", v.State)
		}
		if !apperrors.NotFound(v.Err) {
			t.Errorf("expected not-found error, got %v", v.Err)
		}
		for _, op := range []string{"ListAccounts", "ListTransactions", "ListBudgets", "GoalsByClient"} {
			if n := api.CallCount(op); n != 0 {
				t.Errorf("expected no %s calls after focal failure, got %d", op, n)
			}
		}
	})

	t.Run("goals_failure_degrades_to_unavailable_section", func(t *testing.T) {
		api := fixtureAPI()
		api.GoalsByClientFn = func(ctx context.Context, clientID int) ([]models.Goal, error) {
			return nil, &apperrors.APIError{Status: http.StatusInternalServerError, Message: "goals backend down"}
		}
		a := NewAssembler(api)

		v, err := a.LoadClient(context.Background(), 42)
		testutil.AssertNoError(t, err)

		if v.State != StateReady {
			t.Fatalf("expected Ready despite goals failure, got %s", v.State)
		}
		if v.Goals.Available {
			t.Error("expected goals section unavailable")
		}
		if v.Goals.Error == "" {
			t.Error("expected goals section to carry its own error message")
		}
		// The rest of the view stays usable.
		if v.TotalBalance != 70 {
			t.Errorf("expected total balance 70, got %v", v.TotalBalance)
		}
	})

	t.Run("accounts_failure_fails_the_run", func(t *testing.T) {
		api := fixtureAPI()
		api.ListAccountsFn = func(ctx context.Context) ([]models.Account, error) {
			return nil, &apperrors.TransportError{Op: "fetching accounts", Err: errors.New("connection refused")}
		}
		a := NewAssembler(api)

		v, err := a.LoadClient(context.Background(), 42)
		testutil.AssertNoError(t, err)

		if v.State != StateFailed {
			t.Fatalf("expected Failed, got %s", v.State)
		}
		if !apperrors.IsTransport(v.Err) {
			t.Errorf("expected transport error, got %v", v.Err)
		}
	})

	t.Run("supersession_discards_older_run", func(t *testing.T) {
		api := fixtureAPI()
		r1Entered := make(chan struct{})
		release := make(chan struct{})
		baseGetClient := api.GetClientFn
		api.GetClientFn = func(ctx context.Context, id int) (*models.Client, error) {
			if id == 42 {
				close(r1Entered)
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return baseGetClient(ctx, id)
		}
		// Client 43 resolves normally for the second run.
		api.GetClientFn = wrapClient(api.GetClientFn, 43)
		a := NewAssembler(api)

		r1Done := make(chan error, 1)
		go func() {
			_, err := a.LoadClient(context.Background(), 42)
			r1Done <- err
		}()
		<-r1Entered

		// While run 1 is in flight, the published snapshot is Loading with
		// cleared derived state.
		if snap := a.ClientSnapshot(); snap.State != StateLoading || snap.TotalBalance != 0 {
			t.Errorf("expected cleared Loading snapshot, got %+v", snap)
		}

		v2, err := a.LoadClient(context.Background(), 43)
		testutil.AssertNoError(t, err)
		if v2.State != StateReady || v2.ClientID != 43 {
			t.Fatalf("expected Ready view for client 43, got %+v", v2)
		}

		close(release)
		if err := <-r1Done; !errors.Is(err, apperrors.ErrRunSuperseded) {
			t.Fatalf("expected ErrRunSuperseded for run 1, got %v", err)
		}

		// Run 1's late result must never replace run 2's.
		if snap := a.ClientSnapshot(); snap.ClientID != 43 {
			t.Errorf("stale run overwrote the published snapshot: %+v", snap)
		}
	})

	t.Run("teardown_cancels_outstanding_run", func(t *testing.T) {
		api := fixtureAPI()
		entered := make(chan struct{})
		api.ListAccountsFn = func(ctx context.Context) ([]models.Account, error) {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		a := NewAssembler(api)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := a.LoadClient(ctx, 42)
			done <- err
		}()
		<-entered
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled on teardown, got %v", err)
		}
	})
}

// wrapClient makes extraID resolve successfully on top of an existing
// GetClient behavior.
func wrapClient(base func(context.Context, int) (*models.Client, error), extraID int) func(context.Context, int) (*models.Client, error) {
	return func(ctx context.Context, id int) (*models.Client, error) {
		if id == extraID {
			return &models.Client{ID: extraID}, nil
		}
		return base(ctx, id)
	}
}
