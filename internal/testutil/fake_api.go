package testutil

import (
	"context"
	"sync"

	"finman/internal/models"
)

// FakeFinanceAPI is a func-field fake of the finance API used by assembler,
// coordinator and server tests. Unset funcs return empty results; every
// call is counted so tests can assert which fetches were (not) issued.
type FakeFinanceAPI struct {
	mu    sync.Mutex
	calls map[string]int

	GetClientFn                       func(ctx context.Context, id int) (*models.Client, error)
	ListAccountsFn                    func(ctx context.Context) ([]models.Account, error)
	ListTransactionsFn                func(ctx context.Context) ([]models.Transaction, error)
	ListBudgetsFn                     func(ctx context.Context) ([]models.Budget, error)
	GoalsByClientFn                   func(ctx context.Context, clientID int) ([]models.Goal, error)
	GetBudgetFn                       func(ctx context.Context, id int) (*models.Budget, error)
	TransactionsByClientAndCategoryFn func(ctx context.Context, clientID, categoryID int) ([]models.Transaction, error)
	AddFundsToGoalFn                  func(ctx context.Context, goalID int, tx models.CreateTransaction) (*models.Goal, error)
	CreateGoalFn                      func(ctx context.Context, goal models.CreateGoal) (*models.Goal, error)
}

// NewFakeFinanceAPI creates a fake with zeroed call counts.
func NewFakeFinanceAPI() *FakeFinanceAPI {
	return &FakeFinanceAPI{calls: make(map[string]int)}
}

// CallCount returns how many times the named operation was invoked.
func (f *FakeFinanceAPI) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeFinanceAPI) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *FakeFinanceAPI) GetClient(ctx context.Context, id int) (*models.Client, error) {
	f.record("GetClient")
	if f.GetClientFn != nil {
		return f.GetClientFn(ctx, id)
	}
	return &models.Client{ID: id}, nil
}

func (f *FakeFinanceAPI) ListAccounts(ctx context.Context) ([]models.Account, error) {
	f.record("ListAccounts")
	if f.ListAccountsFn != nil {
		return f.ListAccountsFn(ctx)
	}
	return nil, nil
}

func (f *FakeFinanceAPI) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	f.record("ListTransactions")
	if f.ListTransactionsFn != nil {
		return f.ListTransactionsFn(ctx)
	}
	return nil, nil
}

func (f *FakeFinanceAPI) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	f.record("ListBudgets")
	if f.ListBudgetsFn != nil {
		return f.ListBudgetsFn(ctx)
	}
	return nil, nil
}

func (f *FakeFinanceAPI) GoalsByClient(ctx context.Context, clientID int) ([]models.Goal, error) {
	f.record("GoalsByClient")
	if f.GoalsByClientFn != nil {
		return f.GoalsByClientFn(ctx, clientID)
	}
	return nil, nil
}

func (f *FakeFinanceAPI) GetBudget(ctx context.Context, id int) (*models.Budget, error) {
	f.record("GetBudget")
	if f.GetBudgetFn != nil {
		return f.GetBudgetFn(ctx, id)
	}
	return &models.Budget{ID: id}, nil
}

func (f *FakeFinanceAPI) TransactionsByClientAndCategory(ctx context.Context, clientID, categoryID int) ([]models.Transaction, error) {
	f.record("TransactionsByClientAndCategory")
	if f.TransactionsByClientAndCategoryFn != nil {
		return f.TransactionsByClientAndCategoryFn(ctx, clientID, categoryID)
	}
	return nil, nil
}

func (f *FakeFinanceAPI) AddFundsToGoal(ctx context.Context, goalID int, tx models.CreateTransaction) (*models.Goal, error) {
	f.record("AddFundsToGoal")
	if f.AddFundsToGoalFn != nil {
		return f.AddFundsToGoalFn(ctx, goalID, tx)
	}
	return &models.Goal{ID: goalID}, nil
}

func (f *FakeFinanceAPI) CreateGoal(ctx context.Context, goal models.CreateGoal) (*models.Goal, error) {
	f.record("CreateGoal")
	if f.CreateGoalFn != nil {
		return f.CreateGoalFn(ctx, goal)
	}
	return &models.Goal{ID: 1, Name: goal.Name, TargetAmount: goal.TargetAmount, EndDate: goal.EndDate, ClientID: goal.ClientID}, nil
}
