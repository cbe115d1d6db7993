// Package client provides the HTTP client for the remote finance API.
// The API exposes flat, unjoined collections keyed by surrogate integer
// ids; all relational composition over them happens in internal/join.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "finman/internal/errors"
	"finman/internal/models"
)

// FinanceClient communicates with the finance REST API.
type FinanceClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewFinanceClient creates a new finance API client. apiKey may be empty
// for deployments without key auth.
func NewFinanceClient(baseURL, apiKey string, httpClient *http.Client) *FinanceClient {
	return &FinanceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// GetClient fetches a single client by id.
func (c *FinanceClient) GetClient(ctx context.Context, id int) (*models.Client, error) {
	var client models.Client
	if err := c.get(ctx, "/api/clients/"+strconv.Itoa(id), "fetching client", &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// ListAccounts fetches all accounts.
func (c *FinanceClient) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.get(ctx, "/api/accounts", "fetching accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListTransactions fetches all transactions.
func (c *FinanceClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.get(ctx, "/api/transactions", "fetching transactions", &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// TransactionsByClientAndCategory fetches the transactions of one client
// restricted to one category. Used by the budget fan-out join.
func (c *FinanceClient) TransactionsByClientAndCategory(ctx context.Context, clientID, categoryID int) ([]models.Transaction, error) {
	path := fmt.Sprintf("/api/transactions/filter?clientId=%d&categoryId=%d", clientID, categoryID)
	var transactions []models.Transaction
	if err := c.get(ctx, path, "fetching transactions by client and category", &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// ListBudgets fetches all budgets.
func (c *FinanceClient) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := c.get(ctx, "/api/budgets", "fetching budgets", &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// GetBudget fetches a single budget by id.
func (c *FinanceClient) GetBudget(ctx context.Context, id int) (*models.Budget, error) {
	var budget models.Budget
	if err := c.get(ctx, "/api/budgets/"+strconv.Itoa(id), "fetching budget", &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// GoalsByClient fetches the goals owned by one client. The endpoint filters
// server-side, so the result needs no further joining.
func (c *FinanceClient) GoalsByClient(ctx context.Context, clientID int) ([]models.Goal, error) {
	path := "/api/goals/filter?clientId=" + strconv.Itoa(clientID)
	var goals []models.Goal
	if err := c.get(ctx, path, "fetching goals", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// ListCategories fetches all categories.
func (c *FinanceClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/api/categories", "fetching categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// AddFundsToGoal credits amountRecorded to a goal by creating a transaction
// on one of the owner's accounts. Returns the updated goal as reported by
// the backend; callers must re-fetch dependent views rather than patching
// local state.
func (c *FinanceClient) AddFundsToGoal(ctx context.Context, goalID int, tx models.CreateTransaction) (*models.Goal, error) {
	var goal models.Goal
	path := "/api/goals/" + strconv.Itoa(goalID) + "/add-funds"
	if err := c.post(ctx, path, "adding funds to goal", tx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal creates a new savings goal.
func (c *FinanceClient) CreateGoal(ctx context.Context, goal models.CreateGoal) (*models.Goal, error) {
	var created models.Goal
	if err := c.post(ctx, "/api/goals", "creating goal", goal, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateTransaction creates a new transaction.
func (c *FinanceClient) CreateTransaction(ctx context.Context, tx models.CreateTransaction) (*models.Transaction, error) {
	var created models.Transaction
	if err := c.post(ctx, "/api/transactions", "creating transaction", tx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTransaction deletes a transaction by id.
func (c *FinanceClient) DeleteTransaction(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/transactions/"+strconv.Itoa(id), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, "deleting transaction", nil)
}

// get issues a GET request and decodes the JSON response into out.
func (c *FinanceClient) get(ctx context.Context, path, op string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, op, out)
}

// post issues a POST request with a JSON body and decodes the response into out.
func (c *FinanceClient) post(ctx context.Context, path, op string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

// do executes the request and maps failures onto the error taxonomy:
// context cancellation surfaces as ctx.Err(), connection-level failures as
// *TransportError, and non-2xx responses as *APIError. A cancelled request
// never delivers a result.
func (c *FinanceClient) do(req *http.Request, op string, out interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &apperrors.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperrors.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// decodeAPIError builds an APIError from a non-2xx response. The finance
// API reports errors as {status, error, message, errors: [{field,
// defaultMessage}]}; an undecodable body still yields an APIError carrying
// the status line.
func decodeAPIError(resp *http.Response) error {
	apiErr := &apperrors.APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var remote struct {
		Message string                 `json:"message"`
		Error   string                 `json:"error"`
		Errors  []apperrors.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &remote); err != nil {
		// Plain-text error body.
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = remote.Message
	if apiErr.Message == "" {
		apiErr.Message = remote.Error
	}
	apiErr.FieldErrors = remote.Errors
	return apiErr
}
