package view

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"finman/internal/logger"
	"finman/internal/models"
)

// Coordinator sequences a write against the finance API with a full
// re-assembly of the composite view, so that the published view always
// reflects the just-committed state as reported by the backend rather
// than a locally patched guess.
type Coordinator struct {
	api       FinanceAPI
	assembler *Assembler
	log       *zap.SugaredLogger
}

// NewCoordinator creates a Coordinator sharing the given assembler.
func NewCoordinator(api FinanceAPI, assembler *Assembler) *Coordinator {
	return &Coordinator{api: api, assembler: assembler, log: logger.Get()}
}

// AddFundsRequest carries the operator's add-funds form values.
type AddFundsRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	AccountID   int     `json:"accountId" binding:"required"`
	CategoryID  int     `json:"categoryId" binding:"required"`
	Description string  `json:"description"`
}

// AddFunds credits req.Amount to the goal and then refreshes the
// client-focused view for clientID with a full re-fetch.
//
// On mutation failure the previously published view is left untouched and
// the mutation error is returned with a nil view. On success the call
// returns once the refreshed view reaches Ready or Failed; if the refresh
// is superseded by a newer run, the mutation stands and
// ErrRunSuperseded is returned.
func (c *Coordinator) AddFunds(ctx context.Context, goalID, clientID int, req AddFundsRequest) (*ClientView, error) {
	tx := models.CreateTransaction{
		Amount:      math.Abs(req.Amount),
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        time.Now().UTC().Format(time.RFC3339),
	}

	goal, err := c.api.AddFundsToGoal(ctx, goalID, tx)
	if err != nil {
		c.log.Warnw("add-funds mutation failed", "goal_id", goalID, "error", err)
		return nil, err
	}
	c.log.Infow("funds added to goal",
		"goal_id", goal.ID,
		"client_id", clientID,
		"amount", tx.Amount,
		"current_amount", goal.CurrentAmount,
	)

	// Full re-fetch, as if the operator had navigated here afresh. The
	// assembler's ordering guarantee makes a second concurrent AddFunds
	// supersede this refresh.
	return c.assembler.LoadClient(ctx, clientID)
}
