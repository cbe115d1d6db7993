package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "finman/internal/errors"
	"finman/internal/models"
	"finman/internal/view"
)

// ViewHandler serves the composite detail views assembled by internal/view.
type ViewHandler struct {
	assembler   *view.Assembler
	coordinator *view.Coordinator
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(assembler *view.Assembler, coordinator *view.Coordinator) *ViewHandler {
	return &ViewHandler{assembler: assembler, coordinator: coordinator}
}

// GetClientView assembles and returns the client-focused composite view.
// A Failed snapshot is returned with the status of its underlying error so
// the operator sees one terminal message per failed run.
func (h *ViewHandler) GetClientView(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.assembler.LoadClient(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithClientView(c, snapshot)
}

// GetBudgetView assembles and returns the budget-focused composite view.
func (h *ViewHandler) GetBudgetView(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.assembler.LoadBudget(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if snapshot.State == view.StateFailed {
		c.JSON(apperrors.StatusCode(snapshot.Err), snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// AddFunds handles the add-funds mutation on a goal followed by a full
// view refresh for the owning client.
func (h *ViewHandler) AddFunds(c *gin.Context) {
	goalID, err := pathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := strconv.Atoi(c.Query("clientId"))
	if err != nil || clientID <= 0 {
		respondWithError(c, &apperrors.APIError{Status: http.StatusBadRequest, Message: "clientId query parameter is required"})
		return
	}

	var req view.AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, &apperrors.APIError{Status: http.StatusBadRequest, Message: err.Error()})
		return
	}

	snapshot, err := h.coordinator.AddFunds(c.Request.Context(), goalID, clientID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithClientView(c, snapshot)
}

// CreateGoalRequest is the proxied goal-creation form. EndDate must lie in
// the future; StartDate only needs to be well-formed.
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	TargetAmount float64 `json:"targetAmount" binding:"required,gt=0"`
	StartDate    string  `json:"startDate" binding:"omitempty,date"`
	EndDate      string  `json:"endDate" binding:"required,future_date"`
	ClientID     int     `json:"clientId" binding:"required,gt=0"`
}

// GoalCreator is the slice of the finance API the goal proxy needs.
type GoalCreator interface {
	CreateGoal(ctx context.Context, goal models.CreateGoal) (*models.Goal, error)
}

// GoalHandler proxies thin goal CRUD to the finance API.
type GoalHandler struct {
	api GoalCreator
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(api GoalCreator) *GoalHandler {
	return &GoalHandler{api: api}
}

// CreateGoal validates and forwards a goal creation.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, &apperrors.APIError{Status: http.StatusBadRequest, Message: err.Error()})
		return
	}

	goal, err := h.api.CreateGoal(c.Request.Context(), models.CreateGoal{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ClientID:     req.ClientID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

func respondWithClientView(c *gin.Context, snapshot *view.ClientView) {
	if snapshot.State == view.StateFailed {
		c.JSON(apperrors.StatusCode(snapshot.Err), snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &apperrors.APIError{Status: http.StatusBadRequest, Message: "invalid id in path"}
	}
	return id, nil
}
