// Package server exposes the assembled composite views over a thin Gin
// HTTP surface. All business logic lives in internal/view; this layer only
// binds requests, runs the assembler or coordinator, and shapes responses.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finman/internal/validator"
	"finman/internal/view"
)

// NewRouter builds the Gin engine with all routes and middleware wired.
func NewRouter(assembler *view.Assembler, coordinator *view.Coordinator, goals GoalCreator) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogging())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	viewHandler := NewViewHandler(assembler, coordinator)
	goalHandler := NewGoalHandler(goals)

	v1 := router.Group("/api/v1")

	views := v1.Group("/views")
	views.GET("/clients/:id", viewHandler.GetClientView)
	views.GET("/budgets/:id", viewHandler.GetBudgetView)

	goalRoutes := v1.Group("/goals")
	goalRoutes.POST("", goalHandler.CreateGoal)
	goalRoutes.POST("/:id/add-funds", viewHandler.AddFunds)

	return router
}
