package server

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "finman/internal/errors"
	"finman/internal/logger"
)

const requestIDKey = "requestID"

// RequestLogging returns a Gin middleware that logs each request with a
// unique request ID, method, path, status code, latency, and client IP
// using Zap.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		log := logger.Get()
		log.Infow("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// respondWithError maps an error from the aggregation engine or the finance
// API onto this server's JSON error shape. API errors keep the remote
// status and field errors; transport errors become 502; a superseded run
// is reported as a 409 conflict since a newer request replaced this one.
func respondWithError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)

	body := gin.H{"message": err.Error()}
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0 {
		body["errors"] = apiErr.FieldErrors
	}
	if errors.Is(err, apperrors.ErrRunSuperseded) {
		body["code"] = "RUN_SUPERSEDED"
	}

	c.JSON(status, gin.H{"error": body})
}
