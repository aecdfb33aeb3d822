package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/store"
	"go.uber.org/zap"
)

// ErrorHandler is a custom error handling middleware that handles all errors returned by handlers
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// check if there is an error, if so, get the last error
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		problem := toProblem(err)
		if problem.Log != nil {
			logger.Error("Request failed",
				zap.Int("status", problem.Status),
				zap.String("path", c.Request.URL.Path),
				zap.Error(problem.Log),
			)
		}
		problem.Instance = c.Request.URL.Path

		// RFC 9457 dictates the json is at the root
		c.Header("Content-Type", "application/problem+json")
		c.JSON(problem.Status, problem)
		c.Abort()
	}
}

func toProblem(err error) *domain.Problem {
	var problem *domain.Problem
	if errors.As(err, &problem) {
		return problem
	}

	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr.Problem()
	}

	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFoundError("The requested resource does not exist.").Problem()
	}

	// at this point it's an unknown error.
	return domain.New(
		http.StatusInternalServerError,
		"Internal Server Error",
		"An unexpected error occurred.",
		domain.WithLog(err),
	)
}
