package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexiquest/exercise-engine/internal/services"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case services.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidExercise):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), ErrorResponse{Message: err.Error()})
}
