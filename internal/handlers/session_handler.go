package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexiquest/exercise-engine/internal/content"
	"github.com/lexiquest/exercise-engine/internal/models"
	"github.com/lexiquest/exercise-engine/internal/services"
)

type SessionHandler struct {
	service   services.SessionService
	importer  *content.Importer
	exercises content.ExerciseRepository
	logger    *slog.Logger
}

func NewSessionHandler(service services.SessionService, importer *content.Importer, exercises content.ExerciseRepository, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service:   service,
		importer:  importer,
		exercises: exercises,
		logger:    logger,
	}
}

type startSessionRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	Context    string `json:"context" binding:"required"`
}

// StartSession begins or resumes a session for (exercise, context).
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request", Details: err.Error()})
		return
	}

	view, err := h.service.Start(c.Request.Context(), req.ExerciseID, req.Context)
	if err != nil {
		h.logger.Error("failed to start session",
			"exercise_id", req.ExerciseID, "context", req.Context, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "session started", Data: view})
}

// GetSession returns the current view of a live session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), c.Param("exercise_id"), c.Param("context"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "session", Data: view})
}

type submitAnswerRequest struct {
	QuestionID string             `json:"question_id" binding:"required"`
	Value      models.AnswerValue `json:"value"`
}

// SubmitAnswer grades one answer and returns the grade.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request", Details: err.Error()})
		return
	}

	result, err := h.service.SubmitAnswer(c.Request.Context(),
		c.Param("exercise_id"), c.Param("context"), req.QuestionID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "answer graded", Data: result})
}

// Navigate moves the session cursor.
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req services.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request", Details: err.Error()})
		return
	}

	view, err := h.service.Navigate(c.Request.Context(), c.Param("exercise_id"), c.Param("context"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "navigated", Data: view})
}

// FinishSession completes the session and returns the final summary.
func (h *SessionHandler) FinishSession(c *gin.Context) {
	response, err := h.service.Finish(c.Request.Context(), c.Param("exercise_id"), c.Param("context"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "session finished", Data: response})
}

// AbandonSession discards the session and its persisted snapshot.
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	if err := h.service.Abandon(c.Request.Context(), c.Param("exercise_id"), c.Param("context")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "session abandoned"})
}

// ListExercises returns authored exercises, optionally filtered by level.
func (h *SessionHandler) ListExercises(c *gin.Context) {
	level := models.ExerciseLevel(c.Query("level"))
	switch level {
	case "", models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid level filter", Details: string(level)})
		return
	}

	exercises, err := h.exercises.ListByLevel(c.Request.Context(), level)
	if err != nil {
		h.logger.Error("failed to list exercises", "level", level, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "exercises", Data: exercises})
}

// ImportExercises bulk-imports authored exercises from a spreadsheet upload.
func (h *SessionHandler) ImportExercises(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "missing file upload", Details: err.Error()})
		return
	}
	defer file.Close()

	result, err := h.importer.ImportExercises(c.Request.Context(), file)
	if err != nil {
		h.logger.Error("exercise import failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: "import failed", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "import completed", Data: result})
}
