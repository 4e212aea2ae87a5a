package handlers

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the session lifecycle endpoints.
func SetupRoutes(router *gin.Engine, sessionHandler *SessionHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exercise-engine",
		})
	})

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/start", sessionHandler.StartSession)
			sessions.GET("/:exercise_id/:context", sessionHandler.GetSession)
			sessions.POST("/:exercise_id/:context/answer", sessionHandler.SubmitAnswer)
			sessions.POST("/:exercise_id/:context/navigate", sessionHandler.Navigate)
			sessions.POST("/:exercise_id/:context/finish", sessionHandler.FinishSession)
			sessions.DELETE("/:exercise_id/:context", sessionHandler.AbandonSession)
		}

		exercises := v1.Group("/exercises")
		{
			exercises.GET("", sessionHandler.ListExercises)
			exercises.POST("/import", sessionHandler.ImportExercises)
		}
	}
}
