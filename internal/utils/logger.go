package utils

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
)

// NewLogger builds the process logger: JSON output in production, text with
// debug level everywhere else.
func NewLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// RequestLogger replaces gin's default logger with structured request logs.
// 4xx responses log at warn and 5xx at error so they stand out in aggregation.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		level := slog.LevelInfo
		if param.StatusCode >= 400 {
			level = slog.LevelWarn
		}
		if param.StatusCode >= 500 {
			level = slog.LevelError
		}

		logger.Log(param.Request.Context(), level, "http request",
			"method", param.Method,
			"path", param.Path,
			"status_code", param.StatusCode,
			"duration", param.Latency.String(),
			"client_ip", param.ClientIP)
		return ""
	})
}
