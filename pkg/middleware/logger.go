package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"healthrisk/internal/models/response_models"
	"healthrisk/internal/models/survey_models"
)

// RequestLogger logs one line per request after the handler chain runs.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		traceID, _ := c.Get("trace_id")
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Any("trace_id", traceID),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Check(level, "request").Write(fields...)
	}
}

// Recovery answers handler panics with an internal_error payload. The
// panic value is only exposed when expose is true.
func Recovery(logger *zap.Logger, expose bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		traceID, _ := c.Get("trace_id")
		logger.Error("handler panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Any("trace_id", traceID))

		reason := "Internal server error"
		if expose {
			if err, ok := recovered.(error); ok {
				reason = err.Error()
			} else if s, ok := recovered.(string); ok {
				reason = s
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response_models.ErrorResponse{
			Status:     survey_models.StatusInternalError,
			Reason:     reason,
			AnalysisID: uuid.NewString(),
			Timestamp:  time.Now().UTC(),
		})
	})
}
