package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// TraceID returns the request trace id, or "" when none was assigned.
func TraceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: TraceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: TraceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownSchema):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrImageTooLarge):
		RespondError(c, http.StatusRequestEntityTooLarge, "Image exceeds the 10MB limit")
	case errors.Is(err, ErrOCRDisabled):
		c.JSON(http.StatusServiceUnavailable, APIResponse{
			Status:  "ocr_unavailable",
			Code:    http.StatusServiceUnavailable,
			Message: "Image analysis is not configured on this server",
			TraceID: TraceID(c),
		})
	case errors.Is(err, ErrEmptyOCRText):
		RespondError(c, http.StatusUnprocessableEntity, "No text could be read from the image")
	case errors.Is(err, ErrOCRFailed):
		zap.L().Warn("ocr error", zap.String("trace_id", TraceID(c)), zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Text extraction failed")
	default:
		zap.L().Error("unknown error", zap.String("trace_id", TraceID(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
