package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceErrorResponse(t *testing.T, err error) (int, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("trace_id", "trace-1")

	HandleServiceError(c, err)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{"invalid request", fmt.Errorf("%w: empty image", ErrInvalidRequest), http.StatusBadRequest, "error"},
		{"unknown schema", fmt.Errorf("%w: %q", ErrUnknownSchema, "x"), http.StatusNotFound, "error"},
		{"too large", ErrImageTooLarge, http.StatusRequestEntityTooLarge, "error"},
		{"ocr disabled", ErrOCRDisabled, http.StatusServiceUnavailable, "ocr_unavailable"},
		{"empty text", ErrEmptyOCRText, http.StatusUnprocessableEntity, "error"},
		{"ocr failed", fmt.Errorf("%w: timeout", ErrOCRFailed), http.StatusBadGateway, "error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serviceErrorResponse(t, tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "trace-1", resp.TraceID)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRespondSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondSuccess(c, map[string]int{"n": 1}, "done")

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "done", resp.Message)
	assert.Empty(t, resp.TraceID)
	assert.Equal(t, map[string]any{"n": float64(1)}, resp.Data)
}
