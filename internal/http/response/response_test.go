package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alertdash/alertdash-server/internal/errors"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, discard())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decode(t, w)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Nil(t, result.Error)
}

func TestJSON_ErrorStatus(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNotFound, map[string]string{"message": "test"}, discard())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success, "Success should be false for status >= 400")
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()

	Created(w, map[string]string{"id": "x"}, discard())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		status   int
		wantCode apperrors.Code
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad", nil) }, http.StatusBadRequest, apperrors.CodeValidation},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "missing", nil) }, http.StatusNotFound, apperrors.CodeNotFound},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", nil) }, http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(tt.wantCode), env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestTooManyRequests_RetryAfter(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, apperrors.ErrRateLimited, 1500*time.Millisecond, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	body := decode(t, w)
	assert.Equal(t, string(apperrors.CodeRateLimited), body.Error.Code)
	assert.Equal(t, apperrors.ErrRateLimited.Message, body.Error.Message)
	assert.Equal(t, map[string]any{"retry_after_seconds": float64(2)}, body.Error.Details)
}

func TestTooManyRequests_SubSecondRoundsUp(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, apperrors.ErrRateLimited, 100*time.Millisecond, nil)

	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestTooManyRequests_NoRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, apperrors.ErrRateLimited, 0, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.Nil(t, decode(t, w).Error.Details)
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	details := map[string]string{"file": "alerts/2024-01-01.json"}
	err := fmt.Errorf("build: %w", apperrors.Wrap(io.ErrUnexpectedEOF, apperrors.CodeMalformedJSON, "parse 2024-01-01.json").WithDetails(details))

	HandleError(w, err, discard())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MALFORMED_JSON", env.Error.Code)
	assert.Equal(t, "parse 2024-01-01.json", env.Error.Message)
	assert.Equal(t, map[string]any{"file": "alerts/2024-01-01.json"}, env.Error.Details)
}

func TestHandleError_Sentinel(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, apperrors.ErrNoExtraction, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NO_EXTRACTION", decode(t, w).Error.Code)
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, io.ErrClosedPipe, discard())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "INTERNAL", env.Error.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
}
