package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neontj/signquote/pkg/binder"
	"github.com/neontj/signquote/handler"
	"github.com/neontj/signquote/pkg/requestid"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		key    string
		level  slog.Level
	}{
		{"http error", handler.ErrNotFound, http.StatusNotFound, "not_found", slog.LevelWarn},
		{"wrapped http error", fmt.Errorf("route: %w", handler.ErrMethodNotAllowed), http.StatusMethodNotAllowed, "method_not_allowed", slog.LevelWarn},
		{"custom http error", handler.NewHTTPError(http.StatusConflict, "duplicate"), http.StatusConflict, "duplicate", slog.LevelWarn},
		{"too large", fmt.Errorf("%w: limit", binder.ErrPayloadTooLarge), http.StatusRequestEntityTooLarge, "request_entity_too_large", slog.LevelWarn},
		{"media type", binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "unsupported_media_type", slog.LevelWarn},
		{"missing content type", binder.ErrMissingContentType, http.StatusUnsupportedMediaType, "unsupported_media_type", slog.LevelWarn},
		{"invalid json", binder.ErrInvalidJSON, http.StatusBadRequest, "bad_request", slog.LevelWarn},
		{"empty body", binder.ErrEmptyBody, http.StatusBadRequest, "bad_request", slog.LevelWarn},
		{"panic", fmt.Errorf("%w: boom", handler.ErrPanic), http.StatusInternalServerError, "internal_server_error", slog.LevelError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_server_error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := handler.ClassifyError(tt.err)
			assert.Equal(t, tt.status, info.StatusCode)
			assert.Equal(t, tt.key, info.Key)
			assert.Equal(t, tt.level, info.LogLevel)
		})
	}
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("default render", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		h := handler.NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)), handler.ErrorHandlerConfig{})

		req := httptest.NewRequest(http.MethodPost, "/api/estimate", nil)
		req = req.WithContext(requestid.WithContext(req.Context(), "req-1"))
		w := httptest.NewRecorder()
		h(handler.NewContext(w, req), binder.ErrInvalidJSON)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"bad_request"}`, w.Body.String())
		assert.Contains(t, logs.String(), `"request_id":"req-1"`)
		assert.Contains(t, logs.String(), `"path":"/api/estimate"`)
		assert.Contains(t, logs.String(), `"level":"WARN"`)
	})

	t.Run("custom render", func(t *testing.T) {
		t.Parallel()
		var seen handler.ErrorInfo
		h := handler.NewErrorHandler(slog.New(slog.DiscardHandler), handler.ErrorHandlerConfig{
			Render: func(info handler.ErrorInfo) handler.Response {
				seen = info
				return handler.JSON(map[string]any{"ok": false, "error": "server_error"}, handler.WithJSONStatus(info.StatusCode))
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
		req = req.WithContext(requestid.WithContext(req.Context(), "req-2"))
		w := httptest.NewRecorder()
		h(handler.NewContext(w, req), errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"ok":false,"error":"server_error"}`, w.Body.String())
		assert.Equal(t, "req-2", seen.RequestID)
	})
}
