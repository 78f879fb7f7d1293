package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/handler"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := handler.JSON(map[string]any{"ok": true}).Render(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("status and headers", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.JSON(map[string]any{"ok": false, "error": "rate_limited"},
			handler.WithJSONStatus(http.StatusTooManyRequests),
			handler.WithJSONHeader("Retry-After", "60"),
			handler.WithJSONHeader("X-Empty", ""),
		)
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		_, present := w.Header()["X-Empty"]
		assert.False(t, present)
		assert.JSONEq(t, `{"ok":false,"error":"rate_limited"}`, w.Body.String())
	})

	t.Run("null body", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.JSON(nil).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "null\n", w.Body.String())
	})
}
