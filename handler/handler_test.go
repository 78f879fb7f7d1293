package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/pkg/binder"
	"github.com/neontj/signquote/handler"
)

type echoRequest struct {
	Text string `json:"text"`
}

func echo(_ handler.Context, req echoRequest) handler.Response {
	return handler.JSON(map[string]string{"text": req.Text})
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echo, handler.WithBinder[handler.Context, echoRequest](binder.JSON(0)))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"HELLO"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"text":"HELLO"}`, w.Body.String())
	})

	t.Run("bind error goes to error handler", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(echo,
			handler.WithBinder[handler.Context, echoRequest](binder.JSON(0)),
			handler.WithErrorHandler[handler.Context, echoRequest](func(_ handler.Context, err error) { got = err }),
		)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		h(httptest.NewRecorder(), req)

		assert.ErrorIs(t, got, binder.ErrInvalidJSON)
	})

	t.Run("not applicable binders are skipped", func(t *testing.T) {
		t.Parallel()
		skip := func(*http.Request, any) error { return binder.ErrBinderNotApplicable }
		fill := func(_ *http.Request, v any) error {
			v.(*echoRequest).Text = "filled"
			return nil
		}
		h := handler.Wrap(echo, handler.WithBinders[handler.Context, echoRequest](skip, fill))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.JSONEq(t, `{"text":"filled"}`, w.Body.String())
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(
			func(handler.Context, echoRequest) handler.Response { return nil },
			handler.WithErrorHandler[handler.Context, echoRequest](func(_ handler.Context, err error) { got = err }),
		)
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("default error handler", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, echoRequest) handler.Response {
			return handler.Fail(handler.ErrNotFound)
		})
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not_found")

		h = handler.Wrap(func(handler.Context, echoRequest) handler.Response {
			return handler.Fail(errors.New("secret detail"))
		})
		w = httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})
}

func TestWrap_Decorators(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) handler.Decorator[handler.Context, echoRequest] {
		return func(next handler.HandlerFunc[handler.Context, echoRequest]) handler.HandlerFunc[handler.Context, echoRequest] {
			return func(ctx handler.Context, req echoRequest) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(echo, handler.WithDecorators(trace("outer"), trace("inner")))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	var got error
	h := handler.Wrap(
		func(handler.Context, echoRequest) handler.Response { panic("boom") },
		handler.WithDecorators(handler.Recover[handler.Context, echoRequest]()),
		handler.WithErrorHandler[handler.Context, echoRequest](func(_ handler.Context, err error) { got = err }),
	)

	require.NotPanics(t, func() {
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.ErrorIs(t, got, handler.ErrPanic)
	assert.Contains(t, got.Error(), "boom")
}

func TestWrap_ContextFactory(t *testing.T) {
	t.Parallel()

	type appContext struct {
		handler.Context
		tenant string
	}

	h := handler.Wrap(
		func(ctx appContext, _ echoRequest) handler.Response {
			return handler.JSON(map[string]string{"tenant": ctx.tenant, "path": ctx.Request().URL.Path})
		},
		handler.WithContextFactory[appContext, echoRequest](func(w http.ResponseWriter, r *http.Request) appContext {
			return appContext{Context: handler.NewContext(w, r), tenant: "neontj"}
		}),
	)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	assert.JSONEq(t, `{"tenant":"neontj","path":"/api/catalog"}`, w.Body.String())
}
