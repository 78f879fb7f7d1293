package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/neontj/signquote/pkg/binder"
)

// HandlerFunc handles a bound request value R within context C.
//
//	estimate := func(ctx handler.Context, cfg pricing.Configuration) handler.Response {
//		return handler.JSON(engine.Breakdown(cfg))
//	}
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response writes status, headers and body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. Returning binder.ErrBinderNotApplicable passes the
// request on to the next binder.
type Bind func(r *http.Request, v any) error

// ErrorHandler writes the response for a binding, handler or render failure.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. The first decorator given runs outermost.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
}

// WithBinder replaces the binder list with b.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if b != nil {
			c.binders = []Bind{b}
		}
	}
}

// WithBinders appends binders, run in order.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler replaces the default plain-text error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory builds C for each request. It is required when C is
// not the Context returned by NewContext.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators appends decorators.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

func defaultErrorHandler[C Context](ctx C, err error) {
	code, key := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		code, key = httpErr.Code, httpErr.Key
	}
	http.Error(ctx.ResponseWriter(), key, code)
}

func defaultContext[C Context](w http.ResponseWriter, r *http.Request) C {
	c, ok := NewContext(w, r).(C)
	if !ok {
		panic("handler: custom context type requires WithContextFactory")
	}
	return c
}

// Wrap adapts h to an http.HandlerFunc: build the context, run the binders,
// call the decorated handler and render its response.
//
//	r.Post("/api/estimate", handler.Wrap(estimate,
//		handler.WithBinder[handler.Context, pricing.Configuration](binder.JSON(64<<10)),
//	))
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler:   defaultErrorHandler[C],
		contextFactory: defaultContext[C],
	}
	for _, opt := range opts {
		opt(cfg)
	}

	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		h = cfg.decorators[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)
		if err := serve(ctx, w, r, h, cfg.binders); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

func serve[C Context, R any](ctx C, w http.ResponseWriter, r *http.Request, h HandlerFunc[C, R], binders []Bind) error {
	var req R
	for _, bind := range binders {
		err := bind(r, &req)
		switch {
		case err == nil, errors.Is(err, binder.ErrBinderNotApplicable):
		default:
			return err
		}
	}

	resp := h(ctx, req)
	if resp == nil {
		return ErrNilResponse
	}
	return resp.Render(w, r)
}

// failedResponse hands err to the error handler when rendered.
type failedResponse struct {
	err error
}

func (f failedResponse) Render(http.ResponseWriter, *http.Request) error {
	return f.err
}

// Fail returns a response that routes err through the configured error handler.
func Fail(err error) Response {
	return failedResponse{err: err}
}

// Recover converts a panic in the handler into ErrPanic for the error handler.
func Recover[C Context, R any]() Decorator[C, R] {
	return func(next HandlerFunc[C, R]) HandlerFunc[C, R] {
		return func(ctx C, req R) (resp Response) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					resp = Fail(fmt.Errorf("%w: %v", ErrPanic, rec))
				}
			}()
			return next(ctx, req)
		}
	}
}
