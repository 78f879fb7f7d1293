// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value filled by binders,
// and returns a Response:
//
//	func estimate(ctx handler.Context, req EstimateRequest) handler.Response {
//		return handler.JSON(engine.Breakdown(req.Configuration()))
//	}
//
//	r.Post("/api/estimate", handler.Wrap(estimate,
//		handler.WithBinder[handler.Context, EstimateRequest](binder.JSON(0)),
//	))
//
// Binding and rendering failures go to the ErrorHandler. NewErrorHandler
// classifies them with ClassifyError, logs them with the request id, and
// renders the body through ErrorHandlerConfig.Render so each API keeps its
// own error shape. Recover turns handler panics into ErrPanic.
package handler
