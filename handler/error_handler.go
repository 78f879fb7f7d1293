package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/neontj/signquote/pkg/binder"
	"github.com/neontj/signquote/pkg/logger"
	"github.com/neontj/signquote/pkg/requestid"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Key        string
	LogLevel   slog.Level
	RequestID  string
}

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// Render builds the response for a classified error. The default
	// writes {"error": key} with the classified status.
	Render func(info ErrorInfo) Response
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ClassifyError maps err to a status code and key. Binder failures are
// client errors; anything unrecognized is a 500.
func ClassifyError(err error) ErrorInfo {
	httpErr := ErrInternalServerError

	var target HTTPError
	switch {
	case errors.As(err, &target):
		httpErr = target
	case errors.Is(err, binder.ErrPayloadTooLarge):
		httpErr = ErrRequestEntityTooLarge
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		httpErr = ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrInvalidJSON), errors.Is(err, binder.ErrEmptyBody):
		httpErr = ErrBadRequest
	}

	return ErrorInfo{
		StatusCode: httpErr.Code,
		Key:        httpErr.Key,
		LogLevel:   determineLogLevel(httpErr.Code),
	}
}

func defaultRender(info ErrorInfo) Response {
	return JSON(map[string]string{"error": info.Key}, WithJSONStatus(info.StatusCode))
}

// NewErrorHandler returns an error handler that logs the failure with the
// request id and renders it through cfg.Render.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Render == nil {
		cfg.Render = defaultRender
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := ClassifyError(err)
		info.RequestID = requestid.FromContext(r.Context())

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(info.RequestID),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := cfg.Render(info).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response",
				logger.RequestID(info.RequestID),
				logger.Error(renderErr),
				logger.Event("render_error_response"),
			)
			http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
