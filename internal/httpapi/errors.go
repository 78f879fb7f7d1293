package httpapi

import (
	"net/http"

	"github.com/neontj/signquote/handler"
	"github.com/neontj/signquote/internal/quote"
)

type errorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// errorHandler renders binding failures and panics in the quote response
// shape. Client errors become invalid_request; the rest become server_error.
func (a *api) errorHandler() handler.ErrorHandler[handler.Context] {
	return handler.NewErrorHandler(a.logger, handler.ErrorHandlerConfig{
		Render: func(info handler.ErrorInfo) handler.Response {
			kind, status := quote.KindServerError, http.StatusInternalServerError
			if info.StatusCode < http.StatusInternalServerError {
				kind, status = quote.KindInvalidRequest, http.StatusBadRequest
			}
			return handler.JSON(errorResponse{Error: string(kind)}, handler.WithJSONStatus(status))
		},
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, key string) {
	_ = handler.JSON(errorResponse{Error: key}, handler.WithJSONStatus(status)).Render(w, r)
}
