package quote

import (
	"errors"
	"net/http"
)

// Kind is the caller-facing error taxonomy of a submission.
type Kind string

const (
	KindInvalidRequest  Kind = "invalid_request"
	KindRateLimited     Kind = "rate_limited"
	KindChallengeFailed Kind = "challenge_failed"
	KindNotConfigured   Kind = "ses_not_configured"
	KindSendFailed      Kind = "ses_send_failed"
	KindServerError     Kind = "server_error"
)

// Status returns the HTTP status code reported for k.
func (k Kind) Status() int {
	switch k {
	case "":
		return http.StatusOK
	case KindInvalidRequest, KindChallengeFailed:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Internal reports whether k is a deployment or delivery failure rather
// than something the caller can correct.
func (k Kind) Internal() bool {
	return k.Status() >= http.StatusInternalServerError
}

var (
	ErrIncompleteSubmission = errors.New("quote.errors.incomplete_submission")
	ErrRenderFailed         = errors.New("quote.errors.render_failed")
	ErrNotConfigured        = errors.New("quote.errors.mail_not_configured")
	ErrGuardRequired        = errors.New("quote.errors.guard_required")
)
