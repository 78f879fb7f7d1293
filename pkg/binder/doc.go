// Package binder fills handler request values from HTTP request bodies.
//
// JSON decodes strictly into a struct. RawJSON keeps the body bytes for
// callers that validate the document themselves:
//
//	handler.Wrap(submit,
//		handler.WithBinder[handler.Context, json.RawMessage](binder.RawJSON(4<<20)),
//	)
//
// Both binders bound the body size and report failures with the sentinel
// errors in errors.go, which handler.ClassifyError maps to HTTP statuses.
package binder
