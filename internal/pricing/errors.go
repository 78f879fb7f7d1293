package pricing

import "errors"

var (
	ErrParsingSheet    = errors.New("pricing.errors.parsing_sheet")
	ErrInvalidSheet    = errors.New("pricing.errors.invalid_sheet")
	ErrOpeningSheet    = errors.New("pricing.errors.opening_sheet")
	ErrIncompleteSheet = errors.New("pricing.errors.incomplete_sheet")
)
