package query

import (
	"errors"
	"fmt"
)

// Error kinds for the statistics query pipeline. All are marker errors in the
// same style as service.ErrInvalidInput: wrap with detail, match with errors.Is.
var (
	ErrInvalidFilterKey   = errors.New("invalid filter key")
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrInvalidGroupKey    = errors.New("invalid group key")
	ErrEmptyQuery         = errors.New("empty query")
	ErrResultTooLarge     = errors.New("result too large")
	ErrTimeout            = errors.New("query timeout")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// detailError attaches the offending field/value to a marker error so the API
// layer can produce a precise client-facing message.
type detailError struct {
	kind    error
	field   string
	value   string
	message string
}

func (e *detailError) Error() string {
	if e.value != "" {
		return fmt.Sprintf("%s: %s=%q: %s", e.kind.Error(), e.field, e.value, e.message)
	}
	return fmt.Sprintf("%s: %s: %s", e.kind.Error(), e.field, e.message)
}

func (e *detailError) Unwrap() error { return e.kind }

// NewDetailError wraps a marker error with the offending field and value.
func NewDetailError(kind error, field, value, message string) error {
	return &detailError{kind: kind, field: field, value: value, message: message}
}

// Detail extracts the offending field and value from a query error, when present.
func Detail(err error) (field, value, message string, ok bool) {
	var de *detailError
	if errors.As(err, &de) {
		return de.field, de.value, de.message, true
	}
	return "", "", "", false
}
