package domain

import (
	"errors"
	"strconv"
)

var (
	// ErrUnknownKind is returned for a record type outside {T, A, D, S}.
	ErrUnknownKind = errors.New("unknown event kind")

	// ErrMissingOrderNo is returned when the order number implied by the
	// BS flag is zero or absent.
	ErrMissingOrderNo = errors.New("missing order number")

	// ErrInvalidFlag is returned for a BS flag outside {B, S, N}.
	ErrInvalidFlag = errors.New("invalid bs flag")

	// ErrNegativeQty is returned when a record carries a negative quantity.
	ErrNegativeQty = errors.New("negative quantity")
)

// TickError marks a single malformed feed record. The replay skips and
// counts the record; it never aborts the rest of the security-day.
type TickError struct {
	BizIndex int64  // sequence number of the offending record
	Field    string // field that failed validation
	Err      error  // underlying cause
}

func (e *TickError) Error() string {
	return "tick " + strconv.FormatInt(e.BizIndex, 10) + " [" + e.Field + "]: " + e.Err.Error()
}

func (e *TickError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether an error came from record validation.
func IsMalformed(err error) bool {
	var te *TickError
	return errors.As(err, &te)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
