package personnummer

import (
	"errors"
	"fmt"
)

// Reason is the stable code of a validation failure. Codes are part of the
// JSON and CLI surface and must not change.
type Reason string

const (
	ReasonMalformedFormat Reason = "malformed_format"
	ReasonYearInFuture    Reason = "year_in_future"
	ReasonYearTooOld      Reason = "year_too_old"
	ReasonInvalidDate     Reason = "invalid_date"
	ReasonWrongSeparator  Reason = "wrong_separator"
	ReasonTooFewDigits    Reason = "too_few_digits"
	ReasonInvalidChecksum Reason = "invalid_checksum"
)

// Reasons lists every failure code in pipeline order.
var Reasons = []Reason{
	ReasonMalformedFormat,
	ReasonYearInFuture,
	ReasonYearTooOld,
	ReasonInvalidDate,
	ReasonWrongSeparator,
	ReasonTooFewDigits,
	ReasonInvalidChecksum,
}

// IsValid checks if the reason is one of the known codes.
func (r Reason) IsValid() bool {
	for _, known := range Reasons {
		if r == known {
			return true
		}
	}
	return false
}

// String returns the reason code.
func (r Reason) String() string {
	return string(r)
}

// Error is returned by every pipeline stage. Two errors are considered equal
// by errors.Is when their reasons match, so stage errors can be compared
// against the package sentinels regardless of message.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return string(e.Reason) + ": " + e.Message
}

// Is reports whether target is a *Error with the same reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// Sentinel errors, one per reason.
var (
	ErrMalformedFormat = &Error{Reason: ReasonMalformedFormat, Message: "expected YYMMDD-XXXX or YYYYMMDD-XXXX"}
	ErrYearInFuture    = &Error{Reason: ReasonYearInFuture, Message: "birth year is in the future"}
	ErrYearTooOld      = &Error{Reason: ReasonYearTooOld, Message: "birth year is before 1900"}
	ErrInvalidDate     = &Error{Reason: ReasonInvalidDate, Message: "not a calendar date"}
	ErrWrongSeparator  = &Error{Reason: ReasonWrongSeparator, Message: "separator does not match age"}
	ErrTooFewDigits    = &Error{Reason: ReasonTooFewDigits, Message: "at least 10 digits required"}
	ErrInvalidChecksum = &Error{Reason: ReasonInvalidChecksum, Message: "check digit does not match"}
)

func newError(reason Reason, format string, args ...any) *Error {
	return &Error{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the failure reason from err. It returns "" for nil and
// for errors that did not come from this package.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
