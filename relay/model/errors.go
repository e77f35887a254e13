package model

import "github.com/Laisky/errors/v2"

// Request construction failures. They are returned before any network call.
var (
	// ErrInvalidSelection reports an enumerated value outside its allow-list.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidInput reports text or code whose length is outside [MinTextLength, MaxTextLength].
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfRange reports a numeric parameter outside its documented bound.
	ErrOutOfRange = errors.New("out of range")
)

// Response outcomes, see Outcome.Err.
var (
	// ErrRemote carries an error payload returned by the API.
	ErrRemote = errors.New("remote error")
	// ErrSafetyBlocked reports medium or high risk safety feedback.
	ErrSafetyBlocked = errors.New("safety blocked")
	// ErrUnknownResponse reports a response matching no recognised shape.
	ErrUnknownResponse = errors.New("unknown response")
)

const (
	// MinTextLength is the shortest accepted prompt, text or code snippet.
	MinTextLength = 1
	// MaxTextLength is the longest accepted prompt, text or code snippet.
	MaxTextLength = 8196
)

// ErrorCode returns the short taxonomy name of err, or "" when err is not part of it.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrRemote):
		return "remote_error"
	case errors.Is(err, ErrSafetyBlocked):
		return "safety_blocked"
	case errors.Is(err, ErrUnknownResponse):
		return "unknown_response"
	default:
		return ""
	}
}

// IsValidationError reports whether err was raised while composing a request.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrOutOfRange)
}
