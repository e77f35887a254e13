package model

import (
	"strings"

	"github.com/Laisky/errors/v2"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	// OutcomeUnknown means the response matched no recognised shape.
	OutcomeUnknown OutcomeKind = iota
	// OutcomeSuccess carries the generated text.
	OutcomeSuccess
	// OutcomeError carries the message of an API error payload.
	OutcomeError
	// OutcomeSafetyWarning carries the harm categories rated MEDIUM or HIGH.
	OutcomeSafetyWarning
	// OutcomeSafetyAdvisory means safety feedback was present but every rating
	// was below MEDIUM. Categories is always empty.
	OutcomeSafetyAdvisory
)

// String returns the stable name used in logs, metrics and JSON.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	case OutcomeSafetyWarning:
		return "safety_warning"
	case OutcomeSafetyAdvisory:
		return "safety_advisory"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the classified result of one API response.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Message    string      `json:"message,omitempty"`
	Categories []string    `json:"categories"`
}

// Success builds an OutcomeSuccess.
func Success(text string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text, Categories: []string{}}
}

// Failure builds an OutcomeError.
func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeError, Message: message, Categories: []string{}}
}

// SafetyWarning builds an OutcomeSafetyWarning for the given categories.
func SafetyWarning(categories []string) Outcome {
	if categories == nil {
		categories = []string{}
	}
	return Outcome{Kind: OutcomeSafetyWarning, Categories: categories}
}

// SafetyAdvisory builds an OutcomeSafetyAdvisory.
func SafetyAdvisory() Outcome {
	return Outcome{
		Kind:       OutcomeSafetyAdvisory,
		Message:    "safety feedback present but below risk threshold",
		Categories: []string{},
	}
}

// Unknown builds an OutcomeUnknown.
func Unknown() Outcome {
	return Outcome{Kind: OutcomeUnknown, Categories: []string{}}
}

// OK reports whether the outcome carries generated text.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Err converts a non-success outcome into a taxonomy error for callers that
// prefer error returns. Success and SafetyAdvisory yield nil.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess, OutcomeSafetyAdvisory:
		return nil
	case OutcomeError:
		return errors.Wrap(ErrRemote, o.Message)
	case OutcomeSafetyWarning:
		return errors.Wrapf(ErrSafetyBlocked, "categories [%s]", strings.Join(o.Categories, ", "))
	default:
		return ErrUnknownResponse
	}
}
