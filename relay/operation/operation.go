// Package operation defines the request kinds and the prompt each one sends.
package operation

import (
	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/relay/model"
)

// Kind names an operation.
type Kind string

const (
	KindGenerate     Kind = "generate"
	KindFixGrammar   Kind = "fix-grammar"
	KindGetReference Kind = "get-reference"
	KindExplainCode  Kind = "explain-code"
	KindOptimizeCode Kind = "optimize-code"
)

// Kinds lists every operation kind.
var Kinds = []Kind{KindGenerate, KindFixGrammar, KindGetReference, KindExplainCode, KindOptimizeCode}

// Operation is the operation-specific half of a request.
type Operation interface {
	// Kind names the operation.
	Kind() Kind
	// Validate checks the parameters, returning a taxonomy error from relay/model.
	Validate() error
	// BuildPrompt renders the natural-language instruction. Call Validate first.
	BuildPrompt() string
}

// New returns a zero-valued parameter struct for kind, ready for decoding.
func New(kind Kind) (Operation, error) {
	switch kind {
	case KindGenerate:
		return &Generate{}, nil
	case KindFixGrammar:
		return &FixGrammar{}, nil
	case KindGetReference:
		return &GetReference{}, nil
	case KindExplainCode:
		return &ExplainCode{}, nil
	case KindOptimizeCode:
		return &OptimizeCode{}, nil
	default:
		return nil, errors.Wrapf(model.ErrInvalidSelection, "unsupported operation %q", kind)
	}
}
