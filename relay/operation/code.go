package operation

import (
	"strings"

	"github.com/Laisky/palm-client/relay/controller/validator"
)

const (
	codeStartMarker = "# Code starts #"
	codeEndMarker   = "# Code ends #"
)

// Aspects lists the accepted OptimizeCode.Aspect values.
var Aspects = []string{"general", "runtime", "memory", "runtime&memory"}

// ExplainCode asks for an explanation of Code written in Language.
type ExplainCode struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (ExplainCode) Kind() Kind { return KindExplainCode }

func (e ExplainCode) Validate() error {
	if err := validator.ValidateText("code", e.Code); err != nil {
		return err
	}
	return validator.ValidateText("language", e.Language)
}

func (e ExplainCode) BuildPrompt() string {
	return "Explain the following " + e.Language + " code:\n" + codeBlock(e.Code)
}

// OptimizeCode asks for an optimized rewrite of Code.
//
// Aspect selects a standard goal from Aspects. Goal, when set, replaces Aspect
// with a free-form description.
type OptimizeCode struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Aspect   string `json:"aspect"`
	Goal     string `json:"goal,omitempty"`
}

func (OptimizeCode) Kind() Kind { return KindOptimizeCode }

func (o OptimizeCode) Validate() error {
	if err := validator.ValidateText("code", o.Code); err != nil {
		return err
	}
	if err := validator.ValidateText("language", o.Language); err != nil {
		return err
	}
	if o.Goal != "" {
		return validator.ValidateText("goal", o.Goal)
	}
	return validator.ValidateChoice("aspect", o.Aspect, Aspects)
}

func (o OptimizeCode) BuildPrompt() string {
	target := o.Goal
	if target == "" {
		target = o.Aspect
	}
	return "Optimize the following " + o.Language + " code for " + target + ":\n" + codeBlock(o.Code)
}

func codeBlock(code string) string {
	var b strings.Builder
	b.Grow(len(code) + len(codeStartMarker) + len(codeEndMarker) + 3)
	b.WriteString(codeStartMarker)
	b.WriteByte('\n')
	b.WriteString(code)
	b.WriteByte('\n')
	b.WriteString(codeEndMarker)
	b.WriteByte('\n')
	return b.String()
}
