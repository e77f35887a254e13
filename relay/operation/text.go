package operation

import (
	"github.com/Laisky/palm-client/relay/controller/validator"
)

// Generate sends a free-form prompt verbatim.
type Generate struct {
	Prompt string `json:"prompt"`
}

func (Generate) Kind() Kind { return KindGenerate }

func (g Generate) Validate() error {
	return validator.ValidateText("prompt", g.Prompt)
}

func (g Generate) BuildPrompt() string {
	return g.Prompt
}

// FixGrammar asks for a grammar correction of Text.
type FixGrammar struct {
	Text string `json:"text"`
}

func (FixGrammar) Kind() Kind { return KindFixGrammar }

func (f FixGrammar) Validate() error {
	return validator.ValidateText("text", f.Text)
}

func (f FixGrammar) BuildPrompt() string {
	return "Correct the grammar of: " + f.Text
}
