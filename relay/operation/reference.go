package operation

import (
	"fmt"

	"github.com/Laisky/palm-client/relay/controller/validator"
)

// SourceTypes lists the accepted GetReference.SourceType values.
var SourceTypes = []string{"articles", "websites"}

// CitationStyles lists the accepted GetReference.CitationStyle values.
var CitationStyles = []string{"APA", "MLA", "Chicago", "Harvard", "IEEE", "Vancouver"}

// GetReference asks for citable sources about Topic.
type GetReference struct {
	Topic string `json:"topic"`
	// SourceType is one of SourceTypes.
	SourceType string `json:"source_type"`
	// SourceDate qualifies the sources, e.g. "recent" or "2020 or later".
	SourceDate string `json:"source_date"`
	NumSources int    `json:"num_sources"`
	// CitationStyle is one of CitationStyles.
	CitationStyle string `json:"citation_style"`
}

func (GetReference) Kind() Kind { return KindGetReference }

func (r GetReference) Validate() error {
	if err := validator.ValidateText("topic", r.Topic); err != nil {
		return err
	}
	if err := validator.ValidateChoice("source type", r.SourceType, SourceTypes); err != nil {
		return err
	}
	if err := validator.ValidateText("source date", r.SourceDate); err != nil {
		return err
	}
	if err := validator.ValidateMin("num sources", r.NumSources, 1); err != nil {
		return err
	}
	return validator.ValidateChoice("citation style", r.CitationStyle, CitationStyles)
}

func (r GetReference) BuildPrompt() string {
	return fmt.Sprintf("Find %d %s source(s) from real and accessible %s related to %s; present as %s citations",
		r.NumSources, r.SourceDate, r.SourceType, r.Topic, r.CitationStyle)
}
