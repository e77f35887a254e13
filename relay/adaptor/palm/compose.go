package palm

import (
	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/relay/connection"
	"github.com/Laisky/palm-client/relay/controller/validator"
	"github.com/Laisky/palm-client/relay/model"
	"github.com/Laisky/palm-client/relay/operation"
	"github.com/Laisky/palm-client/relay/safety"
)

// Request is a composed, validated call ready for the transport.
type Request struct {
	Kind    operation.Kind
	Prompt  string
	URL     string
	Payload *model.TextRequest
}

// ConvertRequest validates op, cfg and the safety overrides, in that order,
// and builds the request. Nothing is sent.
func (a *Adaptor) ConvertRequest(op operation.Operation, conn connection.Connection,
	cfg model.GenerationConfig, safetyOverrides map[string]string) (*Request, error) {
	if op == nil {
		return nil, errors.Wrap(model.ErrInvalidSelection, "operation is nil")
	}
	if conn.APIKey() == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "connection is not built")
	}
	if err := op.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validate %s", op.Kind())
	}
	if err := validator.ValidateGenerationConfig(cfg); err != nil {
		return nil, err
	}
	thresholds, err := safety.Resolve(safetyOverrides)
	if err != nil {
		return nil, err
	}

	prompt := op.BuildPrompt()
	return &Request{
		Kind:   op.Kind(),
		Prompt: prompt,
		URL:    a.GetRequestURL(conn),
		Payload: &model.TextRequest{
			Prompt:          model.TextPrompt{Text: prompt},
			SafetySettings:  thresholds.Settings(),
			Temperature:     cfg.Temperature,
			CandidateCount:  1,
			MaxOutputTokens: cfg.MaxOutputTokens,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
		},
	}, nil
}
