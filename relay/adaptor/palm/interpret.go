package palm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/relay/model"
)

// riskyProbabilities are the ratings that turn safety feedback into a warning.
var riskyProbabilities = map[string]bool{
	"MEDIUM": true,
	"HIGH":   true,
}

// Interpret decodes a raw response body and classifies it.
// Only malformed JSON yields an error.
func Interpret(raw []byte) (model.Outcome, error) {
	var resp model.TextResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.Outcome{}, errors.Wrap(err, "unmarshal generateText response")
	}
	return InterpretResponse(&resp), nil
}

// InterpretResponse classifies a decoded response. The first matching rule wins:
//
//  1. a candidate with non-null output: Success
//  2. an error object: Error
//  3. a safety feedback list: SafetyWarning with the MEDIUM/HIGH categories,
//     or SafetyAdvisory when none reach MEDIUM
//  4. otherwise Unknown
func InterpretResponse(resp *model.TextResponse) model.Outcome {
	if resp == nil {
		return model.Unknown()
	}

	for _, candidate := range resp.Candidates {
		if candidate.Output != nil {
			return model.Success(*candidate.Output)
		}
	}

	if resp.Error != nil {
		return model.Failure(errorMessage(resp.Error))
	}

	if resp.SafetyFeedback != nil {
		categories := riskyCategories(resp.SafetyFeedback)
		if len(categories) == 0 {
			return model.SafetyAdvisory()
		}
		return model.SafetyWarning(categories)
	}

	outcome := model.Unknown()
	if len(resp.Filters) > 0 {
		reasons := make([]string, 0, len(resp.Filters))
		for _, f := range resp.Filters {
			reasons = append(reasons, f.Reason)
		}
		outcome.Message = "filtered: " + strings.Join(reasons, ", ")
	}
	return outcome
}

// riskyCategories returns the distinct categories rated MEDIUM or HIGH, in order of appearance.
func riskyCategories(feedback []model.SafetyFeedback) []string {
	seen := make(map[string]bool, len(feedback))
	var categories []string
	for _, fb := range feedback {
		if !riskyProbabilities[fb.Rating.Probability] {
			continue
		}
		if seen[fb.Rating.Category] {
			continue
		}
		seen[fb.Rating.Category] = true
		categories = append(categories, fb.Rating.Category)
	}
	return categories
}

func errorMessage(apiErr *model.APIError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Status != "" || apiErr.Code != 0 {
		return fmt.Sprintf("%s (code %d)", apiErr.Status, apiErr.Code)
	}
	return "unspecified error"
}
