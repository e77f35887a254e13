package model

// TextPrompt wraps the prompt string of a generateText call.
type TextPrompt struct {
	Text string `json:"text"`
}

// SafetySetting pairs a harm category with its block threshold, both in wire form.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// TextRequest is the body POSTed to `:generateText`.
type TextRequest struct {
	Prompt          TextPrompt      `json:"prompt"`
	SafetySettings  []SafetySetting `json:"safetySettings"`
	Temperature     float64         `json:"temperature"`
	CandidateCount  int             `json:"candidateCount"`
	MaxOutputTokens int             `json:"maxOutputTokens"`
	TopP            float64         `json:"topP"`
	TopK            int             `json:"topK"`
}

// TextResponse is the decoded body of a `:generateText` reply.
// Any combination of fields may be present.
type TextResponse struct {
	Candidates     []TextCandidate  `json:"candidates,omitempty"`
	Filters        []ContentFilter  `json:"filters,omitempty"`
	SafetyFeedback []SafetyFeedback `json:"safetyFeedback,omitempty"`
	Error          *APIError        `json:"error,omitempty"`
}

// TextCandidate is one generated completion. Output is nil when the field is absent or null.
type TextCandidate struct {
	Output        *string        `json:"output"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

// SafetyRating is the risk probability of one harm category.
type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
}

// SafetyFeedback explains why content was, or risked being, blocked.
type SafetyFeedback struct {
	Rating  SafetyRating   `json:"rating"`
	Setting *SafetySetting `json:"setting,omitempty"`
}

// ContentFilter describes why a candidate was dropped.
type ContentFilter struct {
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// APIError is the error object returned by the API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
