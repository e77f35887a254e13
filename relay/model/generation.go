package model

// GenerationConfig holds the sampling parameters sent with every request.
//
// The validate tags are enforced by relay/controller/validator.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature" validate:"gte=0,lte=1"`
	MaxOutputTokens int     `json:"maxOutputTokens" validate:"gte=1,lte=1024"`
	TopP            float64 `json:"topP" validate:"gte=0,lte=1"`
	TopK            int     `json:"topK" validate:"gte=1,lte=1000000"`
}

// DefaultGenerationConfig returns the sampling parameters used when the caller supplies none.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		MaxOutputTokens: 1024,
		TopP:            0.95,
		TopK:            40,
	}
}
