// Package safety resolves the per-category block thresholds sent with each request.
package safety

import (
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/relay/model"
)

// Category is a harm category in wire form.
type Category string

const (
	CategoryUnspecified Category = "HARM_CATEGORY_UNSPECIFIED"
	CategoryDerogatory  Category = "HARM_CATEGORY_DEROGATORY"
	CategoryToxicity    Category = "HARM_CATEGORY_TOXICITY"
	CategoryViolence    Category = "HARM_CATEGORY_VIOLENCE"
	CategorySexual      Category = "HARM_CATEGORY_SEXUAL"
	CategoryMedical     Category = "HARM_CATEGORY_MEDICAL"
	CategoryDangerous   Category = "HARM_CATEGORY_DANGEROUS"
)

// Categories lists every harm category in the order they are sent.
var Categories = []Category{
	CategoryUnspecified,
	CategoryDerogatory,
	CategoryToxicity,
	CategoryViolence,
	CategorySexual,
	CategoryMedical,
	CategoryDangerous,
}

// Threshold is a block level in wire form.
type Threshold string

const (
	ThresholdUnspecified Threshold = "HARM_BLOCK_THRESHOLD_UNSPECIFIED"
	BlockLowAndAbove     Threshold = "BLOCK_LOW_AND_ABOVE"
	BlockMediumAndAbove  Threshold = "BLOCK_MEDIUM_AND_ABOVE"
	BlockOnlyHigh        Threshold = "BLOCK_ONLY_HIGH"
	BlockNone            Threshold = "BLOCK_NONE"
)

// DefaultThreshold applies to every category without an override.
const DefaultThreshold = BlockMediumAndAbove

// thresholdCodes maps the short caller codes to block levels.
var thresholdCodes = map[string]Threshold{
	"unspecified": ThresholdUnspecified,
	"low":         BlockLowAndAbove,
	"medium":      BlockMediumAndAbove,
	"high":        BlockOnlyHigh,
	"none":        BlockNone,
}

// ParseThreshold accepts a short code (unspecified, low, medium, high, none)
// or a wire name, case-insensitively.
func ParseThreshold(code string) (Threshold, error) {
	normalized := strings.TrimSpace(code)
	if t, ok := thresholdCodes[strings.ToLower(normalized)]; ok {
		return t, nil
	}
	for _, t := range thresholdCodes {
		if strings.EqualFold(string(t), normalized) {
			return t, nil
		}
	}
	return "", errors.Wrapf(model.ErrInvalidSelection, "unsupported safety threshold %q", code)
}

// ParseCategory accepts a short key (violence) or a wire name (HARM_CATEGORY_VIOLENCE).
func ParseCategory(key string) (Category, error) {
	normalized := strings.ToUpper(strings.TrimSpace(key))
	if !strings.HasPrefix(normalized, "HARM_CATEGORY_") {
		normalized = "HARM_CATEGORY_" + normalized
	}
	for _, c := range Categories {
		if string(c) == normalized {
			return c, nil
		}
	}
	return "", errors.Wrapf(model.ErrInvalidSelection, "unsupported harm category %q", key)
}

// Thresholds maps every harm category to a block level.
type Thresholds map[Category]Threshold

// Defaults returns every category at DefaultThreshold.
func Defaults() Thresholds {
	t := make(Thresholds, len(Categories))
	for _, c := range Categories {
		t[c] = DefaultThreshold
	}
	return t
}

// Resolve merges caller overrides, keyed by category, into the defaults.
// Validation is all-or-nothing: any bad key or code fails the whole call.
func Resolve(overrides map[string]string) (Thresholds, error) {
	parsed := make(map[Category]Threshold, len(overrides))

	// sorted so the reported error is deterministic
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		category, err := ParseCategory(key)
		if err != nil {
			return nil, err
		}
		threshold, err := ParseThreshold(overrides[key])
		if err != nil {
			return nil, errors.Wrapf(err, "category %s", category)
		}
		parsed[category] = threshold
	}

	resolved := Defaults()
	for c, t := range parsed {
		resolved[c] = t
	}
	return resolved, nil
}

// Settings returns the seven category/threshold pairs in Categories order.
func (t Thresholds) Settings() []model.SafetySetting {
	settings := make([]model.SafetySetting, 0, len(Categories))
	for _, c := range Categories {
		threshold, ok := t[c]
		if !ok {
			threshold = DefaultThreshold
		}
		settings = append(settings, model.SafetySetting{
			Category:  string(c),
			Threshold: string(threshold),
		})
	}
	return settings
}
