package validator

import (
	"math"
	"strings"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/palm-client/relay/model"
)

func TestValidateGenerationConfig(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateGenerationConfig(model.DefaultGenerationConfig()))

	edges := []model.GenerationConfig{
		{Temperature: 0, MaxOutputTokens: 1, TopP: 0, TopK: 1},
		{Temperature: 1, MaxOutputTokens: 1024, TopP: 1, TopK: 1000000},
	}
	for _, cfg := range edges {
		require.NoError(t, ValidateGenerationConfig(cfg), "cfg %+v", cfg)
	}
}

func TestValidateGenerationConfigOutOfRange(t *testing.T) {
	t.Parallel()

	base := model.DefaultGenerationConfig()
	testcases := []struct {
		name   string
		mutate func(*model.GenerationConfig)
		field  string
	}{
		{name: "temperature low", mutate: func(c *model.GenerationConfig) { c.Temperature = -0.01 }, field: "temperature"},
		{name: "temperature high", mutate: func(c *model.GenerationConfig) { c.Temperature = 1.01 }, field: "temperature"},
		{name: "temperature NaN", mutate: func(c *model.GenerationConfig) { c.Temperature = math.NaN() }, field: "temperature"},
		{name: "topP high", mutate: func(c *model.GenerationConfig) { c.TopP = 2 }, field: "topP"},
		{name: "topP low", mutate: func(c *model.GenerationConfig) { c.TopP = -1 }, field: "topP"},
		{name: "max tokens zero", mutate: func(c *model.GenerationConfig) { c.MaxOutputTokens = 0 }, field: "maxOutputTokens"},
		{name: "max tokens high", mutate: func(c *model.GenerationConfig) { c.MaxOutputTokens = 1025 }, field: "maxOutputTokens"},
		{name: "topK zero", mutate: func(c *model.GenerationConfig) { c.TopK = 0 }, field: "topK"},
		{name: "topK high", mutate: func(c *model.GenerationConfig) { c.TopK = 1000001 }, field: "topK"},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tc.mutate(&cfg)
			err := ValidateGenerationConfig(cfg)
			require.Error(t, err)
			require.True(t, errors.Is(err, model.ErrOutOfRange), "got %v", err)
			require.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateText("code", "x"))
	require.NoError(t, ValidateText("code", strings.Repeat("a", model.MaxTextLength)))
	// multi-byte characters count once
	require.NoError(t, ValidateText("text", strings.Repeat("é", model.MaxTextLength)))

	for _, bad := range []string{"", strings.Repeat("a", model.MaxTextLength+1)} {
		err := ValidateText("code", bad)
		require.True(t, errors.Is(err, model.ErrInvalidInput), "len %d", len(bad))
	}
}

func TestValidateChoiceAndMin(t *testing.T) {
	t.Parallel()

	allowed := []string{"articles", "websites"}
	require.NoError(t, ValidateChoice("source type", "articles", allowed))
	err := ValidateChoice("source type", "books", allowed)
	require.True(t, errors.Is(err, model.ErrInvalidSelection))
	require.Contains(t, err.Error(), "books")

	require.NoError(t, ValidateMin("num sources", 1, 1))
	require.True(t, errors.Is(ValidateMin("num sources", 0, 1), model.ErrOutOfRange))
}
