package operation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/palm-client/relay/model"
)

func TestExplainCodePrompt(t *testing.T) {
	t.Parallel()

	op := ExplainCode{Code: "x <- 1", Language: "R"}
	require.NoError(t, op.Validate())

	prompt := op.BuildPrompt()
	require.Equal(t, "Explain the following R code:\n# Code starts #\nx <- 1\n# Code ends #\n", prompt)

	start := strings.Index(prompt, "# Code starts #")
	code := strings.Index(prompt, "x <- 1")
	end := strings.Index(prompt, "# Code ends #")
	lang := strings.Index(prompt, "R ")
	require.True(t, lang < start && start < code && code < end)
}

func TestOptimizeCodePrompt(t *testing.T) {
	t.Parallel()

	op := OptimizeCode{Code: "for (i in 1:10) x[i] <- i", Language: "R", Aspect: "runtime&memory"}
	require.NoError(t, op.Validate())
	require.Equal(t,
		"Optimize the following R code for runtime&memory:\n# Code starts #\nfor (i in 1:10) x[i] <- i\n# Code ends #\n",
		op.BuildPrompt())

	op.Goal = "readability without losing speed"
	require.NoError(t, op.Validate())
	require.True(t, strings.HasPrefix(op.BuildPrompt(), "Optimize the following R code for readability without losing speed:\n"))
}

func TestOptimizeCodeAspect(t *testing.T) {
	t.Parallel()

	for _, aspect := range Aspects {
		op := OptimizeCode{Code: "x", Language: "Go", Aspect: aspect}
		require.NoError(t, op.Validate(), aspect)
	}

	err := OptimizeCode{Code: "x", Language: "Go", Aspect: "speed"}.Validate()
	require.True(t, errors.Is(err, model.ErrInvalidSelection))
}

func TestTextLengthBounds(t *testing.T) {
	t.Parallel()

	tooLong := strings.Repeat("a", model.MaxTextLength+1)
	maxLen := strings.Repeat("a", model.MaxTextLength)

	invalid := []Operation{
		Generate{Prompt: ""},
		Generate{Prompt: tooLong},
		FixGrammar{Text: ""},
		ExplainCode{Code: "", Language: "R"},
		ExplainCode{Code: tooLong, Language: "R"},
		ExplainCode{Code: "x", Language: ""},
		OptimizeCode{Code: tooLong, Language: "R", Aspect: "general"},
		OptimizeCode{Code: "x", Language: "R", Goal: tooLong},
	}
	for _, op := range invalid {
		err := op.Validate()
		require.True(t, errors.Is(err, model.ErrInvalidInput), "%s: %v", op.Kind(), err)
	}

	valid := []Operation{
		Generate{Prompt: "a"},
		Generate{Prompt: maxLen},
		FixGrammar{Text: maxLen},
		ExplainCode{Code: maxLen, Language: "R"},
		OptimizeCode{Code: maxLen, Language: "R", Aspect: "general"},
	}
	for _, op := range valid {
		require.NoError(t, op.Validate(), op.Kind())
	}
}

func TestSimplePrompts(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Tell me a joke", Generate{Prompt: "Tell me a joke"}.BuildPrompt())
	require.Equal(t, "Correct the grammar of: he go to school", FixGrammar{Text: "he go to school"}.BuildPrompt())
}

func TestGetReference(t *testing.T) {
	t.Parallel()

	op := GetReference{
		Topic:         "protein folding",
		SourceType:    "articles",
		SourceDate:    "recent",
		NumSources:    3,
		CitationStyle: "APA",
	}
	require.NoError(t, op.Validate())
	require.Equal(t,
		"Find 3 recent source(s) from real and accessible articles related to protein folding; present as APA citations",
		op.BuildPrompt())

	bad := op
	bad.SourceType = "books"
	require.True(t, errors.Is(bad.Validate(), model.ErrInvalidSelection))

	bad = op
	bad.CitationStyle = "Bluebook"
	require.True(t, errors.Is(bad.Validate(), model.ErrInvalidSelection))

	bad = op
	bad.NumSources = 0
	require.True(t, errors.Is(bad.Validate(), model.ErrOutOfRange))

	bad = op
	bad.Topic = ""
	require.True(t, errors.Is(bad.Validate(), model.ErrInvalidInput))
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds {
		op, err := New(kind)
		require.NoError(t, err)
		require.Equal(t, kind, op.Kind())
	}

	op, err := New(KindExplainCode)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(`{"code":"x <- 1","language":"R"}`), op))
	require.NoError(t, op.Validate())

	_, err = New("translate")
	require.True(t, errors.Is(err, model.ErrInvalidSelection))
}
