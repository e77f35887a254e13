package palm

import (
	"encoding/json"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/palm-client/relay/connection"
	"github.com/Laisky/palm-client/relay/model"
	"github.com/Laisky/palm-client/relay/operation"
	"github.com/Laisky/palm-client/relay/safety"
)

func testAdaptor() *Adaptor {
	return &Adaptor{
		BaseURL:      "https://generativelanguage.googleapis.com",
		ProxyBaseURL: "https://api.genai.gd.edu.kg/google/",
	}
}

func TestGetRequestURL(t *testing.T) {
	a := testAdaptor()

	conn, err := connection.Build("k1", "v1beta2", "text-bison-001")
	require.NoError(t, err)
	require.Equal(t,
		"https://generativelanguage.googleapis.com/v1beta2/models/text-bison-001:generateText?key=k1",
		a.GetRequestURL(conn))

	conn, err = connection.Build("k1", "v1beta3", "text-bison-001", connection.WithProxy(true))
	require.NoError(t, err)
	require.Equal(t,
		"https://api.genai.gd.edu.kg/google/v1beta3/models/text-bison-001:generateText?key=k1",
		a.GetRequestURL(conn))
	require.Equal(t,
		"https://api.genai.gd.edu.kg/google/v1beta3/models/text-bison-001?key=k1",
		a.GetModelURL(conn))
}

func TestGetRequestURLEscapesKey(t *testing.T) {
	conn, err := connection.Build("a&b=c", "v1beta2", "text-bison-001")
	require.NoError(t, err)
	require.Contains(t, testAdaptor().GetRequestURL(conn), "key=a%26b%3Dc")
}

func TestConvertRequest(t *testing.T) {
	conn, err := connection.Build("k1", "v1beta2", "text-bison-001")
	require.NoError(t, err)

	req, err := testAdaptor().ConvertRequest(&operation.Generate{Prompt: "Write a haiku"},
		conn, model.DefaultGenerationConfig(), map[string]string{"violence": "none"})
	require.NoError(t, err)
	require.Equal(t, operation.KindGenerate, req.Kind)
	require.Equal(t, "Write a haiku", req.Prompt)

	raw, err := json.Marshal(req.Payload)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, map[string]any{"text": "Write a haiku"}, body["prompt"])
	require.EqualValues(t, 1, body["candidateCount"])
	require.EqualValues(t, 0.7, body["temperature"])
	require.EqualValues(t, 1024, body["maxOutputTokens"])
	require.EqualValues(t, 0.95, body["topP"])
	require.EqualValues(t, 40, body["topK"])

	settings, ok := body["safetySettings"].([]any)
	require.True(t, ok)
	require.Len(t, settings, 7)
	for i, c := range safety.Categories {
		s := settings[i].(map[string]any)
		require.Equal(t, string(c), s["category"])
		if c == safety.CategoryViolence {
			require.Equal(t, string(safety.BlockNone), s["threshold"])
		} else {
			require.Equal(t, string(safety.BlockMediumAndAbove), s["threshold"])
		}
	}
}

// TestConvertRequestValidationOrder checks that operation fields are
// validated before the generation config and the safety overrides.
func TestConvertRequestValidationOrder(t *testing.T) {
	conn, err := connection.Build("k1", "v1beta2", "text-bison-001")
	require.NoError(t, err)

	badCfg := model.DefaultGenerationConfig()
	badCfg.Temperature = 1.5
	badSafety := map[string]string{"violence": "xyz9"}

	_, err = testAdaptor().ConvertRequest(&operation.FixGrammar{Text: ""}, conn, badCfg, badSafety)
	require.True(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)

	_, err = testAdaptor().ConvertRequest(&operation.FixGrammar{Text: "me go"}, conn, badCfg, badSafety)
	require.True(t, errors.Is(err, model.ErrOutOfRange), "got %v", err)

	_, err = testAdaptor().ConvertRequest(&operation.FixGrammar{Text: "me go"}, conn,
		model.DefaultGenerationConfig(), badSafety)
	require.True(t, errors.Is(err, model.ErrInvalidSelection), "got %v", err)
}

func TestConvertRequestUnbuiltConnection(t *testing.T) {
	_, err := testAdaptor().ConvertRequest(&operation.Generate{Prompt: "hi"},
		connection.Connection{}, model.DefaultGenerationConfig(), nil)
	require.True(t, errors.Is(err, model.ErrInvalidInput))

	conn, err := connection.Build("k1", "v1beta2", "text-bison-001")
	require.NoError(t, err)
	_, err = testAdaptor().ConvertRequest(nil, conn, model.DefaultGenerationConfig(), nil)
	require.True(t, errors.Is(err, model.ErrInvalidSelection))
}
