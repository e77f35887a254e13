package model

import (
	"encoding/json"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

func TestOutcomeErr(t *testing.T) {
	require.NoError(t, Success("hi").Err())
	require.NoError(t, SafetyAdvisory().Err())

	err := Failure("bad key").Err()
	require.True(t, errors.Is(err, ErrRemote))
	require.Contains(t, err.Error(), "bad key")

	err = SafetyWarning([]string{"HARM_CATEGORY_VIOLENCE"}).Err()
	require.True(t, errors.Is(err, ErrSafetyBlocked))
	require.Contains(t, err.Error(), "HARM_CATEGORY_VIOLENCE")

	require.True(t, errors.Is(Unknown().Err(), ErrUnknownResponse))
}

func TestOutcomeJSON(t *testing.T) {
	body, err := json.Marshal(SafetyAdvisory())
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"safety_advisory","message":"safety feedback present but below risk threshold","categories":[]}`, string(body))

	body, err = json.Marshal(Success("hello"))
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"success","text":"hello","categories":[]}`, string(body))
}

func TestErrorCode(t *testing.T) {
	require.Equal(t, "invalid_selection", ErrorCode(errors.Wrap(ErrInvalidSelection, "model version")))
	require.Equal(t, "invalid_input", ErrorCode(ErrInvalidInput))
	require.Equal(t, "out_of_range", ErrorCode(errors.Wrapf(ErrOutOfRange, "topK %d", 0)))
	require.Equal(t, "", ErrorCode(errors.New("boom")))
	require.Equal(t, "", ErrorCode(nil))

	require.True(t, IsValidationError(errors.Wrap(ErrOutOfRange, "x")))
	require.False(t, IsValidationError(ErrRemote))
}
