package logger

import (
	"testing"

	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]glog.Level{
		"debug":   glog.LevelDebug,
		" WARN ":  glog.LevelWarn,
		"warning": glog.LevelWarn,
		"error":   glog.LevelError,
		"":        glog.LevelInfo,
		"verbose": glog.LevelInfo,
	}
	for input, want := range cases {
		require.Equal(t, want, ParseLevel(input), "level %q", input)
	}
}

func TestSetup(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, Setup("palm-test", "debug"))
	require.NotNil(t, Logger)
}
