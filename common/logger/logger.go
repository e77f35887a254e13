package logger

import (
	"strings"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v6/log"
)

// Logger is the shared process logger. Packages that accept an injected
// logger fall back to it when none is given.
var Logger glog.Logger = glog.Shared.Named("palm")

// Setup replaces Logger with a console logger at the requested level.
func Setup(name, level string) error {
	lg, err := glog.NewConsoleWithName(name, ParseLevel(level))
	if err != nil {
		return errors.Wrap(err, "create console logger")
	}
	Logger = lg
	return nil
}

// ParseLevel maps a LOG_LEVEL value to a logger level, defaulting to info.
func ParseLevel(level string) glog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return glog.LevelDebug
	case "warn", "warning":
		return glog.LevelWarn
	case "error":
		return glog.LevelError
	default:
		return glog.LevelInfo
	}
}
