package common

import "time"

// Version and BuildTime are overridden at link time with -ldflags "-X".
var (
	Version   = "v0.0.0"
	BuildTime = "unknown"
)

// StartTime is when the process started.
var StartTime = time.Now()
