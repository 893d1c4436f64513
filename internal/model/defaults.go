package model

import "time"

// Shared defaults used by both the server and TUI binaries.
const (
	DefaultMaxUploadBytes = 32 << 20
	DefaultTimezone       = "Local"
	DefaultQueryTimeout   = 30 * time.Second
)
