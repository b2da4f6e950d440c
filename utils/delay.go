package utils

import (
	"log/slog"
	"time"
)

// ApplyDelay sleeps for d and logs both edges, the same way the donor
// simulated per-operation latency. internal/backend uses this to model
// memory and swap access time.
func ApplyDelay(operation string, d time.Duration) {
	if d <= 0 {
		return
	}
	slog.Debug("applying delay", "operation", operation, "duration", d)
	time.Sleep(d)
	slog.Debug("delay complete", "operation", operation)
}
