package monitor

import (
	"time"

	"github.com/Saurabh-Shisode/proctoring-v0/pkg/attention"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/identity"
)

// Config aggregates the monitoring loop tunables and the per-concern
// configurations it hands down.
type Config struct {
	// TickInterval is the frame processing cadence (~30fps)
	TickInterval time.Duration

	// IdentityInitialDelay is how long after session start the first
	// identity check may run
	IdentityInitialDelay time.Duration

	// IdentityInterval is the minimum spacing between identity checks
	IdentityInterval time.Duration

	// CaptureInterval is the violation frame capture throttle window
	CaptureInterval time.Duration

	Attention attention.Config
	Identity  identity.Config
}

// DefaultConfig returns the recommended monitoring parameters.
func DefaultConfig() Config {
	return Config{
		TickInterval:         33 * time.Millisecond,
		IdentityInitialDelay: 1 * time.Second,
		IdentityInterval:     10 * time.Second,
		CaptureInterval:      4 * time.Second,
		Attention:            attention.DefaultConfig(),
		Identity:             identity.DefaultConfig(),
	}
}
