package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Saurabh-Shisode/proctoring-v0/internal/log"
	"github.com/google/uuid"
)

// FrameSource supplies the current camera frame as JPEG bytes.
type FrameSource interface {
	CaptureJPEG() ([]byte, error)
}

// Sink receives violation frame artifacts for packaging and export.
type Sink interface {
	SaveFrame(name string, jpeg []byte) error
}

// Capture throttles violation frame captures: at most one capture per
// interval, requests inside the window are dropped silently.
type Capture struct {
	interval time.Duration
	source   FrameSource
	sink     Sink
	last     time.Time

	now func() time.Time
}

// NewCapture creates a capture pipeline from source to sink.
func NewCapture(interval time.Duration, source FrameSource, sink Sink) *Capture {
	return &Capture{
		interval: interval,
		source:   source,
		sink:     sink,
		now:      time.Now,
	}
}

// Request captures one frame for the named violation. It returns the
// artifact name and id when a capture was taken, or ok=false when the
// request fell inside the throttle window or the capture failed.
func (c *Capture) Request(message string) (name, id string, ok bool) {
	now := c.now()
	if !c.last.IsZero() && now.Sub(c.last) < c.interval {
		return "", "", false
	}

	frame, err := c.source.CaptureJPEG()
	if err != nil {
		log.Debug("violation frame capture failed", "error", err)
		return "", "", false
	}

	name = fmt.Sprintf("%s_%s.jpg", sanitize(message), now.Format("20060102_150405"))
	if err := c.sink.SaveFrame(name, frame); err != nil {
		log.Warn("violation frame save failed", "name", name, "error", err)
		return "", "", false
	}

	c.last = now
	return name, uuid.NewString(), true
}

// Reset clears the throttle window for a new session.
func (c *Capture) Reset() {
	c.last = time.Time{}
}

// sanitize turns a violation message into a safe artifact name fragment.
func sanitize(message string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(message) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DirectorySink writes violation frames into a directory, one file per
// artifact.
type DirectorySink struct {
	Dir string
}

// SaveFrame writes one JPEG artifact.
func (s *DirectorySink) SaveFrame(name string, jpeg []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create capture directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), jpeg, 0644); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Ensure DirectorySink implements Sink
var _ Sink = (*DirectorySink)(nil)
