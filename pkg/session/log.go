package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Saurabh-Shisode/proctoring-v0/pkg/attention"
)

// ErrMissingCallback is returned when a log is constructed without its
// required outward channels.
var ErrMissingCallback = errors.New("event and violation callbacks are required")

// EventFunc receives every display event.
type EventFunc func(Event)

// ViolationFunc receives the running (total, attention) violation
// counters on every violation.
type ViolationFunc func(total, attention int)

// Log is the append-only chronological record for one monitoring
// session, plus the violation counters and the two outward notification
// channels. All writes happen on the monitor's execution lane; the
// mutex exists for readers on other goroutines (dashboard, export).
type Log struct {
	mu sync.RWMutex

	id        string
	startedAt time.Time
	endedAt   time.Time

	entries             []Entry
	totalViolations     int
	attentionViolations int

	onEvent     EventFunc
	onViolation ViolationFunc
	capture     *Capture

	now func() time.Time
}

// NewLog creates a session log. Both callbacks are required; capture is
// optional (nil disables violation frame captures).
func NewLog(onEvent EventFunc, onViolation ViolationFunc, capture *Capture) (*Log, error) {
	if onEvent == nil || onViolation == nil {
		return nil, ErrMissingCallback
	}
	return &Log{
		onEvent:     onEvent,
		onViolation: onViolation,
		capture:     capture,
		now:         time.Now,
	}, nil
}

// Start resets the log for a new session and appends the session_start
// entry. The session id is the start time.
func (l *Log) Start() {
	l.mu.Lock()
	l.startedAt = l.now()
	l.endedAt = time.Time{}
	l.id = l.startedAt.Format(time.RFC3339)
	l.entries = l.entries[:0]
	l.totalViolations = 0
	l.attentionViolations = 0
	l.mu.Unlock()

	if l.capture != nil {
		l.capture.Reset()
	}
	l.Append(Entry{Kind: KindSessionStart})
}

// End freezes the session and appends the session_end entry. The log
// remains readable for export.
func (l *Log) End() {
	l.Append(Entry{Kind: KindSessionEnd})
	l.mu.Lock()
	l.endedAt = l.now()
	l.mu.Unlock()
}

// Append stamps an entry with the session id and, if missing, the
// current time, then appends it. Entries are never mutated or removed
// once appended.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.SessionID = l.id
	if e.Timestamp == "" {
		e.Timestamp = l.now().Format(time.RFC3339)
	}
	l.entries = append(l.entries, e)
}

// LogEvent emits a display event and appends a structured event entry.
// Violation severity increments the total counter always, and the
// attention counter iff the reason is ReasonAttention; it also notifies
// the violation callback and requests a rate-limited frame capture.
func (l *Log) LogEvent(message string, severity Severity, reason Reason) {
	l.onEvent(Event{
		Timestamp: l.now().Format("15:04:05"),
		Message:   message,
		Severity:  severity,
	})

	l.Append(Entry{Kind: KindEvent, Message: message, Severity: severity, Reason: reason})

	if severity != SeverityViolation {
		return
	}

	l.mu.Lock()
	l.totalViolations++
	if reason == ReasonAttention {
		l.attentionViolations++
	}
	total, attn := l.totalViolations, l.attentionViolations
	l.mu.Unlock()

	l.onViolation(total, attn)

	if l.capture != nil {
		if name, id, ok := l.capture.Request(message); ok {
			l.Append(Entry{Kind: KindFrameSaved, Frame: &FrameArtifact{ID: id, Name: name}})
		}
	}
}

// ID returns the session id.
func (l *Log) ID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.id
}

// Totals returns the running (total, attention) violation counters.
func (l *Log) Totals() (total, attention int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalViolations, l.attentionViolations
}

// Entries returns a copy of the log in arrival order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SessionInfo identifies an exported session.
type SessionInfo struct {
	ID         string `json:"id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	DurationMs int64  `json:"duration_ms"`
}

// Statistics summarizes a session's violation accounting.
type Statistics struct {
	TotalViolations     int `json:"total_violations"`
	AttentionViolations int `json:"attention_violations"`
	TotalEvents         int `json:"total_events"`
}

// Document is the exportable session record produced on stop.
type Document struct {
	SessionInfo     SessionInfo        `json:"session_info"`
	Statistics      Statistics         `json:"statistics"`
	CalibrationData attention.Baseline `json:"calibration_data"`
	Events          []Entry            `json:"events"`
}

// Export builds the session document. The end time is the current time
// when the session has not been ended yet.
func (l *Log) Export(baseline attention.Baseline) Document {
	l.mu.RLock()
	defer l.mu.RUnlock()

	end := l.endedAt
	if end.IsZero() {
		end = l.now()
	}

	events := make([]Entry, len(l.entries))
	copy(events, l.entries)

	return Document{
		SessionInfo: SessionInfo{
			ID:         l.id,
			StartTime:  l.startedAt.Format(time.RFC3339),
			EndTime:    end.Format(time.RFC3339),
			DurationMs: end.Sub(l.startedAt).Milliseconds(),
		},
		Statistics: Statistics{
			TotalViolations:     l.totalViolations,
			AttentionViolations: l.attentionViolations,
			TotalEvents:         len(l.entries),
		},
		CalibrationData: baseline,
		Events:          events,
	}
}

// MarshalDocument renders a session document as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ParseDocument decodes an exported session document.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse session document: %w", err)
	}
	return doc, nil
}
