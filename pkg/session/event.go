// Package session provides the append-only session record: structured
// log entries, display events, violation accounting, frame capture, and
// the exportable session document.
package session

import "github.com/Saurabh-Shisode/proctoring-v0/pkg/attention"

// Severity classifies a display event.
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityViolation Severity = "violation"
	SeverityError     Severity = "error"
	SeverityWarning   Severity = "warning"
)

// Reason tags a violation with its cause category at the point of
// emission, so statistics never depend on message wording.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonAttention Reason = "attention"
	ReasonIdentity  Reason = "identity"
	ReasonPresence  Reason = "presence"
)

// Event is an outward display event delivered to the event callback.
type Event struct {
	Timestamp string   `json:"timestamp"` // human-readable local time
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}

// EntryKind tags a structured session log entry.
type EntryKind string

const (
	KindSessionStart        EntryKind = "session_start"
	KindSessionEnd          EntryKind = "session_end"
	KindCalibrationComplete EntryKind = "calibration_complete"
	KindFaceCountChange     EntryKind = "face_count_change"
	KindAttentionChange     EntryKind = "attention_change"
	KindFaceRecognition     EntryKind = "face_recognition"
	KindEvent               EntryKind = "event"
	KindFrameSaved          EntryKind = "frame_saved"
)

// FaceCountChange carries the counts around a presence change.
type FaceCountChange struct {
	Previous int `json:"previous"`
	Current  int `json:"current"`
}

// AttentionChange carries a confirmed attention transition.
type AttentionChange struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Cause      string `json:"cause,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// RecognitionResult carries a confirmed identity check outcome.
type RecognitionResult struct {
	Authorized bool    `json:"authorized"`
	Distance   float64 `json:"distance"`
	Threshold  float64 `json:"threshold"`
}

// FrameArtifact identifies a captured violation frame.
type FrameArtifact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry is one structured, append-only session log record. The kind
// decides which optional payload is set.
type Entry struct {
	Kind      EntryKind `json:"type"`
	Timestamp string    `json:"timestamp"` // ISO 8601
	SessionID string    `json:"session_id"`

	Message  string   `json:"message,omitempty"`
	Severity Severity `json:"severity,omitempty"`
	Reason   Reason   `json:"reason,omitempty"`

	FaceCount   *FaceCountChange    `json:"face_count,omitempty"`
	Baseline    *attention.Baseline `json:"baseline,omitempty"`
	Attention   *AttentionChange    `json:"attention,omitempty"`
	Recognition *RecognitionResult  `json:"recognition,omitempty"`
	Frame       *FrameArtifact      `json:"frame,omitempty"`
}
