package session

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Saurabh-Shisode/proctoring-v0/pkg/attention"
)

// recorder collects the outward callback traffic for assertions.
type recorder struct {
	events     []Event
	violations [][2]int
}

func (r *recorder) onEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) onViolation(total, attention int) {
	r.violations = append(r.violations, [2]int{total, attention})
}

func newTestLog(t *testing.T) (*Log, *recorder) {
	t.Helper()
	rec := &recorder{}
	l, err := NewLog(rec.onEvent, rec.onViolation, nil)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	l.Start()
	return l, rec
}

func TestNewLog_RequiresCallbacks(t *testing.T) {
	if _, err := NewLog(nil, func(int, int) {}, nil); err != ErrMissingCallback {
		t.Errorf("missing event callback: got %v, want ErrMissingCallback", err)
	}
	if _, err := NewLog(func(Event) {}, nil, nil); err != ErrMissingCallback {
		t.Errorf("missing violation callback: got %v, want ErrMissingCallback", err)
	}
}

func TestLog_ViolationAccountingByReason(t *testing.T) {
	l, rec := newTestLog(t)

	l.LogEvent("Sustained distraction detected", SeverityViolation, ReasonAttention)
	if total, attn := l.Totals(); total != 1 || attn != 1 {
		t.Errorf("after attention violation: got (%d,%d), want (1,1)", total, attn)
	}

	l.LogEvent("Wrong person detected", SeverityViolation, ReasonIdentity)
	if total, attn := l.Totals(); total != 2 || attn != 1 {
		t.Errorf("after identity violation: got (%d,%d), want (2,1)", total, attn)
	}

	// Info events never touch the counters
	l.LogEvent("Focus restored", SeverityInfo, ReasonNone)
	if total, attn := l.Totals(); total != 2 || attn != 1 {
		t.Errorf("after info event: got (%d,%d), want (2,1)", total, attn)
	}

	wantViolations := [][2]int{{1, 1}, {2, 1}}
	if !reflect.DeepEqual(rec.violations, wantViolations) {
		t.Errorf("violation callback: got %v, want %v", rec.violations, wantViolations)
	}
	if len(rec.events) != 3 {
		t.Errorf("event callback count: got %d, want 3", len(rec.events))
	}
}

func TestLog_AppendStampsSessionID(t *testing.T) {
	l, _ := newTestLog(t)

	l.Append(Entry{Kind: KindFaceCountChange, FaceCount: &FaceCountChange{Previous: 1, Current: 0}})

	entries := l.Entries()
	last := entries[len(entries)-1]
	if last.SessionID != l.ID() {
		t.Errorf("session id: got %q, want %q", last.SessionID, l.ID())
	}
	if last.Timestamp == "" {
		t.Error("missing timestamp was not stamped")
	}
}

func TestLog_OrderingAndLifecycleEntries(t *testing.T) {
	l, _ := newTestLog(t)

	l.LogEvent("Single face detected - OK", SeverityInfo, ReasonNone)
	l.LogEvent("No face detected", SeverityViolation, ReasonPresence)
	l.End()

	kinds := []EntryKind{}
	for _, e := range l.Entries() {
		kinds = append(kinds, e.Kind)
	}
	want := []EntryKind{KindSessionStart, KindEvent, KindEvent, KindSessionEnd}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("entry kinds: got %v, want %v", kinds, want)
	}
}

func TestLog_StartResetsCounters(t *testing.T) {
	l, _ := newTestLog(t)
	l.LogEvent("Multiple faces detected", SeverityViolation, ReasonPresence)

	l.Start()
	if total, attn := l.Totals(); total != 0 || attn != 0 {
		t.Errorf("counters after restart: got (%d,%d), want (0,0)", total, attn)
	}
	if entries := l.Entries(); len(entries) != 1 || entries[0].Kind != KindSessionStart {
		t.Errorf("entries after restart: got %v", entries)
	}
}

func TestLog_ExportRoundTrip(t *testing.T) {
	l, _ := newTestLog(t)

	l.LogEvent("Sustained distraction detected", SeverityViolation, ReasonAttention)
	l.Append(Entry{
		Kind:      KindAttentionChange,
		Attention: &AttentionChange{From: "unknown", To: "distracted", Cause: "head_movement", DurationMs: 2100},
	})
	l.LogEvent("Focus restored", SeverityInfo, ReasonNone)
	l.End()

	base := attention.Baseline{Yaw: 0.01, Pitch: 0.09, Gaze: 0.42}
	doc := l.Export(base)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	parsed, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if parsed.Statistics != doc.Statistics {
		t.Errorf("statistics: got %+v, want %+v", parsed.Statistics, doc.Statistics)
	}
	if parsed.CalibrationData != base {
		t.Errorf("calibration: got %+v, want %+v", parsed.CalibrationData, base)
	}
	if parsed.SessionInfo != doc.SessionInfo {
		t.Errorf("session info: got %+v, want %+v", parsed.SessionInfo, doc.SessionInfo)
	}
	if !reflect.DeepEqual(parsed.Events, doc.Events) {
		t.Errorf("events differ after round trip:\ngot  %+v\nwant %+v", parsed.Events, doc.Events)
	}
	if doc.Statistics.TotalEvents != len(doc.Events) {
		t.Errorf("total events %d != len(events) %d", doc.Statistics.TotalEvents, len(doc.Events))
	}
}
