// Package presence tracks how many faces are in frame. Unlike attention
// and identity, presence transitions are immediate: the state is derived
// directly from the current frame's face count with no debouncing.
package presence

// State is the current presence classification.
type State int

const (
	StateNone State = iota
	StateSingle
	StateMultiple
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateSingle:
		return "single"
	case StateMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// stateFor maps a face count to its presence state.
func stateFor(count int) State {
	switch {
	case count == 0:
		return StateNone
	case count == 1:
		return StateSingle
	default:
		return StateMultiple
	}
}

// Change reports what one frame's face count did to the presence state.
type Change struct {
	Previous int // face count on the previous frame
	Current  int // face count on this frame

	CountChanged bool  // any difference in count, regardless of direction
	Transition   bool  // a log-worthy state entry happened this frame
	State        State // state after this frame
}

// Monitor derives presence state from per-frame face counts. A session
// is assumed to begin with a single face, so the first frame with
// count 1 is quiet.
type Monitor struct {
	prev  int
	state State
}

// NewMonitor creates a presence monitor in the single-face state.
func NewMonitor() *Monitor {
	return &Monitor{prev: 1, state: StateSingle}
}

// Observe records this frame's face count and reports what changed.
// Transition rules:
//   - count 0: log-worthy when the previous count was nonzero
//   - count >1: log-worthy when the previous count was 0 or 1
//   - count 1: log-worthy when the previous count was not 1
//
// The previous count updates unconditionally every frame.
func (m *Monitor) Observe(count int) Change {
	ch := Change{
		Previous:     m.prev,
		Current:      count,
		CountChanged: count != m.prev,
		State:        stateFor(count),
	}

	switch {
	case count == 0:
		ch.Transition = m.prev != 0
	case count == 1:
		ch.Transition = m.prev != 1
	default:
		ch.Transition = m.prev <= 1
	}

	m.prev = count
	m.state = ch.State
	return ch
}

// Count returns the face count from the most recent frame.
func (m *Monitor) Count() int {
	return m.prev
}

// State returns the current presence state.
func (m *Monitor) State() State {
	return m.state
}

// Reset returns the monitor to its initial state for a new session.
func (m *Monitor) Reset() {
	m.prev = 1
	m.state = StateSingle
}
