package attention

import "time"

// State is the confirmed (debounced) attention state, distinct from the
// raw per-frame classification.
type State int

const (
	StateUnknown State = iota
	StateFocused
	StateDistracted
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateFocused:
		return "focused"
	case StateDistracted:
		return "distracted"
	default:
		return "unknown"
	}
}

// Transition describes a confirmed attention state change.
type Transition struct {
	From     State
	To       State
	Cause    Cause         // set for distraction confirmations
	Duration time.Duration // open episode length at confirmation time
}

// Machine debounces per-frame classifications with hysteresis: a state
// change requires a run of consecutive same-direction frames, and the
// distracted direction additionally requires a minimum sustained
// duration since the episode opened.
type Machine struct {
	cfg   Config
	state State

	distractionCount int
	focusCount       int
	episodeStart     time.Time
	episodeOpen      bool

	now func() time.Time
}

// NewMachine creates a machine in the Unknown state.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg, now: time.Now}
}

// Observe processes one per-frame classification and returns a confirmed
// transition when the hysteresis conditions are met, or nil.
func (m *Machine) Observe(f Frame) *Transition {
	now := m.now()

	if f.Distracted {
		m.distractionCount++
		m.focusCount = 0
		if !m.episodeOpen {
			m.episodeStart = now
			m.episodeOpen = true
		}

		if m.distractionCount >= m.cfg.StabilizationThreshold &&
			now.Sub(m.episodeStart) >= m.cfg.MinDistractionDuration &&
			m.state != StateDistracted {
			tr := &Transition{
				From:     m.state,
				To:       StateDistracted,
				Cause:    f.Cause,
				Duration: now.Sub(m.episodeStart),
			}
			m.state = StateDistracted
			return tr
		}
		return nil
	}

	m.focusCount++
	m.distractionCount = 0
	// A single focused frame discards the open episode, even before the
	// distracted state is confirmed.
	m.episodeOpen = false

	if m.focusCount >= m.cfg.StabilizationThreshold && m.state != StateFocused {
		tr := &Transition{From: m.state, To: StateFocused}
		m.state = StateFocused
		return tr
	}
	return nil
}

// State returns the last confirmed attention state.
func (m *Machine) State() State {
	return m.state
}

// ResetCounters clears the confirmation counters and any open episode
// without touching the confirmed state. Called when a frame yields no
// usable signal.
func (m *Machine) ResetCounters() {
	m.distractionCount = 0
	m.focusCount = 0
	m.episodeOpen = false
}

// Reset returns the machine to its initial state for a new session.
func (m *Machine) Reset() {
	m.state = StateUnknown
	m.ResetCounters()
}
