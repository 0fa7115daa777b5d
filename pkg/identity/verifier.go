package identity

import "math"

// State is the confirmed identity state, distinct from the raw per-check
// classification.
type State int

const (
	StateUnknown State = iota
	StateAuthorized
	StateUnauthorized
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Config holds the identity verification tunables.
type Config struct {
	DistanceThreshold      float64 // Best-match distance above this is unauthorized
	StabilizationThreshold int     // Consecutive same-direction checks to confirm
}

// DefaultConfig returns the recommended verification parameters.
func DefaultConfig() Config {
	return Config{
		DistanceThreshold:      0.50,
		StabilizationThreshold: 3,
	}
}

// Result describes a confirmed identity transition.
type Result struct {
	To        State
	Distance  float64 // best-match distance on the confirming check
	Threshold float64
}

// Verifier compares detected embeddings against the enrolled set and
// confirms authorized/unauthorized transitions with hysteresis. It keeps
// no counter memory across presence gaps: callers reset the counters
// whenever the face count is not exactly one or no embedding is
// available.
type Verifier struct {
	cfg      Config
	enrolled []Embedding
	state    State

	authorizedCount   int
	unauthorizedCount int
}

// NewVerifier creates a verifier over an immutable enrolled set. An
// empty set leaves the verifier permanently inert for the session.
func NewVerifier(cfg Config, enrolled []Embedding) *Verifier {
	return &Verifier{cfg: cfg, enrolled: enrolled}
}

// Enabled reports whether any embeddings are enrolled.
func (v *Verifier) Enabled() bool {
	return len(v.enrolled) > 0
}

// State returns the last confirmed identity state.
func (v *Verifier) State() State {
	return v.state
}

// Observe scores one detected embedding against the enrolled set and
// returns a confirmed transition when the same direction has held for
// the stabilization threshold, or nil.
func (v *Verifier) Observe(e Embedding) *Result {
	if !v.Enabled() || len(e) == 0 {
		v.ResetCounters()
		return nil
	}

	d := v.bestMatch(e)

	if d > v.cfg.DistanceThreshold {
		v.unauthorizedCount++
		v.authorizedCount = 0
		if v.unauthorizedCount >= v.cfg.StabilizationThreshold && v.state != StateUnauthorized {
			v.state = StateUnauthorized
			return &Result{To: StateUnauthorized, Distance: d, Threshold: v.cfg.DistanceThreshold}
		}
		return nil
	}

	v.authorizedCount++
	v.unauthorizedCount = 0
	if v.authorizedCount >= v.cfg.StabilizationThreshold && v.state != StateAuthorized {
		v.state = StateAuthorized
		return &Result{To: StateAuthorized, Distance: d, Threshold: v.cfg.DistanceThreshold}
	}
	return nil
}

// ResetCounters clears the confirmation counters without touching the
// confirmed state. Called on presence gaps and detection failures.
func (v *Verifier) ResetCounters() {
	v.authorizedCount = 0
	v.unauthorizedCount = 0
}

// Reset returns the verifier to its initial state for a new session.
// The enrolled set is retained.
func (v *Verifier) Reset() {
	v.state = StateUnknown
	v.ResetCounters()
}

// bestMatch returns the minimum Euclidean distance from e to any
// enrolled embedding.
func (v *Verifier) bestMatch(e Embedding) float64 {
	best := math.Inf(1)
	for _, ref := range v.enrolled {
		if d := euclidean(e, ref); d < best {
			best = d
		}
	}
	return best
}

// euclidean returns the distance between two embeddings, or +Inf when
// their lengths differ.
func euclidean(a, b Embedding) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
