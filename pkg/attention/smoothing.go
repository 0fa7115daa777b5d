package attention

// Smoother maintains an exponential moving average of one signal's
// deviation from baseline, plus a bounded history of recent smoothed
// values. Only the most recent value drives classification; the history
// is retained for inspection.
type Smoother struct {
	alpha   float64
	size    int
	current float64
	primed  bool
	history []float64
}

// NewSmoother creates a smoother with the configured EMA weight and
// history capacity.
func NewSmoother(cfg Config) *Smoother {
	return &Smoother{
		alpha:   cfg.SmoothingAlpha,
		size:    cfg.HistorySize,
		history: make([]float64, 0, cfg.HistorySize),
	}
}

// Update folds one deviation sample into the average and returns the new
// smoothed value. The first sample passes through unchanged.
func (s *Smoother) Update(deviation float64) float64 {
	if !s.primed {
		s.current = deviation
		s.primed = true
	} else {
		s.current = s.alpha*deviation + (1-s.alpha)*s.current
	}

	s.history = append(s.history, s.current)
	if len(s.history) > s.size {
		s.history = s.history[1:]
	}

	return s.current
}

// Current returns the most recent smoothed value.
func (s *Smoother) Current() float64 {
	return s.current
}

// History returns a copy of the retained smoothed values, oldest first.
func (s *Smoother) History() []float64 {
	out := make([]float64, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears all smoothing state.
func (s *Smoother) Reset() {
	s.current = 0
	s.primed = false
	s.history = s.history[:0]
}
