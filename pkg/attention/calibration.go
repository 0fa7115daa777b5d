package attention

// Baseline holds the per-user reference values established during the
// calibration window. It is the zero-point for deviation measurement and
// is immutable once calibration completes.
type Baseline struct {
	Yaw   float64 `json:"baseline_yaw"`
	Pitch float64 `json:"baseline_pitch"`
	Gaze  float64 `json:"baseline_gaze"`
}

// Calibrator estimates the baseline over a fixed warm-up window of
// consecutive valid frames. While calibrating no classification output is
// produced; the caller skips the classifier until Complete reports true.
type Calibrator struct {
	cfg      Config
	baseline Baseline
	frames   int
	complete bool
}

// NewCalibrator creates a calibrator for a fresh session.
func NewCalibrator(cfg Config) *Calibrator {
	return &Calibrator{cfg: cfg}
}

// Observe feeds one valid frame of raw signals into the baseline EMA.
// Gaze is only folded in when it was computable this frame. It returns
// true exactly once: on the first valid frame after the window, which
// is consumed by the completion itself and not folded into the
// baseline.
func (c *Calibrator) Observe(yaw, pitch, gaze float64, gazeOK bool) bool {
	if c.complete {
		return false
	}

	if c.frames >= c.cfg.CalibrationFrames {
		c.complete = true
		return true
	}

	a := c.cfg.CalibrationAlpha
	c.baseline.Yaw = c.baseline.Yaw*(1-a) + yaw*a
	c.baseline.Pitch = c.baseline.Pitch*(1-a) + pitch*a
	if gazeOK {
		c.baseline.Gaze = c.baseline.Gaze*(1-a) + gaze*a
	}

	c.frames++
	return false
}

// Complete reports whether the calibration window has finished.
func (c *Calibrator) Complete() bool {
	return c.complete
}

// Baseline returns the current baseline. Only meaningful once Complete.
func (c *Calibrator) Baseline() Baseline {
	return c.baseline
}

// Reset discards all calibration state for a new session.
func (c *Calibrator) Reset() {
	c.baseline = Baseline{}
	c.frames = 0
	c.complete = false
}
