package attention

import "math"

// Cause identifies which signal triggered a distraction classification.
// When head pose and gaze fire on the same frame, head movement is the
// named trigger.
type Cause string

const (
	CauseHeadMovement Cause = "head_movement"
	CauseGazeShift    Cause = "gaze_shift"
)

// Threshold derivation margins. Thresholds scale with the baseline so a
// user whose resting pose is off-center is not penalized for it.
const (
	yawScale    = 2.0
	yawMargin   = 0.05
	pitchScale  = 2.0
	pitchMargin = 0.06
	gazeScale   = 0.5
	gazeMargin  = 0.12
)

// Frame is the per-frame classification outcome, before any debouncing.
type Frame struct {
	Distracted bool
	Cause      Cause // set only when Distracted

	// Smoothed deviations, exported for status reporting
	Yaw   float64
	Pitch float64
	Gaze  float64
}

// Classifier turns raw signals into a per-frame focused/distracted
// decision using thresholds derived from the calibration baseline.
// Head pose and gaze are classified independently and combined with OR.
type Classifier struct {
	cfg  Config
	base Baseline

	yaw   *Smoother
	pitch *Smoother
	gaze  *Smoother
}

// NewClassifier creates a classifier around a frozen baseline.
func NewClassifier(cfg Config, base Baseline) *Classifier {
	return &Classifier{
		cfg:   cfg,
		base:  base,
		yaw:   NewSmoother(cfg),
		pitch: NewSmoother(cfg),
		gaze:  NewSmoother(cfg),
	}
}

// YawThreshold returns the adaptive yaw deviation threshold.
func (c *Classifier) YawThreshold() float64 {
	return math.Max(c.cfg.YawBase, c.base.Yaw*yawScale+yawMargin)
}

// PitchThreshold returns the adaptive pitch deviation threshold.
func (c *Classifier) PitchThreshold() float64 {
	return math.Max(c.cfg.PitchBase, c.base.Pitch*pitchScale+pitchMargin)
}

// GazeThreshold returns the adaptive gaze deviation threshold.
func (c *Classifier) GazeThreshold() float64 {
	return math.Max(c.cfg.GazeBase, c.base.Gaze*gazeScale+gazeMargin)
}

// Classify processes one frame of raw signals. An unmeasurable gaze
// (gazeOK false) is treated as focused on the gaze side and does not
// update the gaze smoother.
func (c *Classifier) Classify(yaw, pitch, gaze float64, gazeOK bool) Frame {
	f := Frame{
		Yaw:   c.yaw.Update(math.Abs(yaw - c.base.Yaw)),
		Pitch: c.pitch.Update(math.Abs(pitch - c.base.Pitch)),
	}

	headDistracted := f.Yaw > c.YawThreshold() || f.Pitch > c.PitchThreshold()

	gazeDistracted := false
	if gazeOK {
		f.Gaze = c.gaze.Update(math.Abs(gaze - c.base.Gaze))
		gazeDistracted = f.Gaze > c.GazeThreshold()
	} else {
		f.Gaze = c.gaze.Current()
	}

	if headDistracted {
		f.Distracted = true
		f.Cause = CauseHeadMovement
	} else if gazeDistracted {
		f.Distracted = true
		f.Cause = CauseGazeShift
	}

	return f
}
