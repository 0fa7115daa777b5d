// Package attention converts noisy per-frame head-pose and gaze signals
// into confirmed, debounced attention-state transitions. The pipeline is
// calibration (baseline estimation), exponential smoothing of deviations,
// adaptive thresholding, and a hysteresis state machine.
package attention

import "time"

// Config holds all tunable parameters for the attention pipeline.
type Config struct {
	// Calibration
	CalibrationFrames int     // Warm-up window length in valid frames
	CalibrationAlpha  float64 // EMA weight for baseline updates

	// Smoothing
	SmoothingAlpha float64 // EMA weight for new deviation samples (0-1)
	HistorySize    int     // Smoothed values retained per signal

	// Thresholds (floors; the baseline raises them adaptively)
	YawBase   float64 // Minimum yaw deviation threshold
	PitchBase float64 // Minimum pitch deviation threshold
	GazeBase  float64 // Minimum gaze deviation threshold

	// Confirmation
	StabilizationThreshold int           // Consecutive frames before a state change
	MinDistractionDuration time.Duration // Minimum sustained time before Distracted
}

// DefaultConfig returns the recommended configuration for webcam input
// at typical display refresh rates.
func DefaultConfig() Config {
	return Config{
		CalibrationFrames: 45,
		CalibrationAlpha:  0.1,

		SmoothingAlpha: 0.25,
		HistorySize:    8,

		YawBase:   0.08,
		PitchBase: 0.12,
		GazeBase:  0.18,

		StabilizationThreshold: 3,
		MinDistractionDuration: 2 * time.Second,
	}
}
