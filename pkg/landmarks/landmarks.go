// Package landmarks provides pure geometric signal extraction from
// normalized 2D facial landmarks. All functions are deterministic and
// side-effect free; a landmark set is valid for a single frame only.
package landmarks

import (
	"errors"
	"math"
)

// Point is a normalized 2D landmark coordinate (0-1 relative to frame).
type Point struct {
	X float64
	Y float64
}

// Set maps fixed mesh indices (0-477) to normalized points for one frame.
type Set map[int]Point

// Face mesh indices for the landmarks the extractor consumes.
const (
	NoseTip       = 1
	LeftEyeOuter  = 33
	LeftEyeInner  = 133
	RightEyeInner = 362
	RightEyeOuter = 263
	LeftIris      = 468
	RightIris     = 473
)

// minEyeWidth is the narrowest eye (normalized) that still yields a
// usable gaze ratio. Below this the eye is assumed closed.
const minEyeWidth = 0.01

// ErrMissingLandmarks is returned when a required mesh index is absent.
var ErrMissingLandmarks = errors.New("required landmarks missing")

// HeadPose returns the yaw and pitch proxy signals for a frame.
// Yaw is the horizontal offset of the nose tip from the eye line center,
// pitch the vertical offset. Both are signed, in normalized frame units.
func HeadPose(s Set) (yaw, pitch float64, err error) {
	nose, okN := s[NoseTip]
	left, okL := s[LeftEyeOuter]
	right, okR := s[RightEyeOuter]
	if !okN || !okL || !okR {
		return 0, 0, ErrMissingLandmarks
	}

	eyeCenterX := (left.X + right.X) / 2
	eyeCenterY := (left.Y + right.Y) / 2

	return nose.X - eyeCenterX, nose.Y - eyeCenterY, nil
}

// Gaze returns the combined gaze proxy: the horizontal iris position
// within each eye, averaged over both eyes. ok is false when either eye
// is unmeasurable (missing landmarks or eye too narrow); callers treat
// that as focused rather than as evidence of distraction.
func Gaze(s Set) (ratio float64, ok bool) {
	leftRatio, okL := eyeRatio(s, LeftIris, LeftEyeInner, LeftEyeOuter)
	rightRatio, okR := eyeRatio(s, RightIris, RightEyeInner, RightEyeOuter)
	if !okL || !okR {
		return 0, false
	}
	return (leftRatio + rightRatio) / 2, true
}

// eyeRatio computes the iris position within one eye as a 0-1 ratio of
// the eye width.
func eyeRatio(s Set, irisIdx, innerIdx, outerIdx int) (float64, bool) {
	iris, okI := s[irisIdx]
	inner, okN := s[innerIdx]
	outer, okO := s[outerIdx]
	if !okI || !okN || !okO {
		return 0, false
	}

	width := math.Abs(inner.X - outer.X)
	if width < minEyeWidth {
		return 0, false
	}

	return (iris.X - outer.X) / width, true
}
