package curve

import "math"

// Spin is the rotation direction of an angle tween.
type Spin int

const (
	// SpinCounterClockwise decreases the angle (on a y-down screen).
	SpinCounterClockwise Spin = -1
	// SpinNone holds the start angle for the whole tween.
	SpinNone Spin = 0
	// SpinClockwise increases the angle (on a y-down screen).
	SpinClockwise Spin = 1
)

func (s Spin) String() string {
	switch {
	case s > 0:
		return "clockwise"
	case s < 0:
		return "counter-clockwise"
	default:
		return "none"
	}
}

// Reverse flips the direction. Loaders use it when converting y-up assets.
func (s Spin) Reverse() Spin {
	return -s
}

// NormalizeAngle maps deg into [0, 360). Only for display and comparison;
// tweened angles are kept unnormalized.
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
