package colour

import "math"

const (
	// DefaultMidpoint is the neutral brightness on the 8-bit luma scale.
	DefaultMidpoint = 127.0

	// DefaultCoefficient is the correction strength used when none is configured.
	DefaultCoefficient = 0.25

	// MaxChannel is the largest value an 8-bit channel can hold.
	MaxChannel = 255
)

// Correction returns the per-channel offset for a frame of the given brightness:
// round((brightness - midpoint) * coefficient).
// A coefficient of 0 yields 0; the result is monotonic non-decreasing in brightness
// for any coefficient >= 0. Halves round away from zero.
func Correction(brightness, midpoint, coefficient float64) int {
	return int(math.Round((brightness - midpoint) * coefficient))
}

// ClampChannel clamps v to the 8-bit channel range [0, 255].
func ClampChannel(v int) uint8 {
	return uint8(max(0, min(MaxChannel, v)))
}
