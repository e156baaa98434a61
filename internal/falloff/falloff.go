// internal/falloff/falloff.go
//
// Ghost opacity falloff curves.
//
// Alpha maps a ghost's normalized distance from the current frame
// (t in [0,1]) to an opacity multiplier, then applies it to the base alpha.
// The multiplier never drops below 0.1 so distant ghosts stay faintly
// visible instead of vanishing.
package falloff

import (
	"fmt"
	"math"
)

// Curve selects the falloff shape.
type Curve string

const (
	Linear      Curve = "linear"
	Smooth      Curve = "smooth"
	Exponential Curve = "exponential"
)

// minFactor keeps the farthest ghost readable.
const minFactor = 0.1

// ParseCurve validates a configured curve name.
func ParseCurve(s string) (Curve, error) {
	switch Curve(s) {
	case Linear, Smooth, Exponential:
		return Curve(s), nil
	}
	return "", fmt.Errorf("falloff: unknown curve %q", s)
}

// Alpha returns the ghost alpha for base alpha, distance fraction t, and
// falloff strength, under the given curve.  Unknown curves behave as Smooth.
func Alpha(base, t, strength float32, curve Curve) float32 {
	var factor float32
	switch curve {
	case Linear:
		factor = 1 - t*strength
	case Exponential:
		factor = pow(1-t, 1+strength*2)
	default: // Smooth: cubic Hermite ease on s = t*strength.
		s := t * strength
		switch {
		case s >= 1:
			factor = minFactor
		case s <= 0:
			factor = 1
		default:
			factor = 1 - s*s*(3-2*s)
		}
	}
	if factor < minFactor {
		factor = minFactor
	}
	return base * factor
}

// pow is float32 x**y for x >= 0.
func pow(x, y float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Pow(float64(x), float64(y)))
}
