package animation

import "math"

// Bounce-out coefficients: four parabolic arcs of decreasing height
const (
	bounceN = 7.5625
	bounceD = 2.75
)

// BounceOut eases x in [0,1] like a ball dropped onto the floor.
// BounceOut(0) = 0, BounceOut(1) = 1; inputs outside [0,1] are clamped.
func BounceOut(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	var v float64
	switch {
	case x < 1/bounceD:
		v = bounceN * x * x
	case x < 2/bounceD:
		x -= 1.5 / bounceD
		v = bounceN*x*x + 0.75
	case x < 2.5/bounceD:
		x -= 2.25 / bounceD
		v = bounceN*x*x + 0.9375
	default:
		x -= 2.625 / bounceD
		v = bounceN*x*x + 0.984375
	}
	return math.Min(v, 1)
}
