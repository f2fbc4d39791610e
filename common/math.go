package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	TwoPi   = math.Pi * 2
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1 for negative values and 1 otherwise, matching the
// convention used for facing and knockback directions.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// NormalizeAngle wraps a radian angle into [0, 2π). NaN and infinities
// collapse to 0 so callers never carry them forward.
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// NormalizeDegrees wraps a degree angle into [0, 360).
func NormalizeDegrees(d float64) float64 {
	return NormalizeAngle(d*Deg2Rad) * Rad2Deg
}

// NormalToAngle converts an outward surface normal into a ground angle,
// measured counter-clockwise from straight up.
func NormalToAngle(n cp.Vector) float64 {
	return NormalizeAngle(math.Atan2(n.Y, n.X) - math.Pi/2)
}

// AngleToNormal is the inverse of NormalToAngle.
func AngleToNormal(a float64) cp.Vector {
	return cp.Vector{X: -math.Sin(a), Y: math.Cos(a)}
}

// Tangent returns the surface direction a positive ground speed moves along.
func Tangent(a float64) cp.Vector {
	return cp.Vector{X: math.Cos(a), Y: math.Sin(a)}
}

func MoveTowards(from, to cp.Vector, maxDelta float64) cp.Vector {
	d := to.Sub(from)
	dist := d.Length()
	if dist <= maxDelta || dist == 0 {
		return to
	}
	return from.Add(d.Mult(maxDelta / dist))
}

// SnapAngle snaps a degree angle to the nearest 45 degree increment.
func SnapAngle(deg float64) float64 {
	mult := int((deg + 22.5) / 45)
	return NormalizeDegrees(float64(mult) * 45)
}
