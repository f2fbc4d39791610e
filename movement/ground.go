package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
	"github.com/milk9111/spinrunner/terrain"
)

// GroundMode is the character-relative orientation that defines "down" for
// the ground sensors. The values are cyclic: each mode is a further 90
// degree counter-clockwise rotation of the previous one.
type GroundMode int

const (
	Floor GroundMode = iota
	RightWall
	Ceiling
	LeftWall
)

func (m GroundMode) String() string {
	switch m {
	case Floor:
		return "floor"
	case RightWall:
		return "right_wall"
	case Ceiling:
		return "ceiling"
	case LeftWall:
		return "left_wall"
	default:
		return "unknown"
	}
}

// Angle is the canonical surface angle of the mode in radians.
func (m GroundMode) Angle() float64 {
	return float64(m&3) * math.Pi / 2
}

// Down is the sensor cast direction for the mode.
func (m GroundMode) Down() cp.Vector {
	switch m & 3 {
	case RightWall:
		return cp.Vector{X: 1, Y: 0}
	case Ceiling:
		return cp.Vector{X: 0, Y: 1}
	case LeftWall:
		return cp.Vector{X: -1, Y: 0}
	default:
		return cp.Vector{X: 0, Y: -1}
	}
}

// side is the sensor offset axis: Down rotated 90 degrees counter-clockwise.
func (m GroundMode) side() cp.Vector {
	d := m.Down()
	return cp.Vector{X: -d.Y, Y: d.X}
}

// GroundContact is the single surface contact chosen from a sensor pair.
type GroundContact struct {
	Point  cp.Vector
	Normal cp.Vector
	// Angle in radians in [0, 2π), counter-clockwise from up.
	Angle   float64
	Valid   bool
	Surface *terrain.Surface
}

// AngleDeg returns the contact angle in degrees.
func (g GroundContact) AngleDeg() float64 {
	return g.Angle * common.Rad2Deg
}

// Platform returns the moving platform handle under the contact, if any.
func (g GroundContact) Platform() any {
	if !g.Valid || g.Surface == nil {
		return nil
	}
	return g.Surface.Platform
}

// GroundResolver samples a pair of sensors around a center point.
type GroundResolver struct {
	Terrain terrain.Querier
	RayDist float64
	Mask    uint
}

// Sense casts two rays from symmetric offsets (±widthHalf along the mode's
// side axis) in the mode's down direction. When both hit, the contact
// farther out along the mode's up axis wins, with ties going to the left
// sensor. Ceiling checks skip one-way surfaces entirely.
func (r GroundResolver) Sense(pos cp.Vector, mode GroundMode, widthHalf float64, ceilingCheck bool) GroundContact {
	if r.Terrain == nil || r.RayDist <= 0 {
		return GroundContact{}
	}
	dir := mode.Down()
	offset := mode.side().Mult(widthHalf)
	ray := terrain.Ray{
		Dir:           dir,
		MaxDist:       r.RayDist,
		Mask:          r.Mask,
		IgnoreOneWay:  ceilingCheck,
		FallbackAngle: mode.Angle(),
	}

	ray.Origin = pos.Sub(offset)
	left, leftOK := r.Terrain.Raycast(ray)
	ray.Origin = pos.Add(offset)
	right, rightOK := r.Terrain.Raycast(ray)

	var hit terrain.Hit
	switch {
	case leftOK && rightOK:
		up := dir.Neg()
		if left.Point.Dot(up) >= right.Point.Dot(up) {
			hit = left
		} else {
			hit = right
		}
	case leftOK:
		hit = left
	case rightOK:
		hit = right
	default:
		return GroundContact{}
	}
	return GroundContact{
		Point:   hit.Point,
		Normal:  hit.Normal,
		Angle:   common.NormalizeAngle(hit.Angle),
		Valid:   true,
		Surface: hit.Surface,
	}
}

// nextMode applies the stick-to-ground transition table. Each mode only
// moves to a cyclically adjacent one.
func nextMode(mode GroundMode, deg float64) GroundMode {
	switch mode {
	case Floor:
		if deg > 225 && deg < 315 {
			return LeftWall
		}
		if deg > 45 && deg < 180 {
			return RightWall
		}
	case RightWall:
		if deg > 0 && deg < 45 {
			return Floor
		}
		if deg > 135 && deg < 270 {
			return Ceiling
		}
	case Ceiling:
		if deg > 45 && deg < 135 {
			return RightWall
		}
		if deg > 225 && deg < 360 {
			return LeftWall
		}
	case LeftWall:
		if deg > 45 && deg < 225 {
			return Ceiling
		}
		if deg > 315 {
			return Floor
		}
	}
	return mode
}
