package terrain

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
)

// Collision categories. A character's mask selects which of them its
// raycasts can hit; LayerCommon is part of every mask.
const (
	LayerCommon uint = 1 << iota
	LayerA
	LayerB
)

// TileMeta is the ground tile metadata a raycast can resolve.
type TileMeta struct {
	// FixedAngle makes ground checks report a pre-defined angle instead of
	// the raw hit normal.
	FixedAngle bool
	// Angled tiles report Angle. Unangled tiles are fully solid and report
	// the canonical axis of the querying ground mode.
	Angled bool
	// Angle in degrees, counter-clockwise from up.
	Angle float64
	FlipX bool
	FlipY bool

	// OneWay surfaces only block motion entering against their up
	// direction, which is up rotated by AngleOffset degrees.
	OneWay      bool
	AngleOffset float64
}

// Surface is stored in cp.Shape.UserData for every terrain shape.
type Surface struct {
	Meta *TileMeta
	// Platform is an opaque handle reported to platform-attachment
	// notifiers when a character stands on this surface.
	Platform any
}

// FixedAngleRad resolves the override angle in radians. fallback is used for
// unangled tiles.
func (m *TileMeta) FixedAngleRad(fallback float64) (float64, bool) {
	if m == nil || !m.FixedAngle {
		return 0, false
	}
	if !m.Angled {
		return common.NormalizeAngle(fallback), true
	}
	deg := m.Angle
	if m.FlipX {
		deg = 360 - deg
	}
	if m.FlipY {
		deg = 180 - deg
	}
	return common.NormalizeDegrees(deg) * common.Deg2Rad, true
}

// oneWayEpsilon keeps casts perpendicular to the accepted direction from
// passing on floating point noise in the rotated up vector.
const oneWayEpsilon = 1e-9

// CanCollideInDirection reports whether a cast travelling along dir
// (normalized) is an accepted landing direction for a one-way surface.
func (m *TileMeta) CanCollideInDirection(dir cp.Vector) bool {
	if m == nil || !m.OneWay {
		return true
	}
	up := common.AngleToNormal(m.AngleOffset * common.Deg2Rad)
	return dir.Dot(up) < -oneWayEpsilon
}

func (s *Surface) meta() *TileMeta {
	if s == nil {
		return nil
	}
	return s.Meta
}

// OneWay reports whether the surface only blocks from one side.
func (s *Surface) OneWay() bool {
	m := s.meta()
	return m != nil && m.OneWay
}
