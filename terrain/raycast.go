package terrain

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
)

// Ray is a filtered directional terrain query.
type Ray struct {
	Origin cp.Vector
	// Dir must be normalized.
	Dir     cp.Vector
	MaxDist float64
	Mask    uint
	// Hits closer than MinValidDist or farther than MaxValidDist are
	// skipped. A zero MaxValidDist means MaxDist.
	MinValidDist float64
	MaxValidDist float64
	// IgnoreOneWay skips one-way surfaces entirely. Otherwise they are hit
	// only when Dir is an accepted landing direction.
	IgnoreOneWay bool
	// FallbackAngle is reported for fixed-angle tiles that are not angled,
	// normally the canonical axis of the querying ground mode.
	FallbackAngle float64
}

// Hit is the nearest accepted raycast contact.
type Hit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Angle    float64
	Distance float64
	Surface  *Surface
}

// Querier is the terrain surface the movement core casts against.
type Querier interface {
	Raycast(r Ray) (Hit, bool)
}

// Raycast returns the nearest in-range hit along r.
func (w *World) Raycast(r Ray) (Hit, bool) {
	if w == nil || w.space == nil || r.MaxDist <= 0 || r.Mask == 0 {
		return Hit{}, false
	}
	maxValid := r.MaxValidDist
	if maxValid <= 0 || maxValid > r.MaxDist {
		maxValid = r.MaxDist
	}
	end := r.Origin.Add(r.Dir.Mult(r.MaxDist))
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: r.Mask}

	var best Hit
	found := false
	bestDist := math.Inf(1)
	w.space.SegmentQuery(r.Origin, end, 0, filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
		dist := alpha * r.MaxDist
		if dist < r.MinValidDist || dist > maxValid || dist >= bestDist {
			return
		}
		surf, _ := shape.UserData.(*Surface)
		if surf.OneWay() {
			if r.IgnoreOneWay || !surf.Meta.CanCollideInDirection(r.Dir) {
				return
			}
		}
		bestDist = dist
		best = Hit{Point: point, Normal: normal, Distance: dist, Surface: surf}
		found = true
	}, nil)
	if !found {
		return Hit{}, false
	}

	if angle, ok := best.Surface.meta().FixedAngleRad(r.FallbackAngle); ok {
		best.Angle = angle
		best.Normal = common.AngleToNormal(angle)
	} else {
		best.Angle = common.NormalToAngle(best.Normal)
	}
	return best, true
}
