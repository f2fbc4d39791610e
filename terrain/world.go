package terrain

import (
	"github.com/jakecoffman/cp"
)

// World owns the Chipmunk space holding terrain collision shapes. The
// space is never stepped: it only serves queries, so it is read-only from
// the character's point of view during a tick.
type World struct {
	space *cp.Space
}

func NewWorld() *World {
	space := cp.NewSpace()
	space.Iterations = 20
	return &World{space: space}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func layerFilter(layer uint) cp.ShapeFilter {
	if layer == 0 {
		layer = LayerCommon
	}
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: layer, Mask: cp.ALL_CATEGORIES}
}

func (w *World) addStatic(shape *cp.Shape, layer uint, surf *Surface) *cp.Shape {
	shape.SetFriction(0.8)
	shape.SetFilter(layerFilter(layer))
	if surf == nil {
		surf = &Surface{}
	}
	shape.UserData = surf
	return w.space.AddShape(shape)
}

// AddBox adds a static axis-aligned box.
func (w *World) AddBox(bb cp.BB, layer uint, surf *Surface) *cp.Shape {
	if w == nil || w.space == nil {
		return nil
	}
	return w.addStatic(cp.NewBox2(w.space.StaticBody, bb, 0), layer, surf)
}

// AddPolygon adds a static convex polygon. Winding does not matter; the
// hull is computed by Chipmunk.
func (w *World) AddPolygon(verts []cp.Vector, layer uint, surf *Surface) *cp.Shape {
	if w == nil || w.space == nil || len(verts) < 3 {
		return nil
	}
	shape := cp.NewPolyShape(w.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
	return w.addStatic(shape, layer, surf)
}

// AddKinematicBox adds a box on its own kinematic body so it can be moved
// with MoveBody. The body is positioned at center.
func (w *World) AddKinematicBox(center cp.Vector, width, height float64, layer uint, surf *Surface) (*cp.Body, *cp.Shape) {
	if w == nil || w.space == nil {
		return nil, nil
	}
	body := cp.NewKinematicBody()
	body.SetPosition(center)
	w.space.AddBody(body)
	shape := cp.NewBox(body, width, height, 0)
	return body, w.addStatic(shape, layer, surf)
}

// MoveBody teleports a kinematic body. The space is never stepped, so the
// body's shapes are removed and re-added to refresh their bounds in the
// spatial index.
func (w *World) MoveBody(body *cp.Body, pos cp.Vector) {
	if w == nil || w.space == nil || body == nil {
		return
	}
	body.SetPosition(pos)
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) { shapes = append(shapes, s) })
	for _, s := range shapes {
		w.space.RemoveShape(s)
		w.space.AddShape(s)
	}
}
