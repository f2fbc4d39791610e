package terrain

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/levels"
)

// LayerBit maps a level collision layer name to its category bit.
func LayerBit(name string) uint {
	switch name {
	case levels.CollisionA:
		return LayerA
	case levels.CollisionB:
		return LayerB
	default:
		return LayerCommon
	}
}

// MetaFromDef converts level tile metadata into a TileMeta. Plain solid
// tiles return nil.
func MetaFromDef(def levels.TileDef) *TileMeta {
	if !def.FixedAngle && !def.OneWay {
		return nil
	}
	return &TileMeta{
		FixedAngle:  def.FixedAngle,
		Angled:      def.Angled,
		Angle:       def.Angle,
		FlipX:       def.FlipX,
		FlipY:       def.FlipY,
		OneWay:      def.OneWay,
		AngleOffset: def.AngleOffset,
	}
}

// FromLevel builds the static terrain for a level. Moving platforms are
// added separately by the platform package.
func FromLevel(lvl *levels.Level) *World {
	w := NewWorld()
	if lvl == nil {
		return w
	}
	for _, ly := range lvl.Layers {
		w.addLayer(lvl, ly)
	}
	return w
}

func (w *World) addLayer(lvl *levels.Level, ly levels.Layer) {
	layer := LayerBit(ly.Collision)
	metas := make(map[int]*TileMeta)
	metaFor := func(id int) *TileMeta {
		m, ok := metas[id]
		if !ok {
			m = MetaFromDef(lvl.Def(id))
			metas[id] = m
		}
		return m
	}

	size := lvl.TileSize
	processed := make([]bool, lvl.Width*lvl.Height)
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			idx := y*lvl.Width + x
			if processed[idx] {
				continue
			}
			id := ly.Tiles[idx]
			if id == 0 {
				processed[idx] = true
				continue
			}

			x0, y0 := lvl.CellOrigin(x, y)
			def := lvl.Def(id)
			if def.Shape == levels.ShapeSlope {
				w.AddPolygon(slopeVerts(x0, y0, size, def.Left, def.Right), layer, &Surface{Meta: metaFor(id)})
				processed[idx] = true
				continue
			}

			// Greedily expand a rectangle over contiguous tiles sharing the
			// same id (width then height) so merged shapes keep one meta.
			same := func(i int) bool {
				return !processed[i] && ly.Tiles[i] == id
			}
			wTiles := 1
			for x+wTiles < lvl.Width && same(y*lvl.Width+x+wTiles) {
				wTiles++
			}
			hTiles := 1
		heightLoop:
			for y+hTiles < lvl.Height {
				for xi := x; xi < x+wTiles; xi++ {
					if !same((y+hTiles)*lvl.Width + xi) {
						break heightLoop
					}
				}
				hTiles++
			}

			// Rows grow downward in the file, so the merged box extends
			// below the first cell in world space.
			bottom := y0 - float64(hTiles-1)*size
			bb := cp.BB{L: x0, B: bottom, R: x0 + float64(wTiles)*size, T: y0 + size}
			w.AddBox(bb, layer, &Surface{Meta: metaFor(id)})

			for yy := y; yy < y+hTiles; yy++ {
				for xx := x; xx < x+wTiles; xx++ {
					processed[yy*lvl.Width+xx] = true
				}
			}
		}
	}
}

func slopeVerts(x0, y0, size, left, right float64) []cp.Vector {
	verts := []cp.Vector{
		{X: x0, Y: y0},
		{X: x0 + size, Y: y0},
	}
	if right > 0 {
		verts = append(verts, cp.Vector{X: x0 + size, Y: y0 + right*size})
	}
	if left > 0 {
		verts = append(verts, cp.Vector{X: x0, Y: y0 + left*size})
	}
	return verts
}
