package levels

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidLevel = errors.New("invalid level")

// Collision layer names used by Layer.Collision and platform definitions.
const (
	CollisionCommon = "common"
	CollisionA      = "a"
	CollisionB      = "b"
)

// Tile shapes.
const (
	ShapeSolid = "solid"
	ShapeSlope = "slope"
)

// Level is a tile map stored as JSON. World space is y-up: row 0 of every
// layer is the top row of the map.
type Level struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	TileSize float64 `json:"tile_size"`
	// Layers is a slice of collision layers. Each layer is a flat array
	// of length Width*Height (row-major). Tile id 0 is empty.
	Layers []Layer `json:"layers"`
	// Tiles maps tile ids to ground tile metadata. Ids missing from the
	// catalog are plain solid blocks.
	Tiles map[int]TileDef `json:"tiles,omitempty"`

	Spawn      Point         `json:"spawn"`
	WaterLevel *float64      `json:"water_level,omitempty"`
	Platforms  []PlatformDef `json:"platforms,omitempty"`
	Objects    []ObjectDef   `json:"objects,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Layer struct {
	Name      string `json:"name"`
	Collision string `json:"collision"`
	Tiles     []int  `json:"tiles"`
}

// TileDef describes a ground tile. Left and Right are the surface heights
// (0..1 of a tile) at the tile's edges for slope tiles.
type TileDef struct {
	Shape       string  `json:"shape"`
	Left        float64 `json:"left,omitempty"`
	Right       float64 `json:"right,omitempty"`
	FixedAngle  bool    `json:"fixed_angle,omitempty"`
	Angled      bool    `json:"angled,omitempty"`
	Angle       float64 `json:"angle,omitempty"`
	OneWay      bool    `json:"one_way,omitempty"`
	AngleOffset float64 `json:"angle_offset,omitempty"`
	FlipX       bool    `json:"flip_x,omitempty"`
	FlipY       bool    `json:"flip_y,omitempty"`
}

// PlatformDef is a moving platform travelling between its start and
// start+(DestX, DestY). X and Y are the center of the box.
type PlatformDef struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	DestX     float64 `json:"dest_x"`
	DestY     float64 `json:"dest_y"`
	Speed     float64 `json:"speed"`
	Wait      float64 `json:"wait"`
	OneWay    bool    `json:"one_way,omitempty"`
	Collision string  `json:"collision,omitempty"`
}

// ObjectDef is a trigger volume. Which fields apply depends on Kind
// ("ring", "damage", "spring", "layer_switch").
type ObjectDef struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`

	Count int `json:"count,omitempty"`

	DoesDamage *bool `json:"does_damage,omitempty"`

	LaunchSpeed   float64 `json:"launch_speed,omitempty"`
	Rotation      float64 `json:"rotation,omitempty"`
	VelocityMode  string  `json:"velocity_mode,omitempty"`
	ForceAirborne bool    `json:"force_airborne,omitempty"`
	LockTime      float64 `json:"lock_time,omitempty"`
	SpinAnimation *bool   `json:"spin_animation,omitempty"`

	Direction      string `json:"direction,omitempty"`
	FromLeft       string `json:"from_left,omitempty"`
	FromRight      string `json:"from_right,omitempty"`
	FromAbove      string `json:"from_above,omitempty"`
	FromBelow      string `json:"from_below,omitempty"`
	MustBeGrounded bool   `json:"must_be_grounded,omitempty"`
}

// Parse decodes and validates a level.
func Parse(b []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(b, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	if l.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %g", ErrInvalidLevel, l.TileSize)
	}
	for i, ly := range l.Layers {
		if len(ly.Tiles) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(ly.Tiles), l.Width*l.Height)
		}
		switch ly.Collision {
		case "", CollisionCommon, CollisionA, CollisionB:
		default:
			return fmt.Errorf("%w: layer %d collision %q", ErrInvalidLevel, i, ly.Collision)
		}
	}
	for id, def := range l.Tiles {
		switch def.Shape {
		case "", ShapeSolid:
		case ShapeSlope:
			if def.Left < 0 || def.Left > 1 || def.Right < 0 || def.Right > 1 {
				return fmt.Errorf("%w: tile %d slope heights out of range", ErrInvalidLevel, id)
			}
		default:
			return fmt.Errorf("%w: tile %d shape %q", ErrInvalidLevel, id, def.Shape)
		}
	}
	return nil
}

// Tile returns the tile id at column x, row y (row 0 is the top row).
func (l *Level) Tile(layer, x, y int) int {
	if layer < 0 || layer >= len(l.Layers) || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0
	}
	return l.Layers[layer].Tiles[y*l.Width+x]
}

// Def returns the catalog entry for a tile id.
func (l *Level) Def(id int) TileDef {
	if def, ok := l.Tiles[id]; ok {
		if def.Shape == "" {
			def.Shape = ShapeSolid
		}
		return def
	}
	return TileDef{Shape: ShapeSolid}
}

// CellOrigin returns the world-space bottom-left corner of a cell.
func (l *Level) CellOrigin(x, y int) (float64, float64) {
	return float64(x) * l.TileSize, float64(l.Height-1-y) * l.TileSize
}
