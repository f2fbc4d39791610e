package scatter

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/logger"
	"github.com/milk9111/spinrunner/terrain"
)

type Config struct {
	PerCircle int `yaml:"per_circle"`
	// Limit caps both a single burst and the number of live rings.
	Limit     int     `yaml:"limit"`
	BaseSpeed float64 `yaml:"base_speed"`

	Gravity    float64 `yaml:"gravity"`
	SpeedLimit float64 `yaml:"speed_limit"`
	// BounceX and BounceY are the fractions of velocity kept on a bounce.
	BounceX      float64 `yaml:"bounce_x"`
	BounceY      float64 `yaml:"bounce_y"`
	Radius       float64 `yaml:"radius"`
	Skin         float64 `yaml:"skin"`
	CollectDelay float64 `yaml:"collect_delay"`
	Lifetime     float64 `yaml:"lifetime"`
}

func DefaultConfig() Config {
	return Config{
		PerCircle:    16,
		Limit:        32,
		BaseSpeed:    240,
		Gravity:      -337.5,
		SpeedLimit:   960,
		BounceX:      0.9,
		BounceY:      0.75,
		Radius:       8,
		Skin:         0.1,
		CollectDelay: 1.0666667,
		Lifetime:     4.266667,
	}
}

// Burst returns the launch velocities for count rings. Rings fill circles
// of PerCircle, alternating mirrored pairs outward from the top, and each
// circle moves at half the speed of the one before.
func Burst(cfg Config, count int, facing float64) []cp.Vector {
	if count > cfg.Limit {
		count = cfg.Limit
	}
	if count <= 0 || cfg.PerCircle <= 0 {
		return nil
	}
	if facing == 0 {
		facing = 1
	}
	out := make([]cp.Vector, 0, count)
	spacing := 2 * math.Pi / float64(cfg.PerCircle)
	start := math.Pi/2 + spacing/2*facing
	speed := cfg.BaseSpeed
	for len(out) < count {
		offset := 0.0
		flip := false
		for i := 0; i < cfg.PerCircle && len(out) < count; i++ {
			a := start + facing*offset
			v := cp.Vector{X: math.Cos(a) * speed, Y: math.Sin(a) * speed}
			if flip {
				v.X = -v.X
				offset += spacing
			}
			flip = !flip
			out = append(out, v)
		}
		speed *= 0.5
	}
	return out
}

// Ring is one scattered ring in flight.
type Ring struct {
	Pos cp.Vector
	Vel cp.Vector
	Age float64
}

// Collector receives collected scattered rings.
type Collector interface {
	AddRings(n int)
	IsHit() bool
}

// Field simulates scattered rings bouncing on the terrain until they are
// collected or expire.
type Field struct {
	cfg   Config
	world terrain.Querier
	log   *slog.Logger
	rings []Ring

	// Mask selects the terrain layers rings bounce on.
	Mask uint
}

func NewField(cfg Config, world terrain.Querier) *Field {
	return &Field{
		cfg:   cfg,
		world: world,
		log:   logger.L(),
		Mask:  terrain.LayerCommon | terrain.LayerA,
	}
}

func (f *Field) SetLogger(l *slog.Logger) {
	if f == nil || l == nil {
		return
	}
	f.log = l
}

// Scatter spawns a burst at origin. Rings beyond the live limit are
// dropped.
func (f *Field) Scatter(count int, origin cp.Vector, facing float64) {
	if f == nil {
		return
	}
	burst := Burst(f.cfg, count, facing)
	room := f.cfg.Limit - len(f.rings)
	if len(burst) > room {
		burst = burst[:max(room, 0)]
	}
	for _, v := range burst {
		f.rings = append(f.rings, Ring{Pos: origin, Vel: v})
	}
	f.log.Debug("scatter: burst", "requested", count, "spawned", len(burst), "live", len(f.rings))
}

func (f *Field) Rings() []Ring { return f.rings }

// Update ages, moves and bounces every live ring.
func (f *Field) Update(dt float64) {
	if f == nil {
		return
	}
	live := f.rings[:0]
	for _, r := range f.rings {
		r.Age += dt
		if r.Age >= f.cfg.Lifetime {
			continue
		}
		r.Vel.Y = math.Min(f.cfg.SpeedLimit, r.Vel.Y+f.cfg.Gravity*dt)
		r.Vel.X = math.Min(f.cfg.SpeedLimit, r.Vel.X)
		r.Pos = r.Pos.Add(r.Vel.Mult(dt))
		f.bounce(&r, dt)
		live = append(live, r)
	}
	f.rings = live
}

func (f *Field) bounce(r *Ring, dt float64) {
	if f.world == nil {
		return
	}
	speed := r.Vel.Length()
	dir := cp.Vector{X: 0, Y: -1}
	if speed > 0 {
		dir = r.Vel.Mult(1 / speed)
	}
	hit, ok := f.world.Raycast(terrain.Ray{
		Origin:  r.Pos,
		Dir:     dir,
		MaxDist: speed*dt + f.cfg.Radius,
		Mask:    f.Mask,
	})
	if !ok {
		return
	}
	n := hit.Normal
	r.Pos = hit.Point.Add(n.Mult(f.cfg.Radius + f.cfg.Skin))
	reflected := r.Vel.Sub(n.Mult(2 * r.Vel.Dot(n)))
	reflected.X *= f.cfg.BounceX
	reflected.Y = math.Max(reflected.Y*f.cfg.BounceY, r.Vel.Y*f.cfg.BounceY*-0.5)
	r.Vel = reflected
}

// Collect hands every collectable ring overlapping bb to c and returns how
// many were taken.
func (f *Field) Collect(bb cp.BB, c Collector) int {
	if f == nil || c == nil || c.IsHit() {
		return 0
	}
	taken := 0
	live := f.rings[:0]
	for _, r := range f.rings {
		if r.Age >= f.cfg.CollectDelay && bb.Intersects(cp.NewBBForCircle(r.Pos, f.cfg.Radius)) {
			taken++
			continue
		}
		live = append(live, r)
	}
	f.rings = live
	if taken > 0 {
		c.AddRings(taken)
	}
	return taken
}
