package movement

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
	"github.com/milk9111/spinrunner/logger"
	"github.com/milk9111/spinrunner/terrain"
)

// VelocityMode selects which launch components a spring applies to an
// airborne character.
type VelocityMode int

const (
	VelocityFull VelocityMode = iota
	VelocityVertical
	VelocityHorizontal
)

// ParseVelocityMode maps level names to a VelocityMode. Unknown names are
// treated as full launches.
func ParseVelocityMode(s string) VelocityMode {
	switch s {
	case "vertical":
		return VelocityVertical
	case "horizontal":
		return VelocityHorizontal
	default:
		return VelocityFull
	}
}

// hitVerticalTolerance is the |dx|/|delta| ratio under which a hit source
// counts as directly above or below the character.
const hitVerticalTolerance = 0.05

// Input is the per-tick control state.
type Input struct {
	Move cp.Vector
	Jump bool
}

// Character owns the pose, velocity and motion flags of one player
// character and advances them with Tick.
type Character struct {
	cfg     Config
	terrain terrain.Querier
	log     *slog.Logger

	anim      AnimationSink
	platforms PlatformNotifier
	scatter   RingScatterer

	state moveState
	phase Phase

	pos         cp.Vector
	facing      float64
	renderAngle float64

	velocity    cp.Vector
	groundSpeed float64
	contact     GroundContact
	mode        GroundMode

	grounded    bool
	rolling     bool
	jumped      bool
	isHit       bool
	underwater  bool
	lowCeiling  bool
	lookingUp   bool
	lookingDown bool
	braking     bool
	springing   bool
	springAlt   bool

	controlLock  float64
	invulnerable float64
	rings        int
	layer        uint

	input       Input
	prevJump    bool
	jumpPressed bool

	waterLevel   float64
	waterEnabled bool

	platformDelta cp.Vector
}

// NewCharacter validates cfg and returns an airborne character at pos.
func NewCharacter(cfg Config, world terrain.Querier, pos cp.Vector) (*Character, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Character{
		cfg:     cfg,
		terrain: world,
		log:     logger.L(),
		state:   stateAirborne,
		phase:   PhaseFell,
		pos:     pos,
		facing:  1,
		layer:   terrain.LayerA,
	}
	return c, nil
}

func (c *Character) SetLogger(l *slog.Logger) {
	if c == nil || l == nil {
		return
	}
	c.log = l
}

func (c *Character) SetAnimationSink(s AnimationSink) { c.anim = s }
func (c *Character) SetPlatformNotifier(n PlatformNotifier) { c.platforms = n }
func (c *Character) SetRingScatterer(s RingScatterer) { c.scatter = s }

// SetConfig swaps the tuning between ticks.
func (c *Character) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("movement: set config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *Character) Config() Config { return c.cfg }

// SetInput records the control state consumed by the next Tick. Axes are
// clamped to [-1, 1].
func (c *Character) SetInput(move cp.Vector, jumpHeld bool) {
	if c == nil {
		return
	}
	c.input = Input{
		Move: cp.Vector{X: sanitizeAxis(move.X), Y: sanitizeAxis(move.Y)},
		Jump: jumpHeld,
	}
}

func sanitizeAxis(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return common.Clamp(v, -1, 1)
}

// SetCollisionLayer selects which of the A/B terrain layers the character
// collides with. The common layer is always included.
func (c *Character) SetCollisionLayer(layer uint) {
	if c == nil || layer == 0 {
		return
	}
	if layer != c.layer {
		c.log.Debug("movement: collision layer", "from", c.layer, "to", layer)
	}
	c.layer = layer
}

func (c *Character) CollisionLayer() uint { return c.layer }

func (c *Character) mask() uint {
	return terrain.LayerCommon | c.layer
}

// SetHorizontalControlLock suppresses player-directed horizontal
// acceleration for duration seconds. With extendOnly the lock is only
// replaced when duration exceeds the time remaining.
func (c *Character) SetHorizontalControlLock(duration float64, extendOnly bool) {
	if c == nil || math.IsNaN(duration) {
		return
	}
	if extendOnly && duration <= c.controlLock {
		return
	}
	c.controlLock = math.Max(0, duration)
}

// SetHitState knocks the character away from source. Hits are ignored
// while already hit or invulnerable. With appliesDamage all held rings are
// scattered and lost.
func (c *Character) SetHitState(source cp.Vector, appliesDamage bool) {
	if c == nil || c.isHit || c.invulnerable > 0 {
		return
	}
	p := c.profile()
	delta := c.pos.Sub(source)
	dir := common.Sign(delta.X)
	if math.Abs(delta.X) <= hitVerticalTolerance*delta.Length() {
		dir = -c.facing
	}

	c.rolling = false
	c.jumped = false
	c.springing = false
	c.groundSpeed = 0
	c.isHit = true
	c.velocity = cp.Vector{X: p.HitVelocity.X * dir, Y: p.HitVelocity.Y}
	c.setState(stateAirborne)

	if appliesDamage {
		if c.rings > 0 {
			if c.scatter != nil {
				c.scatter.Scatter(c.rings, c.pos, c.facing)
			}
			c.rings = 0
		} else {
			c.log.Debug("movement: damaging hit without rings")
		}
	}
}

// SetSpringState launches the character. A grounded character only leaves
// the ground when forced or when launch points within the configured angle
// of the surface normal; otherwise the launch speed is redirected along the
// surface.
func (c *Character) SetSpringState(launch cp.Vector, forceAirborne bool, mode VelocityMode, lockTime float64, useAltAnim bool) {
	if c == nil {
		return
	}
	speed := launch.Length()
	if speed == 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return
	}
	if lockTime > 0 {
		c.SetHorizontalControlLock(lockTime, true)
	}

	if c.grounded && !forceAirborne {
		normal := common.AngleToNormal(c.contact.Angle)
		threshold := math.Cos(c.cfg.SpringAngleThreshold * common.Deg2Rad)
		if launch.Dot(normal)/speed < threshold {
			tangent := common.Tangent(c.contact.Angle)
			c.groundSpeed = math.Min(speed, c.cfg.SpeedLimit) * common.Sign(launch.Dot(tangent))
			c.velocity = tangent.Mult(c.groundSpeed)
			c.facing = common.Sign(c.groundSpeed)
			return
		}
	}

	switch mode {
	case VelocityVertical:
		c.velocity.Y = launch.Y
	case VelocityHorizontal:
		c.velocity.X = launch.X
		if launch.X != 0 {
			c.facing = common.Sign(launch.X)
		}
	default:
		c.velocity = launch
	}
	c.velocity.X = common.Clamp(c.velocity.X, -c.cfg.SpeedLimit, c.cfg.SpeedLimit)
	c.velocity.Y = common.Clamp(c.velocity.Y, -c.cfg.SpeedLimit, c.cfg.SpeedLimit)
	c.groundSpeed = 0
	c.rolling = false
	c.jumped = false
	c.springing = true
	c.springAlt = useAltAnim
	c.setState(stateAirborne)
}

// SetWaterLevel sets the world height below which the underwater profile
// applies.
func (c *Character) SetWaterLevel(y float64, enabled bool) {
	if c == nil {
		return
	}
	c.waterLevel = y
	c.waterEnabled = enabled
}

// AddRings adds collected rings. Collection is ignored while hit.
func (c *Character) AddRings(n int) {
	if c == nil || c.isHit || n <= 0 {
		return
	}
	c.rings += n
}

// AddPlatformMovement accumulates a moving platform displacement. The sum
// is applied once at the start of the next Tick and then cleared.
func (c *Character) AddPlatformMovement(delta cp.Vector) {
	if c == nil {
		return
	}
	c.platformDelta = c.platformDelta.Add(delta)
}

// ResetMovement clears velocity, motion flags and timers. Position, rings
// and collision layer are kept.
func (c *Character) ResetMovement() {
	if c == nil {
		return
	}
	c.velocity = cp.Vector{}
	c.groundSpeed = 0
	c.rolling = false
	c.jumped = false
	c.isHit = false
	c.springing = false
	c.springAlt = false
	c.braking = false
	c.controlLock = 0
	c.invulnerable = 0
	c.renderAngle = 0
	c.platformDelta = cp.Vector{}
	c.prevJump = c.input.Jump
	c.setState(stateAirborne)
	c.mode = Floor
	c.contact = GroundContact{}
}

// Spawn resets movement, moves the character to pos and attaches it to any
// floor within landing range.
func (c *Character) Spawn(pos cp.Vector) {
	if c == nil {
		return
	}
	c.ResetMovement()
	c.pos = pos
	floor := c.Sense(Floor, c.widthHalf(), false)
	if floor.Valid && c.pos.Y <= floor.Point.Y+c.cfg.StandingHeight/2 {
		c.attach(floor, Floor, 0)
	}
	c.phase = c.Phase()
}

// Sense runs the ground sensor pair at the current position.
func (c *Character) Sense(mode GroundMode, widthHalf float64, ceilingCheck bool) GroundContact {
	r := GroundResolver{Terrain: c.terrain, RayDist: c.cfg.GroundRaycastDist, Mask: c.mask()}
	return r.Sense(c.pos, mode, widthHalf, ceilingCheck)
}

func (c *Character) profile() *Profile {
	return c.cfg.profile(c.underwater)
}

func (c *Character) ball() bool {
	return c.rolling || c.jumped
}

func (c *Character) heightHalf() float64 {
	if c.ball() {
		return c.cfg.BallHeight / 2
	}
	return c.cfg.StandingHeight / 2
}

func (c *Character) widthHalf() float64 {
	if c.ball() {
		return c.cfg.BallWidthHalf
	}
	return c.cfg.StandingWidthHalf
}

func (c *Character) rollOffset() float64 {
	return (c.cfg.StandingHeight - c.cfg.BallHeight) / 2
}

func (c *Character) Position() cp.Vector { return c.pos }
func (c *Character) SetPosition(pos cp.Vector) { c.pos = pos }
func (c *Character) Velocity() cp.Vector { return c.velocity }
func (c *Character) GroundSpeed() float64 { return c.groundSpeed }
func (c *Character) Grounded() bool { return c.grounded }
func (c *Character) Rolling() bool { return c.rolling }
func (c *Character) Jumped() bool { return c.jumped }
func (c *Character) IsHit() bool { return c.isHit }
func (c *Character) IsInvulnerable() bool { return c.invulnerable > 0 }
func (c *Character) Rings() int { return c.rings }
func (c *Character) FacingDirection() float64 { return c.facing }
func (c *Character) LookingUp() bool { return c.lookingUp }
func (c *Character) LookingDown() bool { return c.lookingDown }
func (c *Character) Underwater() bool { return c.underwater }
func (c *Character) LowCeiling() bool { return c.lowCeiling }
func (c *Character) Mode() GroundMode { return c.mode }
func (c *Character) Contact() GroundContact { return c.contact }
func (c *Character) RenderAngle() float64 { return c.renderAngle }
func (c *Character) ControlLocked() bool { return c.controlLock > 0 }

func (c *Character) ControlLockRemaining() float64 { return c.controlLock }
func (c *Character) InvulnerabilityRemaining() float64 { return c.invulnerable }

// SnappedRenderAngle is the render angle rounded to the nearest 45 degrees.
func (c *Character) SnappedRenderAngle() float64 {
	return common.SnapAngle(c.renderAngle)
}

// WidthHalf and HeightHalf describe the current collision profile.
func (c *Character) WidthHalf() float64 { return c.widthHalf() }
func (c *Character) HeightHalf() float64 { return c.heightHalf() }
