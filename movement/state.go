package movement

// moveState is implemented by the grounded and airborne states.
type moveState interface {
	Name() string
	Enter(c *Character)
	Update(c *Character, dt float64)
}

// singletons for each state to avoid allocating on every transition
var (
	stateGrounded moveState = &groundedState{}
	stateAirborne moveState = &airborneState{}
)

type groundedState struct{}

type airborneState struct{}

func (groundedState) Name() string { return "grounded" }

// Enter handles landing: jump, roll and spring flags end, and a hit
// character loses its horizontal speed and becomes invulnerable.
func (groundedState) Enter(c *Character) {
	c.jumped = false
	c.rolling = false
	c.springing = false
	c.springAlt = false
	if c.isHit {
		c.isHit = false
		c.groundSpeed = 0
		c.velocity.X = 0
		c.invulnerable = c.cfg.InvulnerabilityTime
	}
}

func (groundedState) Update(c *Character, dt float64) {
	c.updateGrounded(dt)
}

func (airborneState) Name() string { return "airborne" }
func (airborneState) Enter(c *Character) {
	c.mode = Floor
	c.contact = GroundContact{}
	c.lowCeiling = false
	c.lookingUp = false
	c.lookingDown = false
}

func (airborneState) Update(c *Character, dt float64) {
	c.updateAirborne(dt)
}

// setState switches states and calls Enter.
func (c *Character) setState(s moveState) {
	if c.state == s {
		return
	}
	c.state = s
	c.grounded = s == stateGrounded
	s.Enter(c)
}

// Phase is the externally visible locomotion state.
type Phase string

const (
	PhaseGrounded Phase = "grounded"
	PhaseRolling  Phase = "rolling"
	PhaseJumped   Phase = "jumped"
	PhaseFell     Phase = "fell"
	PhaseHit      Phase = "hit"
	PhaseSpring   Phase = "spring"
)

func (c *Character) Phase() Phase {
	switch {
	case c.grounded && c.rolling:
		return PhaseRolling
	case c.grounded:
		return PhaseGrounded
	case c.isHit:
		return PhaseHit
	case c.springing:
		return PhaseSpring
	case c.jumped:
		return PhaseJumped
	default:
		return PhaseFell
	}
}

func (c *Character) logPhase() {
	next := c.Phase()
	if next == c.phase {
		return
	}
	c.log.Debug("movement: phase change", "from", string(c.phase), "to", string(next), "mode", c.mode.String())
	c.phase = next
}
