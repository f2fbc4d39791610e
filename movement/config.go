package movement

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid movement config")

// Profile holds the physics constants that change between surface and
// underwater play. Speeds are in units per second, accelerations in units
// per second squared. Gravity is negative (world space is y-up).
type Profile struct {
	GroundAcceleration  float64 `yaml:"ground_acceleration"`
	GroundTopSpeed      float64 `yaml:"ground_top_speed"`
	Friction            float64 `yaml:"friction"`
	RollingFriction     float64 `yaml:"rolling_friction"`
	Deceleration        float64 `yaml:"deceleration"`
	RollingDeceleration float64 `yaml:"rolling_deceleration"`

	SlopeFactor                float64 `yaml:"slope_factor"`
	RollingUphillSlopeFactor   float64 `yaml:"rolling_uphill_slope_factor"`
	RollingDownhillSlopeFactor float64 `yaml:"rolling_downhill_slope_factor"`

	AirAcceleration      float64 `yaml:"air_acceleration"`
	JumpVelocity         float64 `yaml:"jump_velocity"`
	JumpReleaseThreshold float64 `yaml:"jump_release_threshold"`
	Gravity              float64 `yaml:"gravity"`
	TerminalVelocity     float64 `yaml:"terminal_velocity"`
	// AirDrag is the fraction of horizontal speed removed per tick while
	// the drag window applies.
	AirDrag float64 `yaml:"air_drag"`

	HitVelocity Vec2    `yaml:"hit_velocity"`
	HitGravity  float64 `yaml:"hit_gravity"`
}

type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Config is the full tuning set for a character.
type Config struct {
	Surface    Profile `yaml:"surface"`
	Underwater Profile `yaml:"underwater"`

	StandingHeight         float64 `yaml:"standing_height"`
	BallHeight             float64 `yaml:"ball_height"`
	StandingWidthHalf      float64 `yaml:"standing_width_half"`
	BallWidthHalf          float64 `yaml:"ball_width_half"`
	GroundRaycastDist      float64 `yaml:"ground_raycast_dist"`
	SideRaycastDist        float64 `yaml:"side_raycast_dist"`
	SideRaycastOffset      float64 `yaml:"side_raycast_offset"`
	LowCeilingClearance    float64 `yaml:"low_ceiling_clearance"`
	FallVelocityThreshold  float64 `yaml:"fall_velocity_threshold"`
	RollingMinSpeed        float64 `yaml:"rolling_min_speed"`
	UnrollThreshold        float64 `yaml:"unroll_threshold"`
	ControlLockTime        float64 `yaml:"control_lock_time"`
	SpeedLimit             float64 `yaml:"speed_limit"`
	AirRotationSpeed       float64 `yaml:"air_rotation_speed"`
	DragYMax               float64 `yaml:"drag_y_max"`
	DragXMin               float64 `yaml:"drag_x_min"`
	InvulnerabilityTime    float64 `yaml:"invulnerability_time"`
	SpringAngleThreshold   float64 `yaml:"spring_angle_threshold"`
	InputDeadzone          float64 `yaml:"input_deadzone"`
	VerticalInputThreshold float64 `yaml:"vertical_input_threshold"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Surface: Profile{
			GroundAcceleration:         168.75,
			GroundTopSpeed:             360,
			Friction:                   168.75,
			RollingFriction:            84.375,
			Deceleration:               1800,
			RollingDeceleration:        450,
			SlopeFactor:                450,
			RollingUphillSlopeFactor:   281.25,
			RollingDownhillSlopeFactor: 1125,
			AirAcceleration:            337.5,
			JumpVelocity:               390,
			JumpReleaseThreshold:       240,
			Gravity:                    -787.5,
			TerminalVelocity:           960,
			AirDrag:                    0.03125,
			HitVelocity:                Vec2{X: 120, Y: 240},
			HitGravity:                 -675,
		},
		Underwater: Profile{
			GroundAcceleration:         84.375,
			GroundTopSpeed:             180,
			Friction:                   84.375,
			RollingFriction:            42.1875,
			Deceleration:               900,
			RollingDeceleration:        450,
			SlopeFactor:                450,
			RollingUphillSlopeFactor:   281.25,
			RollingDownhillSlopeFactor: 1125,
			AirAcceleration:            168.75,
			JumpVelocity:               210,
			JumpReleaseThreshold:       120,
			Gravity:                    -225,
			TerminalVelocity:           960,
			AirDrag:                    0.03125,
			HitVelocity:                Vec2{X: 60, Y: 120},
			HitGravity:                 -337.5,
		},
		StandingHeight:         40,
		BallHeight:             30,
		StandingWidthHalf:      9,
		BallWidthHalf:          7,
		GroundRaycastDist:      36,
		SideRaycastDist:        10,
		SideRaycastOffset:      4,
		LowCeilingClearance:    4,
		FallVelocityThreshold:  150,
		RollingMinSpeed:        61.875,
		UnrollThreshold:        30,
		ControlLockTime:        0.5,
		SpeedLimit:             960,
		AirRotationSpeed:       180,
		DragYMax:               240,
		DragXMin:               7.5,
		InvulnerabilityTime:    2,
		SpringAngleThreshold:   45,
		InputDeadzone:          0.005,
		VerticalInputThreshold: 0.5,
	}
}

func (p Profile) validate(name string) error {
	switch {
	case p.GroundTopSpeed <= 0:
		return fmt.Errorf("%w: %s ground_top_speed must be positive", ErrInvalidConfig, name)
	case p.TerminalVelocity <= 0:
		return fmt.Errorf("%w: %s terminal_velocity must be positive", ErrInvalidConfig, name)
	case p.JumpVelocity <= 0:
		return fmt.Errorf("%w: %s jump_velocity must be positive", ErrInvalidConfig, name)
	case p.Gravity >= 0 || p.HitGravity >= 0:
		return fmt.Errorf("%w: %s gravity must point down", ErrInvalidConfig, name)
	case p.AirDrag < 0 || p.AirDrag >= 1:
		return fmt.Errorf("%w: %s air_drag %g outside [0,1)", ErrInvalidConfig, name, p.AirDrag)
	case p.GroundAcceleration < 0 || p.Friction < 0 || p.RollingFriction < 0 ||
		p.Deceleration < 0 || p.RollingDeceleration < 0 || p.AirAcceleration < 0:
		return fmt.Errorf("%w: %s accelerations must not be negative", ErrInvalidConfig, name)
	}
	return nil
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if err := c.Surface.validate("surface"); err != nil {
		return err
	}
	if err := c.Underwater.validate("underwater"); err != nil {
		return err
	}
	switch {
	case c.StandingHeight <= 0 || c.BallHeight <= 0:
		return fmt.Errorf("%w: heights must be positive", ErrInvalidConfig)
	case c.BallHeight > c.StandingHeight:
		return fmt.Errorf("%w: ball_height %g exceeds standing_height %g", ErrInvalidConfig, c.BallHeight, c.StandingHeight)
	case c.StandingWidthHalf <= 0 || c.BallWidthHalf <= 0:
		return fmt.Errorf("%w: sensor half widths must be positive", ErrInvalidConfig)
	case c.GroundRaycastDist <= c.StandingHeight/2:
		return fmt.Errorf("%w: ground_raycast_dist %g must reach past half the standing height", ErrInvalidConfig, c.GroundRaycastDist)
	case c.SideRaycastDist <= 0:
		return fmt.Errorf("%w: side_raycast_dist must be positive", ErrInvalidConfig)
	case c.SpeedLimit < c.Surface.GroundTopSpeed:
		return fmt.Errorf("%w: speed_limit %g below top speed", ErrInvalidConfig, c.SpeedLimit)
	case c.UnrollThreshold > c.RollingMinSpeed:
		return fmt.Errorf("%w: unroll_threshold above rolling_min_speed", ErrInvalidConfig)
	case c.InputDeadzone < 0 || c.VerticalInputThreshold <= 0:
		return fmt.Errorf("%w: input thresholds", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) profile(underwater bool) *Profile {
	if underwater {
		return &c.Underwater
	}
	return &c.Surface
}
