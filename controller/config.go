package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilBody       = errors.New("controller: body is nil")
	ErrNilRaycaster  = errors.New("controller: raycaster is nil")
	ErrNilInput      = errors.New("controller: input source is nil")
	ErrInvalidConfig = errors.New("controller: invalid config")
)

// LookMode selects where the upright target's facing comes from.
type LookMode int

const (
	LookMove LookMode = iota
	LookVelocity
	LookAcceleration
	LookNone
)

var lookModeNames = map[LookMode]string{
	LookMove:         "move",
	LookVelocity:     "velocity",
	LookAcceleration: "acceleration",
	LookNone:         "none",
}

func (m LookMode) String() string {
	if s, ok := lookModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("LookMode(%d)", int(m))
}

// ParseLookMode accepts the names produced by String. Empty means LookMove.
func ParseLookMode(s string) (LookMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LookMove, nil
	}
	for m, name := range lookModeNames {
		if name == s {
			return m, nil
		}
	}
	return LookMove, fmt.Errorf("controller: unknown look mode %q", s)
}

// Spring is a stiffness/damping pair. The two are tuned independently.
type Spring struct {
	Strength float64
	Damper   float64
}

// Config holds every externally tunable constant of the controller.
type Config struct {
	Mass    float64
	Gravity mgl64.Vec3

	// Ground sensing.
	RideHeight     float64
	ProbeLength    float64
	GroundedFactor float64
	GroundMask     uint32
	MaxSlopeAngle  float64

	// Height spring.
	HeightSpring   Spring
	GroundFeedback float64

	// Locomotion.
	MaxSpeed       float64
	Acceleration   float64
	MaxForce       float64
	AccelDotEdge0  float64
	AccelDotEdge1  float64
	ForceScale     mgl64.Vec3
	LeanOffset     float64
	AirSpeedFactor float64

	// Jumping.
	JumpImpulse       float64
	JumpBuffer        float64
	CoyoteTime        float64
	RiseGravityFactor float64
	LowJumpFactor     float64
	FallGravityFactor float64
	LandingLockout    float64

	// Orientation.
	UprightSpring         Spring
	LookMode              LookMode
	LookVelocityThreshold float64

	CameraRelative bool
}

// DefaultConfig returns the stock tuning of the player character.
func DefaultConfig() Config {
	return Config{
		Mass:    1,
		Gravity: mgl64.Vec3{0, -9.81, 0},

		RideHeight:     1.0,
		ProbeLength:    3.0,
		GroundedFactor: 1.3,
		GroundMask:     DefaultGroundMask,
		MaxSlopeAngle:  0.8,

		HeightSpring:   Spring{Strength: 200, Damper: 10},
		GroundFeedback: 0.8,

		MaxSpeed:       10,
		Acceleration:   200,
		MaxForce:       150,
		AccelDotEdge0:  1.5,
		AccelDotEdge1:  1.0,
		ForceScale:     mgl64.Vec3{1, 0, 1},
		LeanOffset:     0,
		AirSpeedFactor: 1,

		JumpImpulse:       16,
		JumpBuffer:        0.15,
		CoyoteTime:        0.25,
		RiseGravityFactor: 5,
		LowJumpFactor:     2.5,
		FallGravityFactor: 10,
		LandingLockout:    0.2,

		UprightSpring:         Spring{Strength: 40, Damper: 5},
		LookMode:              LookMove,
		LookVelocityThreshold: 0.1,

		CameraRelative: false,
	}
}

// GroundedThreshold is the ray distance under which the character counts as
// grounded.
func (c Config) GroundedThreshold() float64 {
	return c.RideHeight * c.GroundedFactor
}

// Validate reports every out-of-range field. The returned error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %v", name, v))
		}
	}

	positive("mass", c.Mass)
	positive("ride_height", c.RideHeight)
	positive("probe_length", c.ProbeLength)
	if c.GroundedFactor < 1 {
		errs = append(errs, fmt.Errorf("grounded_factor must be >= 1, got %v", c.GroundedFactor))
	}
	if c.ProbeLength < c.GroundedThreshold() {
		errs = append(errs, fmt.Errorf("probe_length %v is shorter than the grounded threshold %v", c.ProbeLength, c.GroundedThreshold()))
	}
	if c.GroundMask == 0 {
		errs = append(errs, errors.New("ground_mask must select at least one category"))
	}
	nonNegative("max_slope_angle", c.MaxSlopeAngle)

	nonNegative("height_spring.strength", c.HeightSpring.Strength)
	nonNegative("height_spring.damper", c.HeightSpring.Damper)
	if c.GroundFeedback < 0 || c.GroundFeedback > 1 {
		errs = append(errs, fmt.Errorf("ground_feedback must be in [0,1], got %v", c.GroundFeedback))
	}

	nonNegative("max_speed", c.MaxSpeed)
	nonNegative("acceleration", c.Acceleration)
	nonNegative("max_force", c.MaxForce)
	nonNegative("air_speed_factor", c.AirSpeedFactor)

	nonNegative("jump_impulse", c.JumpImpulse)
	nonNegative("jump_buffer", c.JumpBuffer)
	nonNegative("coyote_time", c.CoyoteTime)
	nonNegative("rise_gravity_factor", c.RiseGravityFactor)
	nonNegative("low_jump_factor", c.LowJumpFactor)
	nonNegative("fall_gravity_factor", c.FallGravityFactor)
	nonNegative("landing_lockout", c.LandingLockout)

	nonNegative("upright_spring.strength", c.UprightSpring.Strength)
	nonNegative("upright_spring.damper", c.UprightSpring.Damper)
	nonNegative("look_velocity_threshold", c.LookVelocityThreshold)
	if _, ok := lookModeNames[c.LookMode]; !ok {
		errs = append(errs, fmt.Errorf("look_mode %d is not defined", int(c.LookMode)))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
