package controller

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/common"
)

// minAxis is the stick length under which the move input counts as released.
const minAxis = 0.01

// Controller drives one dynamic body like a floating character: a spring
// holds it above the ground, a goal velocity steers it, timers decide jumps
// and a torque spring keeps it upright.
type Controller struct {
	cfg    Config
	body   Body
	rays   Raycaster
	input  InputSource
	camera Camera

	sensor  GroundSensor
	height  HeightSpring
	move    Locomotion
	jump    JumpParams
	upright Upright

	state    CharacterState
	jumpHeld bool

	// restoreCCD is set while continuous collision is suspended for a jump
	// position correction.
	restoreCCD *bool

	// Debug logs ground and jump transitions.
	Debug bool
}

type Option func(*Controller)

// WithCamera remaps input relative to cam when the config asks for it.
func WithCamera(cam Camera) Option {
	return func(c *Controller) {
		c.camera = cam
	}
}

func WithDebug(debug bool) Option {
	return func(c *Controller) {
		c.Debug = debug
	}
}

// New binds a controller to body. The upright target starts at the body's
// current orientation.
func New(body Body, rays Raycaster, input InputSource, cfg Config, opts ...Option) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	if rays == nil {
		return nil, ErrNilRaycaster
	}
	if input == nil {
		return nil, ErrNilInput
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		body:  body,
		rays:  rays,
		input: input,
		state: newCharacterState(),
	}
	c.applyConfig(cfg)
	c.state.Jump.TimeSinceJumpPressed = cfg.JumpBuffer
	c.state.Jump.TimeSinceJump = cfg.LandingLockout
	c.state.UprightTarget = readOrientation(body)
	c.state.Orientation = c.state.UprightTarget

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) applyConfig(cfg Config) {
	c.cfg = cfg
	c.sensor = newGroundSensor(cfg)
	c.height = newHeightSpring(cfg)
	c.move = newLocomotion(cfg)
	c.jump = newJumpParams(cfg)
	c.upright = Upright{Spring: cfg.UprightSpring}
}

// SetConfig swaps the tuning without resetting persistent state.
func (c *Controller) SetConfig(cfg Config) error {
	if c == nil {
		return fmt.Errorf("controller: set config on nil controller")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.applyConfig(cfg)
	return nil
}

func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

func (c *Controller) SetCamera(cam Camera) {
	if c == nil {
		return
	}
	c.camera = cam
}

// State returns a copy of the character state as of the last tick. The ground
// body reference is cleared.
func (c *Controller) State() CharacterState {
	if c == nil {
		return CharacterState{}
	}
	return c.state.snapshot()
}

// Tick runs one simulation step. The order of the steps below is part of the
// control law: every step reads what the previous ones produced this tick and
// nothing is re-sampled mid-tick. A non-positive or non-finite delta is a
// no-op.
func (c *Controller) Tick(delta float64) {
	if c == nil || !(delta > 0) || math.IsInf(delta, 0) {
		return
	}
	c.restoreContinuousCollision()

	sample := c.sampleInput()
	c.state.MoveInput = c.moveDirection(sample.Axis)
	c.senseGround()
	c.updateGrounded()
	c.limitSlope()
	c.stepJump(sample, delta)
	prevGoal := c.stepLocomotion(delta)
	c.stepHeight()
	c.stepUpright(prevGoal)
}

// sampleInput reads the input source and the body once for this tick and
// edge-detects the jump button.
func (c *Controller) sampleInput() sampledInput {
	in := c.input.Sample()
	out := sampledInput{
		InputSample: in,
		pressed:     in.Jump && !c.jumpHeld,
	}
	c.jumpHeld = in.Jump

	s := &c.state
	s.Position = finiteOr(c.body.Position(), s.Position)
	s.LinearVelocity = finiteOr(c.body.LinearVelocity(), mgl64.Vec3{})
	s.AngularVelocity = finiteOr(c.body.AngularVelocity(), mgl64.Vec3{})
	s.Orientation = readOrientation(c.body)
	s.Jumped = false
	s.MoveForce = mgl64.Vec3{}
	s.HeightForce = mgl64.Vec3{}
	s.JumpForce = mgl64.Vec3{}
	s.UprightTorque = mgl64.Vec3{}
	return out
}

type sampledInput struct {
	InputSample
	pressed bool
}

// moveDirection maps the stick to a horizontal world direction of length 0 or
// 1, through the camera when camera-relative input is on.
func (c *Controller) moveDirection(axis mgl64.Vec2) mgl64.Vec3 {
	if axis.Len() < minAxis || math.IsNaN(axis.Len()) {
		return mgl64.Vec3{}
	}
	dir := mgl64.Vec3{axis.X(), 0, axis.Y()}
	if c.cfg.CameraRelative && c.camera != nil {
		right := c.camera.Right().Mul(axis.X())
		forward := c.camera.Forward().Mul(axis.Y())
		dir = right.Add(forward)
	}
	return common.SafeNormalize(common.Horizontal(dir))
}

func (c *Controller) senseGround() {
	c.state.GroundHit = c.sensor.Sense(c.rays, c.state.Position)
}

func (c *Controller) updateGrounded() {
	grounded := c.sensor.IsGrounded(c.state.GroundHit)
	if c.Debug && grounded != c.state.Grounded {
		log.Printf("controller: grounded=%t distance=%.3f slope=%.3f", grounded, c.state.GroundHit.Distance, c.state.GroundHit.Slope)
	}
	c.state.Grounded = grounded
}

// limitSlope removes the uphill part of the move input on slopes steeper than
// MaxSlopeAngle. A zero MaxSlopeAngle turns the limit off.
func (c *Controller) limitSlope() {
	s := &c.state
	hit := s.GroundHit
	if !s.Grounded || c.cfg.MaxSlopeAngle <= 0 || hit.Slope <= c.cfg.MaxSlopeAngle || common.IsZero(s.MoveInput) {
		return
	}
	uphill := common.SafeNormalize(common.Horizontal(hit.Normal)).Mul(-1)
	if common.IsZero(uphill) {
		return
	}
	if d := s.MoveInput.Dot(uphill); d > 0 {
		s.MoveInput = common.SafeNormalize(s.MoveInput.Sub(uphill.Mul(d)))
	}
}

func (c *Controller) stepJump(in sampledInput, delta float64) {
	s := &c.state
	out := c.jump.Update(&s.Jump, &s.MaintainHeight, JumpInput{
		Pressed:          in.pressed,
		Held:             in.Jump,
		Grounded:         s.Grounded,
		VerticalVelocity: s.LinearVelocity.Y(),
		Delta:            delta,
	})

	if out.ExtraGravity != 0 {
		s.JumpForce = c.height.GravityForce.Mul(out.ExtraGravity)
		c.body.ApplyForce(s.JumpForce, s.Position)
	}
	if out.Commit {
		c.commitJump()
	}
}

// commitJump zeroes vertical velocity so every jump reaches the same height,
// snaps a grounded body back to the ride height and fires the impulse.
func (c *Controller) commitJump() {
	s := &c.state
	s.Jumped = true

	v := s.LinearVelocity
	v[1] = 0
	c.body.SetLinearVelocity(v)

	at := s.Position
	if s.Grounded && s.GroundHit.HasHit {
		at[1] -= s.GroundHit.Distance - c.cfg.RideHeight
		c.correctPosition(at)
	}
	c.body.ApplyImpulse(common.WorldUp.Mul(c.cfg.JumpImpulse), at)

	if c.Debug {
		log.Printf("controller: jump committed grounded=%t distance=%.3f", s.Grounded, s.GroundHit.Distance)
	}
}

// correctPosition teleports the body with predictive collision off for the
// coming engine step. The previous setting comes back on the next tick.
func (c *Controller) correctPosition(p mgl64.Vec3) {
	if t, ok := c.body.(ContinuousCollisionToggler); ok {
		if c.restoreCCD == nil {
			prev := t.ContinuousCollision()
			c.restoreCCD = &prev
		}
		t.SetContinuousCollision(false)
	}
	c.body.SetPosition(p)
}

func (c *Controller) restoreContinuousCollision() {
	if c.restoreCCD == nil {
		return
	}
	if t, ok := c.body.(ContinuousCollisionToggler); ok {
		t.SetContinuousCollision(*c.restoreCCD)
	}
	c.restoreCCD = nil
}

// stepLocomotion returns the goal velocity from before this tick.
func (c *Controller) stepLocomotion(delta float64) mgl64.Vec3 {
	s := &c.state
	speedFactor := 1.0
	if !s.Grounded {
		speedFactor = c.cfg.AirSpeedFactor
	}

	prev := s.GoalVelocity
	goal, force := c.move.Step(prev, s.MoveInput, s.LinearVelocity, speedFactor, delta)
	s.GoalVelocity = goal
	s.MoveForce = force
	if !common.IsZero(force) {
		c.body.ApplyForce(force, s.Position.Add(common.WorldUp.Mul(c.cfg.LeanOffset)))
	}
	return prev
}

func (c *Controller) stepHeight() {
	s := &c.state
	if !s.Grounded || !s.MaintainHeight {
		return
	}
	s.HeightForce = c.height.apply(c.body, s.GroundHit, s.Position, s.LinearVelocity)
}

func (c *Controller) stepUpright(prevGoal mgl64.Vec3) {
	s := &c.state
	s.LookDirection = c.lookDirection(prevGoal)
	if c.cfg.LookMode != LookNone {
		s.UprightTarget = c.upright.UpdateTarget(s.UprightTarget, s.LookDirection)
	}
	s.UprightTorque = c.upright.Torque(s.UprightTarget, s.Orientation, s.AngularVelocity)
	if !common.IsZero(s.UprightTorque) {
		c.body.ApplyTorque(s.UprightTorque)
	}
}

func (c *Controller) lookDirection(prevGoal mgl64.Vec3) mgl64.Vec3 {
	s := &c.state
	switch c.cfg.LookMode {
	case LookMove:
		return s.MoveInput
	case LookVelocity:
		h := common.Horizontal(s.LinearVelocity)
		if h.Len() < c.cfg.LookVelocityThreshold {
			return mgl64.Vec3{}
		}
		return h
	case LookAcceleration:
		return common.Horizontal(s.GoalVelocity.Sub(prevGoal))
	default:
		return mgl64.Vec3{}
	}
}

func readOrientation(b Body) mgl64.Quat {
	q := b.Orientation()
	l := q.Len()
	if l < common.Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}

func finiteOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if common.Finite(v) {
		return v
	}
	return fallback
}
