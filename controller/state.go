package controller

import "github.com/go-gl/mathgl/mgl64"

// GroundHit is the ground sensor's result for the current tick. When HasHit is
// false every other field is zero. Body is only set for simulated bodies and
// must not be kept past the tick it was sensed in.
type GroundHit struct {
	HasHit   bool
	Distance float64
	Normal   mgl64.Vec3
	Point    mgl64.Vec3
	Slope    float64
	Body     GroundBody
}

type JumpTimers struct {
	TimeSinceJumpPressed float64
	TimeSinceUngrounded  float64
	TimeSinceJump        float64
	JumpReady            bool
	IsJumping            bool
}

// CharacterState is everything the controller owns for one character.
// Position, velocities and orientation are refreshed from the body at the
// start of every tick.
type CharacterState struct {
	Position        mgl64.Vec3
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Orientation     mgl64.Quat

	GroundHit GroundHit
	Grounded  bool

	MoveInput     mgl64.Vec3
	LookDirection mgl64.Vec3

	// Persistent integrator state.
	GoalVelocity   mgl64.Vec3
	Jump           JumpTimers
	UprightTarget  mgl64.Quat
	MaintainHeight bool

	// Outputs of the last tick, for debugging.
	MoveForce     mgl64.Vec3
	HeightForce   mgl64.Vec3
	JumpForce     mgl64.Vec3
	UprightTorque mgl64.Vec3
	Jumped        bool
}

func newCharacterState() CharacterState {
	return CharacterState{
		Orientation:    mgl64.QuatIdent(),
		UprightTarget:  mgl64.QuatIdent(),
		MaintainHeight: true,
		Jump: JumpTimers{
			JumpReady: true,
		},
	}
}

// snapshot strips references that are only valid within a tick.
func (s CharacterState) snapshot() CharacterState {
	s.GroundHit.Body = nil
	return s
}
