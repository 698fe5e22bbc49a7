package controller

import "github.com/go-gl/mathgl/mgl64"

// Collision categories used to filter the ground ray.
const (
	CategoryPlayer  uint32 = 1 << iota
	CategoryGround
	CategoryCurling
	CategoryNet
	CategoryEnemies
)

// DefaultGroundMask is what the character treats as ground.
const DefaultGroundMask = CategoryGround | CategoryCurling

// Body is the physics body the controller drives. The controller only reads
// kinematic state and writes forces, impulses and velocities through it.
type Body interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
	LinearVelocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3

	ApplyForce(force, worldPoint mgl64.Vec3)
	ApplyImpulse(impulse, worldPoint mgl64.Vec3)
	ApplyTorque(torque mgl64.Vec3)
	SetLinearVelocity(v mgl64.Vec3)
	SetAngularVelocity(v mgl64.Vec3)
	SetPosition(p mgl64.Vec3)
}

// ContinuousCollisionToggler is implemented by bodies whose engine supports
// predictive (swept) collision stepping. The jump position correction turns it
// off for one write and restores the previous value.
type ContinuousCollisionToggler interface {
	ContinuousCollision() bool
	SetContinuousCollision(enabled bool)
}

// GroundBody is a simulated body struck by the ground ray. It is only valid
// for the tick it was sensed in.
type GroundBody interface {
	// Valid reports whether the body still exists in the simulation.
	Valid() bool
	LinearVelocity() mgl64.Vec3
	ApplyForce(force, worldPoint mgl64.Vec3)
}

// RaycastResult is the answer of a Raycaster. Body is nil for static geometry.
type RaycastResult struct {
	HasHit   bool
	Distance float64
	Normal   mgl64.Vec3
	Point    mgl64.Vec3
	Body     GroundBody
}

type Raycaster interface {
	Raycast(origin, destination mgl64.Vec3, mask uint32) RaycastResult
}

// InputSample is one tick of player input. Axis is already deadzone filtered;
// X is strafe and Y is forward. Jump is the level of the jump button.
type InputSample struct {
	Axis mgl64.Vec2
	Jump bool
}

type InputSource interface {
	Sample() InputSample
}

// Camera supplies the reference frame for camera-relative input.
type Camera interface {
	Forward() mgl64.Vec3
	Right() mgl64.Vec3
}
