package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/common"
)

// Locomotion turns a unit move direction into a horizontal force. It chases a
// rate-limited goal velocity and pushes the body toward it with a bounded
// force.
type Locomotion struct {
	MaxSpeed     float64
	Acceleration float64
	MaxForce     float64
	// DotEdge0/1 shape how acceleration and force fall off as the input turns
	// against the current goal velocity.
	DotEdge0   float64
	DotEdge1   float64
	ForceScale mgl64.Vec3
	Mass       float64
}

func newLocomotion(cfg Config) Locomotion {
	return Locomotion{
		MaxSpeed:     cfg.MaxSpeed,
		Acceleration: cfg.Acceleration,
		MaxForce:     cfg.MaxForce,
		DotEdge0:     cfg.AccelDotEdge0,
		DotEdge1:     cfg.AccelDotEdge1,
		ForceScale:   cfg.ForceScale,
		Mass:         cfg.Mass,
	}
}

// Step advances goal toward input*MaxSpeed*speedFactor and returns the new
// goal velocity and the force to apply. ForceScale masks the needed
// acceleration before it is clamped to MaxForce, so a masked axis never eats
// into the force budget of the others. A non-positive delta leaves the goal
// untouched and returns no force.
func (l Locomotion) Step(goal, input, currentVelocity mgl64.Vec3, speedFactor, delta float64) (mgl64.Vec3, mgl64.Vec3) {
	if !(delta > 0) {
		return goal, mgl64.Vec3{}
	}
	input = common.Horizontal(input)
	goal = common.Horizontal(goal)

	velDot := common.SafeNormalize(input).Dot(common.SafeNormalize(goal))
	dotFactor := common.Smoothstep(l.DotEdge0, l.DotEdge1, velDot)

	accel := l.Acceleration * dotFactor
	target := input.Mul(l.MaxSpeed * speedFactor)
	next := common.MoveTowards(goal, target, accel*delta)
	if !common.Finite(next) {
		next = mgl64.Vec3{}
	}

	neededAccel := scaleVec(next.Sub(currentVelocity).Mul(1/delta), l.ForceScale)
	neededAccel = common.ClampMagnitude(neededAccel, l.MaxForce*dotFactor)
	force := neededAccel.Mul(l.Mass)
	if !common.Finite(force) {
		force = mgl64.Vec3{}
	}
	return next, force
}

func scaleVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
