package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/common"
)

const axisEpsilon = 1e-6

// Upright steers the body toward a target orientation with a torque spring on
// the axis-angle error.
type Upright struct {
	Spring Spring
}

// UpdateTarget replaces target with the look rotation of lookDirection. A zero
// or vertical look direction leaves the previous target in place.
func (u Upright) UpdateTarget(target mgl64.Quat, lookDirection mgl64.Vec3) mgl64.Quat {
	if q, ok := LookRotation(lookDirection, common.WorldUp); ok {
		return q
	}
	return target
}

// Torque is the spring torque carrying current toward target, damped by the
// body's angular velocity.
func (u Upright) Torque(target, current mgl64.Quat, angularVelocity mgl64.Vec3) mgl64.Vec3 {
	axis, angle := ToAxisAngle(ShortestRotation(target, current))
	torque := axis.Mul(angle * u.Spring.Strength).Sub(angularVelocity.Mul(u.Spring.Damper))
	if !common.Finite(torque) {
		return mgl64.Vec3{}
	}
	return torque
}

// LookRotation builds the rotation whose +Z axis points along forward and
// whose +Y axis is as close to up as possible. ok is false when forward is
// zero or parallel to up.
func LookRotation(forward, up mgl64.Vec3) (mgl64.Quat, bool) {
	f := common.SafeNormalize(forward)
	if common.IsZero(f) {
		return mgl64.QuatIdent(), false
	}
	r := common.SafeNormalize(up.Cross(f))
	if common.IsZero(r) {
		return mgl64.QuatIdent(), false
	}
	u := f.Cross(r)
	basis := mgl64.Mat3FromCols(r, u, f)
	return mgl64.Mat4ToQuat(basis.Mat4()).Normalize(), true
}

// ShortestRotation returns the rotation that carries b onto a along the
// shorter arc. b is flipped onto a's hemisphere first, so the result never
// turns by more than pi.
func ShortestRotation(a, b mgl64.Quat) mgl64.Quat {
	a = a.Normalize()
	b = b.Normalize()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return a.Mul(b.Inverse()).Normalize()
}

// ToAxisAngle splits a unit quaternion into a unit axis and an angle in
// [0, 2pi]. Near the identity the axis is undefined and the zero vector is
// returned with the (tiny) angle.
func ToAxisAngle(q mgl64.Quat) (mgl64.Vec3, float64) {
	w := mgl64.Clamp(q.W, -1, 1)
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < axisEpsilon {
		return mgl64.Vec3{}, angle
	}
	return q.V.Mul(1 / s), angle
}
