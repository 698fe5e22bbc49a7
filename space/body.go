package space

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

var zAxis = mgl64.Vec3{0, 0, 1}

// Body is a character body in the side view. Rotation is about world Z only;
// torque about other axes is dropped.
type Body struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
}

func (b *Body) CP() *cp.Body { return b.body }

func (b *Body) Radius() float64 { return b.radius }

func (b *Body) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, p.Y, 0}
}

func (b *Body) Orientation() mgl64.Quat {
	return mgl64.QuatRotate(b.body.Angle(), zAxis)
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, v.Y, 0}
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, b.body.AngularVelocity()}
}

func (b *Body) ApplyForce(force, worldPoint mgl64.Vec3) {
	b.body.ApplyForceAtWorldPoint(toVector(force), toVector(worldPoint))
}

func (b *Body) ApplyImpulse(impulse, worldPoint mgl64.Vec3) {
	b.body.ApplyImpulseAtWorldPoint(toVector(impulse), toVector(worldPoint))
}

func (b *Body) ApplyTorque(torque mgl64.Vec3) {
	b.body.SetTorque(b.body.Torque() + torque.Z())
}

func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.body.SetVelocity(v.X(), v.Y())
}

func (b *Body) SetAngularVelocity(v mgl64.Vec3) {
	b.body.SetAngularVelocity(v.Z())
}

func (b *Body) SetPosition(p mgl64.Vec3) {
	b.body.SetPosition(toVector(p))
}

// Crate is a dynamic box the character can stand on.
type Crate struct {
	body    *cp.Body
	shape   *cp.Shape
	removed bool
}

func (c *Crate) CP() *cp.Body { return c.body }

func (c *Crate) Valid() bool {
	return c != nil && c.body != nil && !c.removed
}

func (c *Crate) Position() mgl64.Vec3 {
	p := c.body.Position()
	return mgl64.Vec3{p.X, p.Y, 0}
}

func (c *Crate) LinearVelocity() mgl64.Vec3 {
	v := c.body.Velocity()
	return mgl64.Vec3{v.X, v.Y, 0}
}

func (c *Crate) ApplyForce(force, worldPoint mgl64.Vec3) {
	if !c.Valid() {
		return
	}
	c.body.ApplyForceAtWorldPoint(toVector(force), toVector(worldPoint))
}
