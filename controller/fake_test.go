package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// fakeBody is a point mass with a scalar moment of inertia, integrated with
// semi-implicit Euler. Forces and torques accumulate until step.
type fakeBody struct {
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	angVel  mgl64.Vec3
	rot     mgl64.Quat
	mass    float64
	inertia float64
	gravity mgl64.Vec3

	force  mgl64.Vec3
	torque mgl64.Vec3

	ccd         bool
	ccdAtStep   []bool
	forceCalls  int
	impulses    []mgl64.Vec3
	setPosCalls int
}

func newFakeBody(pos mgl64.Vec3) *fakeBody {
	return &fakeBody{
		pos:     pos,
		rot:     mgl64.QuatIdent(),
		mass:    1,
		inertia: 1,
		gravity: mgl64.Vec3{0, -9.81, 0},
		ccd:     true,
	}
}

func (b *fakeBody) Position() mgl64.Vec3        { return b.pos }
func (b *fakeBody) Orientation() mgl64.Quat     { return b.rot }
func (b *fakeBody) LinearVelocity() mgl64.Vec3  { return b.vel }
func (b *fakeBody) AngularVelocity() mgl64.Vec3 { return b.angVel }

func (b *fakeBody) ApplyForce(force, worldPoint mgl64.Vec3) {
	b.forceCalls++
	b.force = b.force.Add(force)
}

func (b *fakeBody) ApplyImpulse(impulse, worldPoint mgl64.Vec3) {
	b.impulses = append(b.impulses, impulse)
	b.vel = b.vel.Add(impulse.Mul(1 / b.mass))
}

func (b *fakeBody) ApplyTorque(torque mgl64.Vec3)   { b.torque = b.torque.Add(torque) }
func (b *fakeBody) SetLinearVelocity(v mgl64.Vec3)  { b.vel = v }
func (b *fakeBody) SetAngularVelocity(v mgl64.Vec3) { b.angVel = v }
func (b *fakeBody) SetPosition(p mgl64.Vec3)        { b.setPosCalls++; b.pos = p }
func (b *fakeBody) ContinuousCollision() bool       { return b.ccd }
func (b *fakeBody) SetContinuousCollision(on bool)  { b.ccd = on }

func (b *fakeBody) step(dt float64) {
	b.ccdAtStep = append(b.ccdAtStep, b.ccd)

	acc := b.gravity.Add(b.force.Mul(1 / b.mass))
	b.vel = b.vel.Add(acc.Mul(dt))
	b.pos = b.pos.Add(b.vel.Mul(dt))

	b.angVel = b.angVel.Add(b.torque.Mul(dt / b.inertia))
	spin := mgl64.Quat{W: 0, V: b.angVel}.Mul(b.rot).Scale(0.5 * dt)
	b.rot = b.rot.Add(spin).Normalize()

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// fakeGroundBody is a dynamic body under the character.
type fakeGroundBody struct {
	alive  bool
	vel    mgl64.Vec3
	forces []mgl64.Vec3
	points []mgl64.Vec3
}

func (g *fakeGroundBody) Valid() bool                { return g.alive }
func (g *fakeGroundBody) LinearVelocity() mgl64.Vec3 { return g.vel }
func (g *fakeGroundBody) ApplyForce(force, worldPoint mgl64.Vec3) {
	g.forces = append(g.forces, force)
	g.points = append(g.points, worldPoint)
}

// flatGround is an infinite plane at height y.
type flatGround struct {
	y        float64
	normal   mgl64.Vec3
	category uint32
	body     GroundBody
	casts    int
	lastMask uint32
}

func newFlatGround(y float64) *flatGround {
	return &flatGround{y: y, normal: mgl64.Vec3{0, 1, 0}, category: CategoryGround}
}

func (g *flatGround) Raycast(origin, destination mgl64.Vec3, mask uint32) RaycastResult {
	g.casts++
	g.lastMask = mask
	if mask&g.category == 0 {
		return RaycastResult{}
	}
	if origin.Y() < g.y || destination.Y() > g.y {
		return RaycastResult{}
	}
	d := origin.Y() - g.y
	point := mgl64.Vec3{origin.X(), g.y, origin.Z()}
	return RaycastResult{
		HasHit:   true,
		Distance: d,
		Normal:   g.normal,
		Point:    point,
		Body:     g.body,
	}
}

// scriptInput replays a fixed sample until changed.
type scriptInput struct {
	sample InputSample
	calls  int
}

func (s *scriptInput) Sample() InputSample {
	s.calls++
	return s.sample
}

type fixedCamera struct {
	forward mgl64.Vec3
	right   mgl64.Vec3
}

func (c fixedCamera) Forward() mgl64.Vec3 { return c.forward }
func (c fixedCamera) Right() mgl64.Vec3   { return c.right }

type rig struct {
	ctrl   *Controller
	body   *fakeBody
	ground *flatGround
	input  *scriptInput
}

func newRig(cfg Config, start mgl64.Vec3, opts ...Option) (*rig, error) {
	body := newFakeBody(start)
	body.mass = cfg.Mass
	body.gravity = cfg.Gravity
	ground := newFlatGround(0)
	input := &scriptInput{}
	ctrl, err := New(body, ground, input, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &rig{ctrl: ctrl, body: body, ground: ground, input: input}, nil
}

func (r *rig) run(ticks int, dt float64) {
	for i := 0; i < ticks; i++ {
		r.ctrl.Tick(dt)
		r.body.step(dt)
	}
}

// near compares by absolute distance. mgl64's ApproxEqualThreshold is relative
// per component and rejects tiny errors against an exact zero.
func near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}

func nearQuat(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(a.W-b.W) < eps && near(a.V, b.V, eps)
}
