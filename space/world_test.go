package space

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/controller"
)

const dt = 1.0 / 60

func flatWorld() *World {
	w := NewWorld(mgl64.Vec3{0, -9.81, 0})
	w.AddGround(mgl64.Vec2{-50, 0}, mgl64.Vec2{50, 0}, 0)
	return w
}

func TestRaycast(t *testing.T) {
	tests := []struct {
		name     string
		origin   mgl64.Vec3
		mask     uint32
		wantHit  bool
		wantDist float64
	}{
		{name: "ground below", origin: mgl64.Vec3{0, 2, 0}, mask: controller.DefaultGroundMask, wantHit: true, wantDist: 2},
		{name: "out of reach", origin: mgl64.Vec3{0, 4, 0}, mask: controller.DefaultGroundMask},
		{name: "masked out", origin: mgl64.Vec3{0, 2, 0}, mask: controller.CategoryCurling},
		{name: "past the edge", origin: mgl64.Vec3{60, 2, 0}, mask: controller.DefaultGroundMask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := flatWorld()
			res := w.Raycast(tt.origin, tt.origin.Sub(mgl64.Vec3{0, 3, 0}), tt.mask)
			if res.HasHit != tt.wantHit {
				t.Fatalf("hit = %t, want %t", res.HasHit, tt.wantHit)
			}
			if !tt.wantHit {
				return
			}
			if math.Abs(res.Distance-tt.wantDist) > 1e-6 {
				t.Fatalf("distance = %v, want %v", res.Distance, tt.wantDist)
			}
			if !near(res.Normal, mgl64.Vec3{0, 1, 0}, 1e-6) {
				t.Fatalf("normal = %v", res.Normal)
			}
			if res.Body != nil {
				t.Fatalf("static ground reported a body")
			}
		})
	}
}

func TestRaycastSkipsCharacter(t *testing.T) {
	w := flatWorld()
	ch := w.AddCharacter(mgl64.Vec2{0, 1}, 0.4, 1)

	res := w.Raycast(ch.Position(), ch.Position().Sub(mgl64.Vec3{0, 3, 0}), controller.DefaultGroundMask)
	if !res.HasHit || math.Abs(res.Distance-1) > 1e-6 {
		t.Fatalf("expected the ground 1 below, got %+v", res)
	}
}

func TestRaycastReportsCrate(t *testing.T) {
	w := flatWorld()
	crate := w.AddCrate(mgl64.Vec2{0, 0.5}, 2, 1, 5)

	res := w.Raycast(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -1, 0}, controller.DefaultGroundMask)
	if !res.HasHit || math.Abs(res.Distance-1) > 1e-6 {
		t.Fatalf("expected the crate top 1 below, got %+v", res)
	}
	if res.Body == nil || !res.Body.Valid() {
		t.Fatalf("expected a live crate on the hit")
	}

	w.RemoveCrate(crate)
	if crate.Valid() {
		t.Fatalf("removed crate still valid")
	}
	res = w.Raycast(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -1, 0}, controller.DefaultGroundMask)
	if res.Body != nil || math.Abs(res.Distance-2) > 1e-6 {
		t.Fatalf("expected the ground after removal, got %+v", res)
	}
}

func TestCrateTakesForce(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	crate := w.AddCrate(mgl64.Vec2{0, 0}, 1, 1, 2)

	crate.ApplyForce(mgl64.Vec3{0, -10, 0}, crate.Position())
	w.Step(dt)
	if got := crate.LinearVelocity().Y(); math.Abs(got-(-5*dt)) > 1e-9 {
		t.Fatalf("crate velocity = %v, want %v", got, -5*dt)
	}

	w.Step(dt)
	if got := crate.LinearVelocity().Y(); math.Abs(got-(-5*dt)) > 1e-9 {
		t.Fatalf("force carried over into the next step: %v", got)
	}
}

func TestBodyAdapter(t *testing.T) {
	w := NewWorld(mgl64.Vec3{})
	b := w.AddCharacter(mgl64.Vec2{1, 2}, 0.5, 2)

	if got := b.Position(); got != (mgl64.Vec3{1, 2, 0}) {
		t.Fatalf("position = %v", got)
	}
	b.SetPosition(mgl64.Vec3{3, 4, 9})
	if got := b.Position(); got != (mgl64.Vec3{3, 4, 0}) {
		t.Fatalf("position after set = %v", got)
	}

	b.SetLinearVelocity(mgl64.Vec3{1, -1, 7})
	if got := b.LinearVelocity(); got != (mgl64.Vec3{1, -1, 0}) {
		t.Fatalf("velocity = %v", got)
	}

	b.ApplyImpulse(mgl64.Vec3{0, 4, 0}, b.Position())
	if got := b.LinearVelocity().Y(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("velocity after impulse = %v, want 1", got)
	}

	b.SetAngularVelocity(mgl64.Vec3{5, 5, 0.5})
	if got := b.AngularVelocity(); got != (mgl64.Vec3{0, 0, 0.5}) {
		t.Fatalf("angular velocity = %v", got)
	}

	b.SetAngularVelocity(mgl64.Vec3{})
	b.ApplyTorque(mgl64.Vec3{3, 3, 1})
	b.ApplyTorque(mgl64.Vec3{0, 0, 1})
	if got := b.CP().Torque(); got != 2 {
		t.Fatalf("torque = %v, want 2", got)
	}
	w.Step(dt)
	if b.AngularVelocity().Z() <= 0 {
		t.Fatalf("torque did not spin the body")
	}
	// Positions integrate before velocities, so the angle moves a step later.
	w.Step(dt)
	if b.Orientation().Rotate(mgl64.Vec3{1, 0, 0}).Y() <= 0 {
		t.Fatalf("orientation does not follow the body angle: %v", b.Orientation())
	}
}

func newCharacter(t *testing.T, w *World, cfg controller.Config, at mgl64.Vec2, in controller.InputSource) (*controller.Controller, *Body) {
	t.Helper()
	body := w.AddCharacter(at, 0.4, cfg.Mass)
	cfg.Gravity = w.Gravity()
	ctrl, err := controller.New(body, w, in, cfg)
	if err != nil {
		t.Fatalf("controller.New: %v", err)
	}
	return ctrl, body
}

type holdInput struct{ sample controller.InputSample }

func (h *holdInput) Sample() controller.InputSample { return h.sample }

func TestCharacterHoversOverGround(t *testing.T) {
	w := flatWorld()
	cfg := controller.DefaultConfig()
	cfg.LookMode = controller.LookNone
	ctrl, body := newCharacter(t, w, cfg, mgl64.Vec2{0, 1.2}, &holdInput{})

	for i := 0; i < 180; i++ {
		ctrl.Tick(dt)
		w.Step(dt)
	}
	if d := math.Abs(body.Position().Y() - cfg.RideHeight); d > 0.02 {
		t.Fatalf("height error %v after 3s", d)
	}
	if !ctrl.State().Grounded {
		t.Fatalf("expected grounded")
	}
}

func TestCharacterWalksAndStaysUpright(t *testing.T) {
	w := flatWorld()
	cfg := controller.DefaultConfig()
	cfg.LookMode = controller.LookNone
	in := &holdInput{sample: controller.InputSample{Axis: mgl64.Vec2{1, 0}}}
	ctrl, body := newCharacter(t, w, cfg, mgl64.Vec2{0, 1}, in)

	body.CP().SetAngle(0.3)
	for i := 0; i < 120; i++ {
		ctrl.Tick(dt)
		w.Step(dt)
	}
	if vx := body.LinearVelocity().X(); math.Abs(vx-cfg.MaxSpeed) > 0.5 {
		t.Fatalf("walk speed %v, want about %v", vx, cfg.MaxSpeed)
	}
	if a := math.Abs(body.CP().Angle()); a > 0.05 {
		t.Fatalf("body still tilted by %v", a)
	}
}

func TestCharacterPushesCrateDown(t *testing.T) {
	w := NewWorld(mgl64.Vec3{0, -9.81, 0})
	crate := w.AddCrate(mgl64.Vec2{0, 0}, 4, 1, 2)
	cfg := controller.DefaultConfig()
	cfg.LookMode = controller.LookNone
	ctrl, _ := newCharacter(t, w, cfg, mgl64.Vec2{0, 1.5}, &holdInput{})

	// Crate falls freely; the reaction adds to its weight.
	ctrl.Tick(dt)
	w.Step(dt)
	if got, free := crate.LinearVelocity().Y(), -9.81*dt; got >= free {
		t.Fatalf("crate velocity %v, want faster than free fall %v", got, free)
	}
}

func near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}
