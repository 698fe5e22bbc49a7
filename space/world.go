package space

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/powder/controller"
)

// World owns a Chipmunk space viewed from the side: world X and Y map onto
// the space's X and Y and world Z is dropped.
type World struct {
	space   *cp.Space
	gravity mgl64.Vec3

	crates map[*cp.Body]*Crate
}

// NewWorld creates an empty space. Only the X and Y components of gravity are
// used.
func NewWorld(gravity mgl64.Vec3) *World {
	s := cp.NewSpace()
	s.Iterations = 20
	s.SetGravity(toVector(gravity))
	return &World{
		space:   s,
		gravity: mgl64.Vec3{gravity.X(), gravity.Y(), 0},
		crates:  make(map[*cp.Body]*Crate),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Gravity() mgl64.Vec3 {
	if w == nil {
		return mgl64.Vec3{}
	}
	return w.gravity
}

// AddGround adds a static segment from a to b.
func (w *World) AddGround(a, b mgl64.Vec2, radius float64) *cp.Shape {
	if w == nil || w.space == nil {
		return nil
	}
	shape := cp.NewSegment(w.space.StaticBody, cp.Vector{X: a.X(), Y: a.Y()}, cp.Vector{X: b.X(), Y: b.Y()}, radius)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.NewShapeFilter(0, uint(controller.CategoryGround), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	return shape
}

// AddCrate adds a dynamic box centered at pos. Characters riding it push it
// down through the height spring's reaction force.
func (w *World) AddCrate(pos mgl64.Vec2, width, height, mass float64) *Crate {
	if w == nil || w.space == nil || width <= 0 || height <= 0 || mass <= 0 {
		return nil
	}
	body := w.space.AddBody(cp.NewBody(mass, cp.MomentForBox(mass, width, height)))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0.7)
	shape.SetFilter(cp.NewShapeFilter(0, uint(controller.CategoryCurling), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)

	crate := &Crate{body: body, shape: shape}
	w.crates[body] = crate
	return crate
}

// RemoveCrate takes a crate out of the space. Ground hits that still hold it
// see it as invalid from then on.
func (w *World) RemoveCrate(c *Crate) {
	if w == nil || c == nil || c.removed {
		return
	}
	w.space.RemoveShape(c.shape)
	w.space.RemoveBody(c.body)
	delete(w.crates, c.body)
	c.removed = true
	log.Printf("World: removed crate at (%.2f, %.2f)", c.body.Position().X, c.body.Position().Y)
}

// AddCharacter adds the round dynamic body a controller drives. The shape is
// frictionless and only the height spring keeps it off the ground.
func (w *World) AddCharacter(pos mgl64.Vec2, radius, mass float64) *Body {
	if w == nil || w.space == nil || radius <= 0 || mass <= 0 {
		return nil
	}
	body := w.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{})))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetFilter(cp.NewShapeFilter(0, uint(controller.CategoryPlayer), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)

	return &Body{body: body, shape: shape, radius: radius}
}

// Step advances the simulation. Forces applied since the last step are
// consumed.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || !(dt > 0) {
		return
	}
	w.space.Step(dt)
}

// Raycast implements controller.Raycaster with a segment query filtered by
// mask.
func (w *World) Raycast(origin, destination mgl64.Vec3, mask uint32) controller.RaycastResult {
	if w == nil || w.space == nil {
		return controller.RaycastResult{}
	}
	start := toVector(origin)
	end := toVector(destination)
	length := end.Sub(start).Length()
	if length <= 0 {
		return controller.RaycastResult{}
	}

	filter := cp.NewShapeFilter(0, cp.ALL_CATEGORIES, uint(mask))
	info := w.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return controller.RaycastResult{}
	}

	res := controller.RaycastResult{
		HasHit:   true,
		Distance: info.Alpha * length,
		Normal:   mgl64.Vec3{info.Normal.X, info.Normal.Y, 0},
		Point:    mgl64.Vec3{info.Point.X, info.Point.Y, origin.Z()},
	}
	if crate, ok := w.crates[info.Shape.Body()]; ok {
		res.Body = crate
	}
	return res
}

func toVector(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}
