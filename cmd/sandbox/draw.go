package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/powder/controller"
	"github.com/milk9111/powder/space"
	"golang.org/x/image/colornames"
)

// forceScale converts newtons to world units for the force arrows.
const forceScale = 0.02

// view maps world metres (y up) to screen pixels (y down) around center.
type view struct {
	screen       *ebiten.Image
	center       mgl64.Vec3
	halfW, halfH float64
	scale        float64
	player       *cp.Body
}

func (v view) toScreen(x, y float64) (float32, float32) {
	return float32(v.halfW + (x-v.center.X())*v.scale), float32(v.halfH - (y-v.center.Y())*v.scale)
}

func (v view) line(a, b cp.Vector, c color.Color) {
	x0, y0 := v.toScreen(a.X, a.Y)
	x1, y1 := v.toScreen(b.X, b.Y)
	vector.StrokeLine(v.screen, x0, y0, x1, y1, 1.5, c, true)
}

func (v view) arrow(from, delta mgl64.Vec3, c color.Color) {
	if delta.Len() < 1e-3 {
		return
	}
	v.line(cp.Vector{X: from.X(), Y: from.Y()}, cp.Vector{X: from.X() + delta.X(), Y: from.Y() + delta.Y()}, c)
}

func (v view) drawSpace(w *space.World) {
	if w == nil || w.Space() == nil || v.screen == nil {
		return
	}
	cp.DrawSpace(w.Space(), &chipmunkDrawer{view: v})
}

// drawCharacter overlays the ground ray, the goal velocity and the forces of
// the last tick.
func (v view) drawCharacter(s controller.CharacterState, cfg controller.Config) {
	pos := s.Position
	rayColor := colornames.Gray
	end := pos.Sub(mgl64.Vec3{0, cfg.ProbeLength, 0})
	if s.GroundHit.HasHit {
		end = s.GroundHit.Point
		rayColor = colornames.Goldenrod
		if s.Grounded {
			rayColor = colornames.Yellow
		}
	}
	v.line(cp.Vector{X: pos.X(), Y: pos.Y()}, cp.Vector{X: end.X(), Y: end.Y()}, rayColor)

	ride := pos.Sub(mgl64.Vec3{0, cfg.RideHeight, 0})
	v.line(cp.Vector{X: ride.X() - 0.3, Y: ride.Y()}, cp.Vector{X: ride.X() + 0.3, Y: ride.Y()}, colornames.Deepskyblue)

	v.arrow(pos, s.GoalVelocity.Mul(0.2), colornames.Lime)
	v.arrow(pos, s.MoveForce.Mul(forceScale), colornames.Orange)
	v.arrow(pos, s.HeightForce.Mul(forceScale), colornames.Cyan)
	v.arrow(pos, s.JumpForce.Mul(forceScale), colornames.Magenta)
}

func drawHUD(screen *ebiten.Image, g *Game) {
	s := g.ctrl.State()
	cfg := g.ctrl.Config()
	lines := []string{
		fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()),
		fmt.Sprintf("scene: %s  look: %s  camera yaw: %.2f", g.spec.Name, cfg.LookMode, g.orbit.Yaw),
		fmt.Sprintf("pos: (%.2f, %.2f)  vel: (%.2f, %.2f)", s.Position.X(), s.Position.Y(), s.LinearVelocity.X(), s.LinearVelocity.Y()),
		fmt.Sprintf("grounded: %t  ride: %.3f / %.3f  slope: %.2f", s.Grounded, s.GroundHit.Distance, cfg.RideHeight, s.GroundHit.Slope),
		fmt.Sprintf("maintain height: %t  jumping: %t  ready: %t", s.MaintainHeight, s.Jump.IsJumping, s.Jump.JumpReady),
		fmt.Sprintf("goal: (%.2f, %.2f, %.2f)  move force: %.1f", s.GoalVelocity.X(), s.GoalVelocity.Y(), s.GoalVelocity.Z(), s.MoveForce.Len()),
		"A/D move  space jump  Q/E turn camera  L look mode  R reset  C copy tuning  F1 hud",
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 10, 10)
}

type chipmunkDrawer struct {
	view view
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	x, y := d.view.toScreen(pos.X, pos.Y)
	r := float32(radius * d.view.scale)
	vector.StrokeCircle(d.view.screen, x, y, r, 1.5, c, true)
	// angle indicator
	a := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.view.line(pos, a, c)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.view.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	x0, y0 := d.view.toScreen(a.X, a.Y)
	x1, y1 := d.view.toScreen(b.X, b.Y)
	w := float32(math.Max(1.5, 2*radius*d.view.scale))
	vector.StrokeLine(d.view.screen, x0, y0, x1, y1, w, c, true)
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.view.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	x, y := d.view.toScreen(pos.X, pos.Y)
	l := float32(size / 2)
	vector.StrokeLine(d.view.screen, x-l, y, x+l, y, 1, c, true)
	vector.StrokeLine(d.view.screen, x, y-l, x, y+l, 1, c, true)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return toFColor(colornames.Lightgreen)
}

func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil || shape.Body() == nil {
		return toFColor(colornames.White)
	}
	switch {
	case shape.Body() == d.view.player:
		return toFColor(colornames.Crimson)
	case shape.Body().GetType() == cp.BODY_STATIC:
		return toFColor(colornames.Steelblue)
	default:
		return toFColor(colornames.Orchid)
	}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return toFColor(colornames.Lightgray)
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return toFColor(colornames.Red)
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
