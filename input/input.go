package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/powder/controller"
)

// DefaultDeadzone is the stick length below which a gamepad stick reads as
// centred.
const DefaultDeadzone = 0.2

// Source polls the keyboard and the first gamepad once per Sample. It must be
// called from the ebiten Update goroutine.
type Source struct {
	Deadzone float64

	look mgl64.Vec2
}

func NewSource() *Source {
	return &Source{Deadzone: DefaultDeadzone}
}

// Sample implements controller.InputSource.
func (s *Source) Sample() controller.InputSample {
	r := readDevices()
	s.look = lookAxis(r, s.Deadzone)
	return resolve(r, s.Deadzone)
}

// Look is the camera turn axis read by the last Sample: Q/E or the right
// stick.
func (s *Source) Look() mgl64.Vec2 {
	return s.look
}

// reading is the raw device state for one frame.
type reading struct {
	left, right, forward, back bool
	turnLeft, turnRight        bool
	jump                       bool

	hasPad    bool
	stick     mgl64.Vec2
	lookStick mgl64.Vec2
	padJump   bool
}

func readDevices() reading {
	var r reading
	r.left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	r.right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	r.forward = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	r.back = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	r.turnLeft = ebiten.IsKeyPressed(ebiten.KeyQ)
	r.turnRight = ebiten.IsKeyPressed(ebiten.KeyE)
	r.jump = ebiten.IsKeyPressed(ebiten.KeySpace)

	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		id := ids[0]
		r.hasPad = true
		// Stick vertical axes are positive downward.
		r.stick = mgl64.Vec2{
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
		}
		r.lookStick = mgl64.Vec2{
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
			-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
		}
		r.padJump = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}
	return r
}

// resolve merges keys and stick. A stick outside the deadzone wins over the
// keys; key diagonals are left unnormalised since the controller normalises
// the direction anyway.
func resolve(r reading, deadzone float64) controller.InputSample {
	var axis mgl64.Vec2
	if r.left {
		axis[0]--
	}
	if r.right {
		axis[0]++
	}
	if r.back {
		axis[1]--
	}
	if r.forward {
		axis[1]++
	}

	if r.hasPad {
		if stick := applyDeadzone(r.stick, deadzone); stick != (mgl64.Vec2{}) {
			axis = stick
		}
	}

	return controller.InputSample{
		Axis: axis,
		Jump: r.jump || (r.hasPad && r.padJump),
	}
}

func lookAxis(r reading, deadzone float64) mgl64.Vec2 {
	var look mgl64.Vec2
	if r.turnLeft {
		look[0]--
	}
	if r.turnRight {
		look[0]++
	}
	if r.hasPad {
		if stick := applyDeadzone(r.lookStick, deadzone); stick != (mgl64.Vec2{}) {
			look = stick
		}
	}
	return look
}

// applyDeadzone zeroes sticks inside the radial deadzone and clamps the rest
// to unit length.
func applyDeadzone(v mgl64.Vec2, deadzone float64) mgl64.Vec2 {
	l := v.Len()
	if math.IsNaN(l) || l <= deadzone {
		return mgl64.Vec2{}
	}
	if l > 1 {
		return v.Mul(1 / l)
	}
	return v
}
