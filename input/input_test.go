package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name string
		in   reading
		axis mgl64.Vec2
		jump bool
	}{
		{"idle", reading{}, mgl64.Vec2{}, false},
		{"right", reading{right: true}, mgl64.Vec2{1, 0}, false},
		{"opposed keys cancel", reading{left: true, right: true}, mgl64.Vec2{}, false},
		{"diagonal", reading{left: true, forward: true}, mgl64.Vec2{-1, 1}, false},
		{"jump key", reading{jump: true}, mgl64.Vec2{}, true},
		{"stick in deadzone keeps keys", reading{right: true, hasPad: true, stick: mgl64.Vec2{0.1, 0.1}}, mgl64.Vec2{1, 0}, false},
		{"stick wins", reading{right: true, hasPad: true, stick: mgl64.Vec2{-0.5, 0}}, mgl64.Vec2{-0.5, 0}, false},
		{"stick clamped", reading{hasPad: true, stick: mgl64.Vec2{1, 1}}, mgl64.Vec2{math.Sqrt2 / 2, math.Sqrt2 / 2}, false},
		{"pad jump", reading{hasPad: true, padJump: true}, mgl64.Vec2{}, true},
		{"pad jump ignored without pad", reading{padJump: true}, mgl64.Vec2{}, false},
		{"nan stick", reading{hasPad: true, stick: mgl64.Vec2{math.NaN(), 0}}, mgl64.Vec2{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolve(tc.in, DefaultDeadzone)
			if !near(got.Axis, tc.axis, 1e-9) {
				t.Fatalf("axis = %v, want %v", got.Axis, tc.axis)
			}
			if got.Jump != tc.jump {
				t.Fatalf("jump = %t, want %t", got.Jump, tc.jump)
			}
		})
	}
}

func TestLookAxis(t *testing.T) {
	if got := lookAxis(reading{turnLeft: true}, DefaultDeadzone); got != (mgl64.Vec2{-1, 0}) {
		t.Fatalf("Q look = %v", got)
	}
	got := lookAxis(reading{turnRight: true, hasPad: true, lookStick: mgl64.Vec2{0, 0.5}}, DefaultDeadzone)
	if got != (mgl64.Vec2{0, 0.5}) {
		t.Fatalf("right stick look = %v", got)
	}
}

func near(a, b mgl64.Vec2, eps float64) bool {
	return a.Sub(b).Len() < eps
}
