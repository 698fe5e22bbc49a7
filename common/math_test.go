package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSmoothstep(t *testing.T) {
	cases := []struct {
		name         string
		edge0, edge1 float64
		x            float64
		want         float64
	}{
		{"below_rising", 0, 1, -1, 0},
		{"above_rising", 0, 1, 2, 1},
		{"mid_rising", 0, 1, 0.5, 0.5},
		{"falling_left_of_range", 1.5, 1.0, 0.2, 1},
		{"falling_right_of_range", 1.5, 1.0, 2, 0},
		{"falling_mid", 1.5, 1.0, 1.25, 0.5},
		{"degenerate_edges", 1, 1, 1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Smoothstep(c.edge0, c.edge1, c.x)
			if math.Abs(got-c.want) > 1e-12 {
				t.Fatalf("Smoothstep(%v,%v,%v) = %v, want %v", c.edge0, c.edge1, c.x, got, c.want)
			}
		})
	}
}

func TestMoveTowards(t *testing.T) {
	cases := []struct {
		name     string
		current  mgl64.Vec3
		target   mgl64.Vec3
		maxDelta float64
		want     mgl64.Vec3
	}{
		{"step_each_component", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, -1}, 0.25, mgl64.Vec3{0.25, 0, -0.25}},
		{"no_overshoot", mgl64.Vec3{0.9, 0, 0}, mgl64.Vec3{1, 0, 0}, 0.5, mgl64.Vec3{1, 0, 0}},
		{"negative_delta_is_zero", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, -1, mgl64.Vec3{0, 0, 0}},
		{"already_there", mgl64.Vec3{2, 3, 4}, mgl64.Vec3{2, 3, 4}, 1, mgl64.Vec3{2, 3, 4}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MoveTowards(c.current, c.target, c.maxDelta)
			if !got.ApproxEqual(c.want) {
				t.Fatalf("MoveTowards = %v, want %v", got, c.want)
			}
		})
	}
}

func TestSafeNormalize(t *testing.T) {
	if got := SafeNormalize(mgl64.Vec3{}); got != (mgl64.Vec3{}) {
		t.Fatalf("zero vector should stay zero, got %v", got)
	}
	if got := SafeNormalize(mgl64.Vec3{1e-12, 0, 0}); got != (mgl64.Vec3{}) {
		t.Fatalf("tiny vector should collapse to zero, got %v", got)
	}
	got := SafeNormalize(mgl64.Vec3{3, 0, 4})
	if math.Abs(got.Len()-1) > 1e-12 {
		t.Fatalf("expected unit length, got %v", got.Len())
	}
	if !Finite(got) {
		t.Fatalf("expected finite result, got %v", got)
	}
}

func TestClampMagnitude(t *testing.T) {
	v := mgl64.Vec3{3, 0, 4}
	if got := ClampMagnitude(v, 10); got != v {
		t.Fatalf("short vector should be unchanged, got %v", got)
	}
	got := ClampMagnitude(v, 2.5)
	if math.Abs(got.Len()-2.5) > 1e-12 {
		t.Fatalf("expected length 2.5, got %v", got.Len())
	}
	if !SafeNormalize(got).ApproxEqual(SafeNormalize(v)) {
		t.Fatalf("direction changed: %v vs %v", got, v)
	}
	if got := ClampMagnitude(v, 0); got != (mgl64.Vec3{}) {
		t.Fatalf("zero limit should give zero vector, got %v", got)
	}
}

func TestFinite(t *testing.T) {
	if Finite(mgl64.Vec3{math.NaN(), 0, 0}) {
		t.Fatalf("NaN component should not be finite")
	}
	if Finite(mgl64.Vec3{0, math.Inf(1), 0}) {
		t.Fatalf("Inf component should not be finite")
	}
	if !Finite(mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("plain vector should be finite")
	}
}
