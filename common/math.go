package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// WorldUp is the +Y axis.
var WorldUp = mgl64.Vec3{0, 1, 0}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Smoothstep is the cubic Hermite step between edge0 and edge1, clamped
// outside the range. edge0 may be greater than edge1 for a falling curve.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// MoveTowardsScalar moves current toward target by at most maxDelta without
// overshooting.
func MoveTowardsScalar(current, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = 0
	}
	d := target - current
	if math.Abs(d) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, d)
}

// MoveTowards applies MoveTowardsScalar to each component.
func MoveTowards(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	return mgl64.Vec3{
		MoveTowardsScalar(current[0], target[0], maxDelta),
		MoveTowardsScalar(current[1], target[1], maxDelta),
		MoveTowardsScalar(current[2], target[2], maxDelta),
	}
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v is
// too short to normalize.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ClampMagnitude scales v down so its length does not exceed maxLen.
func ClampMagnitude(v mgl64.Vec3, maxLen float64) mgl64.Vec3 {
	if maxLen <= 0 {
		return mgl64.Vec3{}
	}
	l := v.Len()
	if l <= maxLen {
		return v
	}
	return v.Mul(maxLen / l)
}

// Horizontal drops the Y component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

func IsZero(v mgl64.Vec3) bool {
	return v.Dot(v) < Epsilon*Epsilon
}

// Finite reports whether every component of v is a real number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
