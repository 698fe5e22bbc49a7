package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/common"
)

// rayDirection is the ground probe direction.
var rayDirection = mgl64.Vec3{0, -1, 0}

// GroundSensor casts the ground probe straight down from the body origin.
type GroundSensor struct {
	ProbeLength float64
	Threshold   float64
	Mask        uint32
}

func newGroundSensor(cfg Config) GroundSensor {
	return GroundSensor{
		ProbeLength: cfg.ProbeLength,
		Threshold:   cfg.GroundedThreshold(),
		Mask:        cfg.GroundMask,
	}
}

// Sense casts one ray. A miss is an ordinary result and returns the zero
// GroundHit.
func (s GroundSensor) Sense(rc Raycaster, origin mgl64.Vec3) GroundHit {
	if rc == nil || s.ProbeLength <= 0 {
		return GroundHit{}
	}
	dest := origin.Add(rayDirection.Mul(s.ProbeLength))
	res := rc.Raycast(origin, dest, s.Mask)
	if !res.HasHit || math.IsNaN(res.Distance) || res.Distance < 0 || res.Distance > s.ProbeLength {
		return GroundHit{}
	}

	normal := common.SafeNormalize(res.Normal)
	if common.IsZero(normal) {
		normal = common.WorldUp
	}
	hit := GroundHit{
		HasHit:   true,
		Distance: res.Distance,
		Normal:   normal,
		Point:    res.Point,
		Slope:    SlopeAngle(normal),
	}
	if res.Body != nil && res.Body.Valid() {
		hit.Body = res.Body
	}
	return hit
}

// IsGrounded is true when the hit lies inside the grounded band, which is a
// little taller than the ride height so the state does not flicker there.
func (s GroundSensor) IsGrounded(hit GroundHit) bool {
	return hit.HasHit && hit.Distance < s.Threshold
}

// SlopeAngle is the angle in radians between a surface normal and world up.
func SlopeAngle(normal mgl64.Vec3) float64 {
	n := common.SafeNormalize(normal)
	if common.IsZero(n) {
		return 0
	}
	return math.Acos(mgl64.Clamp(n.Dot(common.WorldUp), -1, 1))
}
