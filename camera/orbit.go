package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minPitch = -1.4
	maxPitch = 1.4
)

// Orbit circles a target point at a fixed distance. Yaw turns around world up
// and pitch tilts the eye above the target. It is only used as a reference
// frame for input, so it never looks at the scene itself.
type Orbit struct {
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64

	// smoothing factor (0..1). higher -> faster follow. e.g. 0.15
	smooth float64
}

// NewOrbit creates a camera looking down +Z at target.
func NewOrbit(target mgl64.Vec3, distance float64) *Orbit {
	o := &Orbit{Target: target, Distance: 1, smooth: 0.15}
	o.SetDistance(distance)
	return o
}

// SetDistance updates the eye distance. Non-positive values are ignored.
func (o *Orbit) SetDistance(d float64) {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	o.Distance = d
}

func (o *Orbit) SetSmooth(f float64) {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	o.smooth = f
}

// Rotate adds to yaw and pitch. Pitch is clamped short of straight up or down
// and yaw is wrapped into (-pi, pi].
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = wrapAngle(o.Yaw + dYaw)
	o.Pitch = mgl64.Clamp(o.Pitch+dPitch, minPitch, maxPitch)
}

// Update moves the target toward the followed point. Call from the fixed-rate
// update loop to get consistent smoothing.
func (o *Orbit) Update(target mgl64.Vec3) {
	if o.smooth <= 0 {
		o.Target = target
		return
	}
	o.Target = o.Target.Add(target.Sub(o.Target).Mul(o.smooth))
}

// SnapTo places the target without smoothing, e.g. after a scene load.
func (o *Orbit) SnapTo(target mgl64.Vec3) {
	o.Target = target
}

// Forward is the horizontal unit vector the camera faces.
func (o *Orbit) Forward() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(o.Yaw), 0, math.Cos(o.Yaw)}
}

// Right is the horizontal unit vector to the right of Forward.
func (o *Orbit) Right() mgl64.Vec3 {
	return mgl64.Vec3{0, 1, 0}.Cross(o.Forward())
}

// Eye is the camera position behind and above the target.
func (o *Orbit) Eye() mgl64.Vec3 {
	back := o.Forward().Mul(-o.Distance * math.Cos(o.Pitch))
	up := mgl64.Vec3{0, o.Distance * math.Sin(o.Pitch), 0}
	return o.Target.Add(back).Add(up)
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
