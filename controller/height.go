package controller

import "github.com/go-gl/mathgl/mgl64"

// HeightSpring holds the body at RideHeight above the sensed ground with a
// spring-damper along the probe ray. The character's own weight is cancelled
// feed-forward so the spring only corrects the height error.
type HeightSpring struct {
	RideHeight   float64
	Spring       Spring
	Feedback     float64
	GravityForce mgl64.Vec3
}

func newHeightSpring(cfg Config) HeightSpring {
	return HeightSpring{
		RideHeight:   cfg.RideHeight,
		Spring:       cfg.HeightSpring,
		Feedback:     cfg.GroundFeedback,
		GravityForce: cfg.Gravity.Mul(cfg.Mass),
	}
}

// Force is the force to apply at the body for a hit. It returns zero for a
// miss.
func (h HeightSpring) Force(hit GroundHit, bodyVelocity mgl64.Vec3) mgl64.Vec3 {
	if !hit.HasHit {
		return mgl64.Vec3{}
	}
	var groundVelocity mgl64.Vec3
	if hit.Body != nil && hit.Body.Valid() {
		groundVelocity = hit.Body.LinearVelocity()
	}

	relativeVelocity := rayDirection.Dot(bodyVelocity) - rayDirection.Dot(groundVelocity)
	heightError := hit.Distance - h.RideHeight
	springForce := heightError*h.Spring.Strength - relativeVelocity*h.Spring.Damper
	return rayDirection.Mul(springForce).Sub(h.GravityForce)
}

// Reaction is the force pushed back into a dynamic ground body. The two bodies
// are not rigidly coupled, so only Feedback of the full reaction is passed on.
func (h HeightSpring) Reaction(force mgl64.Vec3) mgl64.Vec3 {
	return force.Mul(-h.Feedback)
}

// apply writes the spring force to the body and the reaction to the ground
// body when there is one still alive.
func (h HeightSpring) apply(body Body, hit GroundHit, position, velocity mgl64.Vec3) mgl64.Vec3 {
	force := h.Force(hit, velocity)
	body.ApplyForce(force, position)
	if hit.Body != nil && hit.Body.Valid() && h.Feedback > 0 {
		hit.Body.ApplyForce(h.Reaction(force), hit.Point)
	}
	return force
}
