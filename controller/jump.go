package controller

// JumpParams are the timing windows and gravity multipliers of the jump.
type JumpParams struct {
	Buffer     float64
	Coyote     float64
	RiseFactor float64
	LowFactor  float64
	FallFactor float64
	Lockout    float64
}

func newJumpParams(cfg Config) JumpParams {
	return JumpParams{
		Buffer:     cfg.JumpBuffer,
		Coyote:     cfg.CoyoteTime,
		RiseFactor: cfg.RiseGravityFactor,
		LowFactor:  cfg.LowJumpFactor,
		FallFactor: cfg.FallGravityFactor,
		Lockout:    cfg.LandingLockout,
	}
}

// JumpInput is what the jump timers need from one tick.
type JumpInput struct {
	// Pressed is true only on the tick the button goes down.
	Pressed          bool
	Held             bool
	Grounded         bool
	VerticalVelocity float64
	Delta            float64
}

// JumpOutcome tells the caller what to do with the body this tick.
type JumpOutcome struct {
	Commit bool
	// ExtraGravity is the multiple of the character's weight to add on top of
	// normal gravity.
	ExtraGravity float64
}

// Update advances the timers by one tick and evaluates the commit condition.
// maintainHeight is switched off on commit and back on once the body stops
// rising.
func (p JumpParams) Update(t *JumpTimers, maintainHeight *bool, in JumpInput) JumpOutcome {
	var out JumpOutcome
	if t == nil || maintainHeight == nil || !(in.Delta > 0) {
		return out
	}

	if in.Pressed {
		t.TimeSinceJumpPressed = 0
	} else {
		t.TimeSinceJumpPressed += in.Delta
	}
	t.TimeSinceJump += in.Delta

	if in.Grounded {
		t.TimeSinceUngrounded = 0
		if t.TimeSinceJump > p.Lockout {
			t.IsJumping = false
		}
	} else {
		t.TimeSinceUngrounded += in.Delta
	}

	vy := in.VerticalVelocity
	switch {
	case vy <= 0:
		*maintainHeight = true
		t.JumpReady = true
		if vy < 0 && !in.Grounded {
			out.ExtraGravity += p.FallFactor - 1
		}
	case !in.Grounded:
		if t.IsJumping {
			out.ExtraGravity += p.RiseFactor - 1
		}
		if !in.Held {
			out.ExtraGravity += p.LowFactor - 1
		}
	}

	if t.TimeSinceJumpPressed < p.Buffer && t.TimeSinceUngrounded < p.Coyote && t.JumpReady {
		t.JumpReady = false
		t.IsJumping = true
		*maintainHeight = false
		// Consume the press so a landing inside the buffer cannot fire it again.
		t.TimeSinceJumpPressed = p.Buffer
		t.TimeSinceJump = 0
		out.Commit = true
		// The launch tick starts from zero vertical velocity, so the gravity
		// terms picked from the pre-commit velocity do not apply.
		out.ExtraGravity = 0
	}
	return out
}
