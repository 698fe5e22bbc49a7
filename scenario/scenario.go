package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/common"
	"github.com/milk9111/powder/controller"
	"github.com/milk9111/powder/prefabs"
	"github.com/milk9111/powder/space"
)

var ErrNoInput = errors.New("scenario: scene has no input source")

type Segment struct {
	From, To mgl64.Vec2
	Radius   float64
}

type Crate struct {
	Position      mgl64.Vec2
	Width, Height float64
	Mass          float64
}

// Scene is one headless run: a level, a character and its input.
type Scene struct {
	Name        string
	Gravity     mgl64.Vec3
	Step        float64
	Ticks       int
	SettleTicks int

	Spawn  mgl64.Vec2
	Radius float64
	Ground []Segment
	Crates []Crate

	Config controller.Config
	Input  controller.InputSource
	Debug  bool
}

// Result summarizes a run. Ride distances are only sampled on grounded ticks
// after SettleTicks while the height spring is active.
type Result struct {
	Name  string
	Ticks int

	FinalRideDistance float64
	MinRideDistance   float64
	MaxRideDistance   float64
	GroundedTicks     int

	Jumps         int
	MaxHeight     float64
	FinalSpeed    float64
	FinalPosition mgl64.Vec3
}

type errorSource interface {
	Err() error
}

// Build creates the world and binds a controller to a new character in it.
func Build(scene Scene) (*space.World, *controller.Controller, *space.Body, error) {
	if scene.Input == nil {
		return nil, nil, nil, ErrNoInput
	}
	cfg := scene.Config
	cfg.Gravity = scene.Gravity
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("scenario: %s: %w", scene.Name, err)
	}

	w := space.NewWorld(scene.Gravity)
	for _, g := range scene.Ground {
		w.AddGround(g.From, g.To, g.Radius)
	}
	for _, c := range scene.Crates {
		if w.AddCrate(c.Position, c.Width, c.Height, c.Mass) == nil {
			return nil, nil, nil, fmt.Errorf("scenario: %s: invalid crate %+v", scene.Name, c)
		}
	}

	radius := scene.Radius
	if radius <= 0 {
		radius = 0.4
	}
	body := w.AddCharacter(scene.Spawn, radius, cfg.Mass)
	if body == nil {
		return nil, nil, nil, fmt.Errorf("scenario: %s: invalid character radius %v or mass %v", scene.Name, radius, cfg.Mass)
	}

	ctrl, err := controller.New(body, w, scene.Input, cfg, controller.WithDebug(scene.Debug))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scenario: %s: %w", scene.Name, err)
	}
	return w, ctrl, body, nil
}

// Run steps the scene to completion or until ctx is done. A partial result is
// returned with the error.
func Run(ctx context.Context, scene Scene) (Result, error) {
	res := Result{Name: scene.Name, MinRideDistance: math.Inf(1)}
	if !(scene.Step > 0) || scene.Ticks <= 0 {
		return res, fmt.Errorf("scenario: %s: step %v and ticks %d must be positive", scene.Name, scene.Step, scene.Ticks)
	}

	w, ctrl, body, err := Build(scene)
	if err != nil {
		return res, err
	}
	errs, _ := scene.Input.(errorSource)

	for i := 0; i < scene.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return finish(res), err
		}

		ctrl.Tick(scene.Step)
		if errs != nil {
			if err := errs.Err(); err != nil {
				return finish(res), err
			}
		}
		w.Step(scene.Step)
		res.Ticks++

		s := ctrl.State()
		if s.Jumped {
			res.Jumps++
		}
		pos := body.Position()
		res.MaxHeight = math.Max(res.MaxHeight, pos.Y())
		res.FinalPosition = pos
		res.FinalSpeed = common.Horizontal(body.LinearVelocity()).Len()

		if !s.Grounded {
			continue
		}
		res.GroundedTicks++
		res.FinalRideDistance = s.GroundHit.Distance
		if i >= scene.SettleTicks && s.MaintainHeight {
			res.MinRideDistance = math.Min(res.MinRideDistance, s.GroundHit.Distance)
			res.MaxRideDistance = math.Max(res.MaxRideDistance, s.GroundHit.Distance)
		}
	}

	if scene.Debug {
		log.Printf("Scenario: %s done ticks=%d jumps=%d ride=%.3f", scene.Name, res.Ticks, res.Jumps, res.FinalRideDistance)
	}
	return finish(res), nil
}

func finish(res Result) Result {
	if math.IsInf(res.MinRideDistance, 1) {
		res.MinRideDistance = 0
	}
	return res
}

// SceneFromSpec resolves a scene file together with its player tuning and
// input script.
func SceneFromSpec(spec prefabs.SceneSpec) (Scene, error) {
	player, err := prefabs.LoadPlayerSpec(spec.Player)
	if err != nil {
		return Scene{}, err
	}
	cfg, err := player.Config()
	if err != nil {
		return Scene{}, err
	}

	scene := Scene{
		Name:        spec.Name,
		Gravity:     mgl64.Vec3{0, spec.Gravity, 0},
		Step:        spec.Step,
		Ticks:       spec.Ticks,
		SettleTicks: spec.SettleTicks,
		Spawn:       spec.Spawn.Vec2(),
		Radius:      player.Radius,
		Config:      cfg,
		Debug:       player.Debug,
	}
	for _, g := range spec.Ground {
		scene.Ground = append(scene.Ground, Segment{From: g.From.Vec2(), To: g.To.Vec2(), Radius: g.Radius})
	}
	for _, c := range spec.Crates {
		scene.Crates = append(scene.Crates, Crate{Position: c.Position.Vec2(), Width: c.Width, Height: c.Height, Mass: c.Mass})
	}

	if spec.Script != "" {
		in, err := LoadScriptInput(spec.Script, spec.Step)
		if err != nil {
			return Scene{}, err
		}
		scene.Input = in
	}
	return scene, nil
}

// Load reads a scene file by name.
func Load(name string) (Scene, error) {
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return Scene{}, err
	}
	return SceneFromSpec(*spec)
}
