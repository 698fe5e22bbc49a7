package scenario

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/controller"
	"github.com/milk9111/powder/prefabs"
)

// ScriptInput is an input source driven by a tengo script. The script runs
// once per sample with the globals tick (int, from 0) and seconds set, and
// reports move_x, move_y and jump. time is a tengo builtin and cannot be used
// as a global name.
type ScriptInput struct {
	name     string
	compiled *tengo.Compiled
	step     float64
	tick     int
	err      error
}

func NewScriptInput(name string, src []byte, step float64) (*ScriptInput, error) {
	script := tengo.NewScript(src)
	for _, g := range []struct {
		name  string
		value any
	}{{"tick", 0}, {"seconds", 0.0}} {
		if err := script.Add(g.name, g.value); err != nil {
			return nil, fmt.Errorf("scenario: script %s: add %s: %w", name, g.name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	return &ScriptInput{name: name, compiled: compiled, step: step}, nil
}

// LoadScriptInput compiles a script from the prefabs scripts directory.
func LoadScriptInput(name string, step float64) (*ScriptInput, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("scenario: load script %s: %w", name, err)
	}
	return NewScriptInput(name, src, step)
}

// Sample runs the script for the next tick. After the first runtime error
// the source reports released input and Err returns the error.
func (s *ScriptInput) Sample() controller.InputSample {
	if s == nil || s.err != nil {
		return controller.InputSample{}
	}
	tick := s.tick
	s.tick++

	if err := s.compiled.Set("tick", tick); err != nil {
		s.err = fmt.Errorf("scenario: script %s tick %d: %w", s.name, tick, err)
		return controller.InputSample{}
	}
	if err := s.compiled.Set("seconds", float64(tick)*s.step); err != nil {
		s.err = fmt.Errorf("scenario: script %s tick %d: %w", s.name, tick, err)
		return controller.InputSample{}
	}
	if err := s.compiled.Run(); err != nil {
		s.err = fmt.Errorf("scenario: script %s tick %d: %w", s.name, tick, err)
		return controller.InputSample{}
	}

	return controller.InputSample{
		Axis: mgl64.Vec2{s.compiled.Get("move_x").Float(), s.compiled.Get("move_y").Float()},
		Jump: s.compiled.Get("jump").Bool(),
	}
}

func (s *ScriptInput) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}
