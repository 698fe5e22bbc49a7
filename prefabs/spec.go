package prefabs

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/powder/controller"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// loadInto decodes filename over out. Unknown keys are an error so a typo in
// a tuning file does not silently fall back to a default.
func loadInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := decodeStrict(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var categoryNames = map[string]uint32{
	"player":  controller.CategoryPlayer,
	"ground":  controller.CategoryGround,
	"curling": controller.CategoryCurling,
	"net":     controller.CategoryNet,
	"enemies": controller.CategoryEnemies,
}

// ParseMask ORs together the named collision categories.
func ParseMask(names []string) (uint32, error) {
	var mask uint32
	for _, n := range names {
		bit, ok := categoryNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("prefabs: unknown collision category %q", n)
		}
		mask |= bit
	}
	return mask, nil
}

// MaskNames lists the categories in mask, lowest bit first.
func MaskNames(mask uint32) []string {
	var names []string
	for n, bit := range categoryNames {
		if mask&bit != 0 {
			names = append(names, n)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return categoryNames[names[i]] < categoryNames[names[j]]
	})
	return names
}

type SpringSpec struct {
	Strength float64 `yaml:"strength"`
	Damper   float64 `yaml:"damper"`
}

type GroundSpec struct {
	RideHeight     float64    `yaml:"ride_height"`
	ProbeLength    float64    `yaml:"probe_length"`
	GroundedFactor float64    `yaml:"grounded_factor"`
	Mask           []string   `yaml:"mask,flow"`
	MaxSlopeAngle  float64    `yaml:"max_slope_angle"`
	Spring         SpringSpec `yaml:"spring"`
	Feedback       float64    `yaml:"feedback"`
}

type MoveSpec struct {
	MaxSpeed       float64   `yaml:"max_speed"`
	Acceleration   float64   `yaml:"acceleration"`
	MaxForce       float64   `yaml:"max_force"`
	DotEdges       []float64 `yaml:"dot_edges,flow"`
	ForceScale     []float64 `yaml:"force_scale,flow"`
	LeanOffset     float64   `yaml:"lean_offset"`
	AirSpeedFactor float64   `yaml:"air_speed_factor"`
	CameraRelative bool      `yaml:"camera_relative"`
}

type JumpSpec struct {
	Impulse           float64 `yaml:"impulse"`
	Buffer            float64 `yaml:"buffer"`
	CoyoteTime        float64 `yaml:"coyote_time"`
	RiseGravityFactor float64 `yaml:"rise_gravity_factor"`
	LowJumpFactor     float64 `yaml:"low_jump_factor"`
	FallGravityFactor float64 `yaml:"fall_gravity_factor"`
	LandingLockout    float64 `yaml:"landing_lockout"`
}

type UprightSpec struct {
	Spring                SpringSpec `yaml:"spring"`
	LookMode              string     `yaml:"look_mode"`
	LookVelocityThreshold float64    `yaml:"look_velocity_threshold"`
}

// PlayerSpec is the on-disk form of a character's tuning.
type PlayerSpec struct {
	Name    string      `yaml:"name"`
	Mass    float64     `yaml:"mass"`
	Radius  float64     `yaml:"radius"`
	Debug   bool        `yaml:"debug"`
	Ground  GroundSpec  `yaml:"ground"`
	Move    MoveSpec    `yaml:"move"`
	Jump    JumpSpec    `yaml:"jump"`
	Upright UprightSpec `yaml:"upright"`
}

// NewPlayerSpec describes cfg. Gravity is not part of a player's tuning and
// is dropped.
func NewPlayerSpec(name string, radius float64, cfg controller.Config) PlayerSpec {
	return PlayerSpec{
		Name:   name,
		Mass:   cfg.Mass,
		Radius: radius,
		Ground: GroundSpec{
			RideHeight:     cfg.RideHeight,
			ProbeLength:    cfg.ProbeLength,
			GroundedFactor: cfg.GroundedFactor,
			Mask:           MaskNames(cfg.GroundMask),
			MaxSlopeAngle:  cfg.MaxSlopeAngle,
			Spring:         SpringSpec(cfg.HeightSpring),
			Feedback:       cfg.GroundFeedback,
		},
		Move: MoveSpec{
			MaxSpeed:       cfg.MaxSpeed,
			Acceleration:   cfg.Acceleration,
			MaxForce:       cfg.MaxForce,
			DotEdges:       []float64{cfg.AccelDotEdge0, cfg.AccelDotEdge1},
			ForceScale:     []float64{cfg.ForceScale[0], cfg.ForceScale[1], cfg.ForceScale[2]},
			LeanOffset:     cfg.LeanOffset,
			AirSpeedFactor: cfg.AirSpeedFactor,
			CameraRelative: cfg.CameraRelative,
		},
		Jump: JumpSpec{
			Impulse:           cfg.JumpImpulse,
			Buffer:            cfg.JumpBuffer,
			CoyoteTime:        cfg.CoyoteTime,
			RiseGravityFactor: cfg.RiseGravityFactor,
			LowJumpFactor:     cfg.LowJumpFactor,
			FallGravityFactor: cfg.FallGravityFactor,
			LandingLockout:    cfg.LandingLockout,
		},
		Upright: UprightSpec{
			Spring:                SpringSpec(cfg.UprightSpring),
			LookMode:              cfg.LookMode.String(),
			LookVelocityThreshold: cfg.LookVelocityThreshold,
		},
	}
}

// Config converts the spec and validates the result.
func (s PlayerSpec) Config() (controller.Config, error) {
	cfg := controller.DefaultConfig()

	mask, err := ParseMask(s.Ground.Mask)
	if err != nil {
		return cfg, err
	}
	mode, err := controller.ParseLookMode(s.Upright.LookMode)
	if err != nil {
		return cfg, err
	}
	if len(s.Move.DotEdges) != 2 {
		return cfg, fmt.Errorf("prefabs: move.dot_edges needs 2 values, got %d", len(s.Move.DotEdges))
	}
	if len(s.Move.ForceScale) != 3 {
		return cfg, fmt.Errorf("prefabs: move.force_scale needs 3 values, got %d", len(s.Move.ForceScale))
	}

	cfg.Mass = s.Mass
	cfg.RideHeight = s.Ground.RideHeight
	cfg.ProbeLength = s.Ground.ProbeLength
	cfg.GroundedFactor = s.Ground.GroundedFactor
	cfg.GroundMask = mask
	cfg.MaxSlopeAngle = s.Ground.MaxSlopeAngle
	cfg.HeightSpring = controller.Spring(s.Ground.Spring)
	cfg.GroundFeedback = s.Ground.Feedback

	cfg.MaxSpeed = s.Move.MaxSpeed
	cfg.Acceleration = s.Move.Acceleration
	cfg.MaxForce = s.Move.MaxForce
	cfg.AccelDotEdge0 = s.Move.DotEdges[0]
	cfg.AccelDotEdge1 = s.Move.DotEdges[1]
	cfg.ForceScale = mgl64.Vec3{s.Move.ForceScale[0], s.Move.ForceScale[1], s.Move.ForceScale[2]}
	cfg.LeanOffset = s.Move.LeanOffset
	cfg.AirSpeedFactor = s.Move.AirSpeedFactor
	cfg.CameraRelative = s.Move.CameraRelative

	cfg.JumpImpulse = s.Jump.Impulse
	cfg.JumpBuffer = s.Jump.Buffer
	cfg.CoyoteTime = s.Jump.CoyoteTime
	cfg.RiseGravityFactor = s.Jump.RiseGravityFactor
	cfg.LowJumpFactor = s.Jump.LowJumpFactor
	cfg.FallGravityFactor = s.Jump.FallGravityFactor
	cfg.LandingLockout = s.Jump.LandingLockout

	cfg.UprightSpring = controller.Spring(s.Upright.Spring)
	cfg.LookMode = mode
	cfg.LookVelocityThreshold = s.Upright.LookVelocityThreshold

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("prefabs: player %s: %w", s.Name, err)
	}
	return cfg, nil
}

// Marshal renders the spec in the same layout the loader reads.
func (s PlayerSpec) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("prefabs: marshal player %s: %w", s.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadPlayerSpec reads a player tuning file. Keys missing from the file keep
// their default values.
func LoadPlayerSpec(name string) (*PlayerSpec, error) {
	if name == "" {
		name = "player.yaml"
	}
	spec := NewPlayerSpec("player", 0.4, controller.DefaultConfig())
	if err := loadInto(name, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointSpec) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

type SegmentSpec struct {
	From   PointSpec `yaml:"from"`
	To     PointSpec `yaml:"to"`
	Radius float64   `yaml:"radius"`
}

type CrateSpec struct {
	Position PointSpec `yaml:"position"`
	Width    float64   `yaml:"width"`
	Height   float64   `yaml:"height"`
	Mass     float64   `yaml:"mass"`
}

// SceneSpec lays out a side-view test level.
type SceneSpec struct {
	Name        string        `yaml:"name"`
	Player      string        `yaml:"player"`
	Gravity     float64       `yaml:"gravity"`
	Step        float64       `yaml:"step"`
	Ticks       int           `yaml:"ticks"`
	SettleTicks int           `yaml:"settle_ticks"`
	Spawn       PointSpec     `yaml:"spawn"`
	Ground      []SegmentSpec `yaml:"ground"`
	Crates      []CrateSpec   `yaml:"crates"`
	Script      string        `yaml:"script"`
	Scale       float64       `yaml:"scale"`
	Background  *YAMLColor    `yaml:"background"`
}

func defaultSceneSpec() SceneSpec {
	return SceneSpec{
		Player:      "player.yaml",
		Gravity:     -9.81,
		Step:        1.0 / 60,
		Ticks:       600,
		SettleTicks: 120,
		Scale:       40,
	}
}

func LoadSceneSpec(name string) (*SceneSpec, error) {
	spec := defaultSceneSpec()
	if err := loadInto(name, &spec); err != nil {
		return nil, err
	}
	if spec.Step <= 0 || spec.Ticks <= 0 {
		return nil, fmt.Errorf("prefabs: scene %s: step and ticks must be positive", name)
	}
	if len(spec.Ground) == 0 && len(spec.Crates) == 0 {
		return nil, fmt.Errorf("prefabs: scene %s: nothing to stand on", name)
	}
	return &spec, nil
}

// YAMLColor accepts #rrggbb, #rrggbbaa or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
