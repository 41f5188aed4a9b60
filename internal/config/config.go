package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

const (
	DefaultRestitution    = 0.8
	DefaultSpawnInterval  = 5.5
	DefaultWallExtent     = 5.0
	DefaultFloor          = -10.0
	DefaultHalfExtent     = 20.0
	DefaultTeleportRange  = 3.0
	DefaultTeleportHeight = 8.0
	DefaultDt             = 1.0 / 60.0
	DefaultDuration       = 30.0
)

// DefaultGravity is standard gravity along -Y.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

type Scene struct {
	Name          string           `yaml:"name"`
	Gravity       mgl64.Vec3       `yaml:"gravity"`
	Restitution   float64          `yaml:"restitution"`
	SpawnInterval float64          `yaml:"spawn_interval"`
	WallExtent    float64          `yaml:"wall_extent"`
	BaseYaw       float64          `yaml:"base_yaw"`
	BaseOffset    mgl64.Vec3       `yaml:"base_offset"`
	Bounds        BoundsConfig     `yaml:"bounds"`
	Teleport      TeleportConfig   `yaml:"teleport"`
	Segments      []SegmentConfig  `yaml:"segments"`
	Cylinders     []CylinderConfig `yaml:"cylinders"`
	Bodies        []BodyConfig     `yaml:"bodies"`
	Spawns        []BodyConfig     `yaml:"spawns"`
	Seed          int64            `yaml:"seed"`
	Debug         bool             `yaml:"debug"`
	Run           RunConfig        `yaml:"run"`
}

// BoundsConfig is the play volume; bodies below Floor or outside
// +/-HalfExtent horizontally are teleported.
type BoundsConfig struct {
	Floor      float64 `yaml:"floor"`
	HalfExtent float64 `yaml:"half_extent"`
}

// TeleportConfig places respawned bodies in [-Range, Range] on X and Z,
// Height above the first segment.
type TeleportConfig struct {
	Range  float64 `yaml:"range"`
	Height float64 `yaml:"height"`
}

type SegmentConfig struct {
	Height float64 `yaml:"height"`
	Top    bool    `yaml:"top"`
	Bottom bool    `yaml:"bottom"`
}

type CylinderConfig struct {
	Position  mgl64.Vec3 `yaml:"position"`
	Length    float64    `yaml:"length"`
	Radius    float64    `yaml:"radius"`
	XRotation float64    `yaml:"x_rotation"`
	YRotation float64    `yaml:"y_rotation"`
}

type BodyConfig struct {
	Name     string     `yaml:"name,omitempty"`
	Velocity mgl64.Vec3 `yaml:"velocity"`
	Position mgl64.Vec3 `yaml:"position"`
	Color    mgl64.Vec3 `yaml:"color"`
	Radius   float64    `yaml:"radius"`
	Density  float64    `yaml:"density"`
	Static   bool       `yaml:"static"`
}

// RunConfig holds driver settings used by the CLI when flags are not given.
type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

// DefaultConfig returns the stacked five-segment scene with six cylinder
// obstacles, the sink in the lowest open box and two spawning spheres.
func DefaultConfig() *Scene {
	spawn := 40.0
	level1 := 30.0
	level2 := 20.0
	sinkBox := 10.0

	crimson := BodyConfig{
		Name:     "crimson",
		Velocity: mgl64.Vec3{10, 0, 7},
		Position: mgl64.Vec3{-3, spawn + 2.5, 0},
		Color:    mgl64.Vec3{0.875, 0.075, 0.234},
		Radius:   0.6,
		Density:  0.0014,
	}
	orange := BodyConfig{
		Name:     "orange",
		Velocity: mgl64.Vec3{6, 0, 8},
		Position: mgl64.Vec3{3, spawn + 2.5, 0},
		Color:    mgl64.Vec3{1.0, 0.55, 0.0},
		Radius:   0.8,
		Density:  0.001,
	}
	sink := BodyConfig{
		Name:     "sink",
		Velocity: mgl64.Vec3{0, 0, -4},
		Position: mgl64.Vec3{0, sinkBox + 5, 0},
		Color:    mgl64.Vec3{0.12, 0.65, 1},
		Radius:   3.5,
		Static:   true,
	}

	return &Scene{
		Name:          "default",
		Gravity:       DefaultGravity,
		Restitution:   DefaultRestitution,
		SpawnInterval: DefaultSpawnInterval,
		WallExtent:    DefaultWallExtent,
		BaseYaw:       geom.DefaultYaw,
		Bounds:        BoundsConfig{Floor: DefaultFloor, HalfExtent: DefaultHalfExtent},
		Teleport:      TeleportConfig{Range: DefaultTeleportRange, Height: DefaultTeleportHeight},
		Segments: []SegmentConfig{
			{Height: spawn, Top: true},
			{Height: level1},
			{Height: level2},
			{Height: sinkBox},
			{Height: 0, Bottom: true},
		},
		Cylinders: []CylinderConfig{
			{Position: mgl64.Vec3{0, level1 + 7.5, -0.75}, Length: 5, Radius: 1.5, XRotation: math.Pi / 2},
			{Position: mgl64.Vec3{0, level1 + 2.5, -0.75}, Length: 5, Radius: 1.5, XRotation: math.Pi / 2},
			{Position: mgl64.Vec3{0, level1 + 7.5, -0.75}, Length: 5, Radius: 0.75, XRotation: math.Pi / 2, YRotation: math.Pi / 2},
			{Position: mgl64.Vec3{0, level1 + 2.5, -0.75}, Length: 5, Radius: 0.75, XRotation: math.Pi / 2, YRotation: math.Pi / 2},
			{Position: mgl64.Vec3{0, level2 + 5, -0.75}, Length: 7.07, Radius: 1, XRotation: math.Pi / 2, YRotation: math.Pi / 4},
			{Position: mgl64.Vec3{0, level2 + 5, -0.75}, Length: 7.07, Radius: 1.5, XRotation: math.Pi / 2, YRotation: -math.Pi / 4},
		},
		Bodies: []BodyConfig{sink, crimson, orange},
		Spawns: []BodyConfig{crimson, orange},
		Run:    RunConfig{Dt: DefaultDt, Duration: DefaultDuration},
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Scene) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated through callers.
func (c *Scene) Clone() *Scene {
	out := *c
	out.Segments = append([]SegmentConfig(nil), c.Segments...)
	out.Cylinders = append([]CylinderConfig(nil), c.Cylinders...)
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	out.Spawns = append([]BodyConfig(nil), c.Spawns...)
	return &out
}

// Validate reports the first construction-time problem with the scene.
func (c *Scene) Validate() error {
	if len(c.Segments) == 0 {
		return dynamo.FieldError("segments", dynamo.ErrNoSegments)
	}
	if len(c.Bodies) == 0 || !c.Bodies[dynamo.SinkIndex].Static {
		return dynamo.FieldError("bodies[0]", dynamo.ErrNoSink)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return dynamo.FieldError("restitution", fmt.Errorf("%w: %v not in [0, 1]", dynamo.ErrParameterBounds, c.Restitution))
	}
	if c.WallExtent <= 0 {
		return dynamo.FieldError("wall_extent", fmt.Errorf("%w: must be positive", dynamo.ErrParameterBounds))
	}
	if c.Bounds.HalfExtent <= 0 {
		return dynamo.FieldError("bounds.half_extent", fmt.Errorf("%w: must be positive", dynamo.ErrParameterBounds))
	}
	if c.Teleport.Range < 0 {
		return dynamo.FieldError("teleport.range", fmt.Errorf("%w: must not be negative", dynamo.ErrParameterBounds))
	}
	if len(c.Spawns) > 0 && c.SpawnInterval <= 0 {
		return dynamo.FieldError("spawn_interval", fmt.Errorf("%w: must be positive when spawns are set", dynamo.ErrParameterBounds))
	}
	if c.Teleport.Range >= c.Bounds.HalfExtent || c.TeleportHeight() <= c.Bounds.Floor {
		return dynamo.FieldError("teleport", dynamo.ErrUnreachableVolume)
	}

	for i, b := range c.Bodies {
		if err := validateBody(b); err != nil {
			return dynamo.FieldError(fmt.Sprintf("bodies[%d]", i), err)
		}
	}
	for i, b := range c.Spawns {
		if err := validateBody(b); err != nil {
			return dynamo.FieldError(fmt.Sprintf("spawns[%d]", i), err)
		}
	}
	for i, cyl := range c.Cylinders {
		if cyl.Length <= 0 || cyl.Radius <= 0 {
			return dynamo.FieldError(fmt.Sprintf("cylinders[%d]", i), dynamo.ErrInvalidCylinder)
		}
	}
	return nil
}

func validateBody(b BodyConfig) error {
	if b.Radius <= 0 {
		return fmt.Errorf("%w: radius %v", dynamo.ErrInvalidBody, b.Radius)
	}
	if b.Density < 0 {
		return fmt.Errorf("%w: density %v", dynamo.ErrInvalidBody, b.Density)
	}
	return nil
}

// TeleportHeight is the respawn altitude: the first segment's height plus the offset.
func (c *Scene) TeleportHeight() float64 {
	if len(c.Segments) == 0 {
		return c.Teleport.Height
	}
	return c.Segments[0].Height + c.Teleport.Height
}

func (b BodyConfig) Body() dynamo.Body {
	return dynamo.NewBody(b.Velocity, b.Position, b.Color, b.Radius, b.Density, b.Static)
}

func (s SegmentConfig) Segment() dynamo.Segment {
	return dynamo.Segment{Height: s.Height, Top: s.Top, Bottom: s.Bottom}
}

func (c CylinderConfig) Cylinder() dynamo.Cylinder {
	return dynamo.Cylinder{
		Position:  c.Position,
		Length:    c.Length,
		Radius:    c.Radius,
		XRotation: c.XRotation,
		YRotation: c.YRotation,
	}
}

// Frame returns the enclosure base transform.
func (c *Scene) Frame() geom.Frame {
	return geom.Frame{Yaw: c.BaseYaw, Offset: c.BaseOffset}
}
