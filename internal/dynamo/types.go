package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SinkIndex is the registry slot of the absorbing sphere.
const SinkIndex = 0

// Body is a simulated sphere.
type Body struct {
	Velocity     mgl64.Vec3 `msgpack:"velocity"`
	Position     mgl64.Vec3 `msgpack:"position"`
	PrevPosition mgl64.Vec3 `msgpack:"prev_position"`
	Color        mgl64.Vec3 `msgpack:"color"`
	Radius       float64    `msgpack:"radius"`
	Density      float64    `msgpack:"density"`
	Mass         float64    `msgpack:"mass"`
	Static       bool       `msgpack:"static"`
}

// NewBody returns a body with its mass derived from radius and density.
func NewBody(vel, pos, color mgl64.Vec3, radius, density float64, static bool) Body {
	return Body{
		Velocity: vel,
		Position: pos,
		Color:    color,
		Radius:   radius,
		Density:  density,
		Mass:     SphereMass(radius, density),
		Static:   static,
	}
}

// SphereMass returns density * 4/3 * pi * r^3, or 0 for a non-positive radius.
func SphereMass(radius, density float64) float64 {
	if radius <= 0 {
		return 0
	}
	return density * (4.0 / 3.0) * math.Pi * radius * radius * radius
}

// SetRadius changes the radius and re-derives the mass.
func (b *Body) SetRadius(r float64) {
	b.Radius = r
	b.Mass = SphereMass(r, b.Density)
}

// Rollback restores the position recorded before this tick's integration.
func (b *Body) Rollback() {
	b.Position = b.PrevPosition
}

// Absorbed reports whether the body is pending removal.
func (b *Body) Absorbed() bool {
	return b.Radius <= 0
}

// Momentum returns mass * |velocity|.
func (b *Body) Momentum() float64 {
	return b.Mass * b.Velocity.Len()
}

// KineticEnergy returns 1/2 m |v|^2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

// Segment is one stacked enclosure region spanning [Height, Height+2*extent].
type Segment struct {
	Height float64 `msgpack:"height"`
	Top    bool    `msgpack:"top"`
	Bottom bool    `msgpack:"bottom"`
}

// Cylinder is a finite obstacle. Length is the half-length along its local axis.
type Cylinder struct {
	Position  mgl64.Vec3 `msgpack:"position"`
	Length    float64    `msgpack:"length"`
	Radius    float64    `msgpack:"radius"`
	XRotation float64    `msgpack:"x_rotation"`
	YRotation float64    `msgpack:"y_rotation"`
}

// BodyView is the render-facing copy of a body.
type BodyView struct {
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Color    mgl64.Vec3 `json:"color"`
	Radius   float64    `json:"radius"`
	Mass     float64    `json:"mass"`
	Static   bool       `json:"static"`
}

// View returns the read-only projection of b.
func (b *Body) View() BodyView {
	return BodyView{
		Position: b.Position,
		Velocity: b.Velocity,
		Color:    b.Color,
		Radius:   b.Radius,
		Mass:     b.Mass,
		Static:   b.Static,
	}
}

// Frame is a sampled moment of a run.
type Frame struct {
	Time     float64    `json:"time"`
	Bodies   []BodyView `json:"bodies"`
	Momentum float64    `json:"momentum"`
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}
