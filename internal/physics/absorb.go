package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

// Absorb shrinks b to its distance from the sink's surface and re-derives
// its mass. It reports whether b survives; a body that does not is left
// with radius 0 for the registry to compact.
func Absorb(sink dynamo.Body, b *dynamo.Body) bool {
	return absorbAt(sink, b, b.Position)
}

func absorbAt(sink dynamo.Body, b *dynamo.Body, p mgl64.Vec3) bool {
	r := p.Sub(sink.Position).Len() - sink.Radius
	b.SetRadius(math.Max(r, 0))
	return r > 0
}

// absorb is measured from the trial position the sphere pass tested.
func (w *World) absorb(i int, trial mgl64.Vec3) {
	sink := *w.registry.At(dynamo.SinkIndex)
	b := w.registry.At(i)
	kind := EventAbsorb
	if !absorbAt(sink, b, trial) {
		kind = EventRemove
	}
	w.emit(Event{Kind: kind, Index: i, Other: dynamo.SinkIndex, Face: geom.NoFace, Position: trial, Before: b.Velocity, After: b.Velocity})
}
