package physics

import (
	"github.com/san-kum/ballsim/internal/geom"
)

// resolveCylinders reflects each active body off the first cylinder whose
// axis line is closer than the sum of radii.
func (w *World) resolveCylinders() {
	for i := 0; i < w.registry.Len(); i++ {
		if !w.active(i) {
			continue
		}
		b := w.registry.At(i)

		for c, ax := range w.axes {
			h, toA := ax.Distance(b.Position)
			if h >= b.Radius+w.cylinders[c].Radius {
				continue
			}

			before := b.Velocity
			n := ax.Contact(h, toA).Sub(b.Position)
			if n.Len() > 0 {
				n = n.Normalize()
				b.Velocity = geom.Reflect(b.Velocity, n, 1).Mul(w.restitution)
			}
			b.Rollback()
			w.emit(Event{Kind: EventCylinder, Index: i, Other: c, Face: geom.NoFace, Position: b.Position, Before: before, After: b.Velocity})
			break
		}
	}
}
