package physics

import "math"

// integrate applies gravity and velocity to every dynamic body and hands
// bodies that left the play volume to the teleporter.
func (w *World) integrate(dt float64) {
	for i := 0; i < w.registry.Len(); i++ {
		b := w.registry.At(i)
		if b.Static {
			continue
		}
		b.PrevPosition = b.Position
		b.Velocity = b.Velocity.Add(w.gravity.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))

		if w.outOfBounds(b.Position.X(), b.Position.Y(), b.Position.Z()) {
			w.teleport(i)
		}
	}
}

func (w *World) outOfBounds(x, y, z float64) bool {
	return y < w.bounds.Floor ||
		math.Abs(x) > w.bounds.HalfExtent ||
		math.Abs(z) > w.bounds.HalfExtent
}

// active reports whether body i still takes part in collision tests this tick.
func (w *World) active(i int) bool {
	b := w.registry.At(i)
	return !b.Static && !b.Absorbed() && !w.teleported[i]
}
