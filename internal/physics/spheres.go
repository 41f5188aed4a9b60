package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

const massEpsilon = 1e-12

// Elastic returns the post-collision velocities of two bodies using the
// one-dimensional elastic formula applied to each axis independently.
// It reports false, leaving both velocities unchanged, when the combined
// mass is too small to divide by.
func Elastic(v1, v2 mgl64.Vec3, m1, m2 float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	sum := m1 + m2
	if sum <= massEpsilon {
		return v1, v2, false
	}
	var o1, o2 mgl64.Vec3
	for k := 0; k < 3; k++ {
		o1[k] = (v1[k]*(m1-m2) + 2*m2*v2[k]) / sum
		o2[k] = (v2[k]*(m2-m1) + 2*m1*v1[k]) / sum
	}
	return o1, o2, true
}

// resolveSpheres tests each active body's trial position against every
// other body in registry order. A body takes part in at most one
// sphere resolution per tick.
func (w *World) resolveSpheres(dt float64) {
	n := w.registry.Len()
	for i := 0; i < n; i++ {
		if !w.active(i) || w.paired[i] {
			continue
		}
		bi := w.registry.At(i)
		trial := bi.Position.Add(bi.Velocity.Mul(dt))

		for j := 0; j < n; j++ {
			if j == i || w.paired[j] || w.teleported[j] {
				continue
			}
			bj := w.registry.At(j)
			if bj.Absorbed() || bj.Position.Sub(trial).Len() >= bi.Radius+bj.Radius {
				continue
			}

			w.paired[i] = true
			w.paired[j] = true

			if j == dynamo.SinkIndex {
				w.absorb(i, trial)
				break
			}

			v1, v2, ok := Elastic(bi.Velocity, bj.Velocity, bi.Mass, bj.Mass)
			if !ok {
				break
			}

			before := bi.Velocity
			if bj.Static {
				bi.Velocity = v2.Mul(-1)
				w.emit(Event{Kind: EventStatic, Index: i, Other: j, Face: geom.NoFace, Position: bi.Position, Before: before, After: bi.Velocity})
				break
			}

			bi.Velocity = v1
			bj.Velocity = v2
			bi.Rollback()
			bj.Rollback()
			w.emit(Event{Kind: EventSphere, Index: i, Other: j, Face: geom.NoFace, Position: bi.Position, Before: before, After: bi.Velocity})
			break
		}
	}
}
