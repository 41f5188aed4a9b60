package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/geom"
)

// teleport moves body i to a random point above the spawn segment. The
// velocity is kept and the body is exempt from collision tests for the
// rest of the tick.
func (w *World) teleport(i int) {
	b := w.registry.At(i)
	from := b.Position

	b.Position = w.teleportTarget()
	b.PrevPosition = b.Position
	w.teleported[i] = true

	w.emit(Event{Kind: EventTeleport, Index: i, Other: -1, Face: geom.NoFace, Position: from, Before: b.Velocity, After: b.Velocity})
}

func (w *World) teleportTarget() mgl64.Vec3 {
	x := (w.rng.Float64()*2 - 1) * w.teleportRange
	z := (w.rng.Float64()*2 - 1) * w.teleportRange
	return mgl64.Vec3{x, w.teleportY, z}
}
