package physics

import (
	"github.com/san-kum/ballsim/internal/geom"
)

// resolveWalls tests every active body against each segment's faces in
// fixed order. The first hit per segment wins; the body may still hit a
// face of another segment afterwards.
func (w *World) resolveWalls() {
	for i := 0; i < w.registry.Len(); i++ {
		if !w.active(i) {
			continue
		}
		for s := range w.segments {
			if w.teleported[i] {
				break
			}
			w.resolveSegment(i, s)
		}
	}
}

// resolveSegment walks geom.Faces and stops at the first face body i hits.
func (w *World) resolveSegment(i, s int) {
	b := w.registry.At(i)
	seg := w.segments[s]
	enc := w.enclosures[s]
	inside := enc.Contains(b.Position.Y())

	for _, f := range geom.Faces {
		switch f.Test() {
		case geom.TestNear, geom.TestFar:
			wall := enc.Walls[f]
			if !inside || !wall.Penetrates(b.Position, b.Radius) {
				continue
			}
			before := b.Velocity
			b.Velocity = wall.Reflect(b.Velocity, w.restitution)
			b.Rollback()
			w.emit(Event{Kind: EventWall, Index: i, Other: s, Face: f, Position: b.Position, Before: before, After: b.Velocity})
			return

		case geom.TestTop:
			if !seg.Top || b.Position.Y()+b.Radius <= enc.Ceiling {
				continue
			}
			before := b.Velocity
			b.Velocity = geom.Reflect(b.Velocity, geom.TopNormal(), w.restitution)
			b.Rollback()
			w.emit(Event{Kind: EventTop, Index: i, Other: s, Face: f, Position: b.Position, Before: before, After: b.Velocity})
			return

		case geom.TestBottom:
			if !seg.Bottom || b.Position.Y()-b.Radius >= enc.Floor {
				continue
			}
			w.emit(Event{Kind: EventPortal, Index: i, Other: s, Face: f, Position: b.Position, Before: b.Velocity, After: b.Velocity})
			w.teleport(i)
			return
		}
	}
}
