// Package physics runs the ball-drop world: spheres falling under gravity
// through a stack of rotated box segments, bouncing off walls and
// cylinders, colliding with each other and draining into a static sink.
//
// A [World] owns every body in a [dynamo.Registry]. Each call to
// [World.Advance] runs one tick in a fixed order:
//
//   - spawn clock: template bodies are appended by value when it fires
//   - integration: gravity and velocity, with out-of-bounds teleport
//   - box walls, then cylinders, each rolling the body back on contact
//   - sphere pairs, including absorption into the sink at index 0
//   - compaction of fully absorbed bodies
//
// The order is significant; a body walked back by a wall is still tested
// against the cylinders in the same tick.
//
// # Determinism
//
// Teleport destinations are drawn from a [math/rand.Rand]. Pass
// [WithRand] with a seeded source to make runs reproducible.
//
//	w, err := physics.New(*config.DefaultConfig(), physics.WithRand(rand.New(rand.NewSource(1))))
//	if err != nil {
//	    return err
//	}
//	w.Advance(1.0 / 60)
package physics
