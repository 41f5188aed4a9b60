// Package dynamo provides the core data model of the sphere simulation.
//
// The package defines the plain value types every other package shares:
//
//   - [Body]: a sphere with velocity, position, rollback position and mass
//   - [Segment]: one stacked box-shaped enclosure region
//   - [Cylinder]: a finite cylindrical obstacle
//   - [Registry]: the ordered, index-addressable arena of bodies
//   - [Frame]: a read-only snapshot handed to renderers and metrics
//
// # Registry indices
//
// Index [SinkIndex] always holds the static absorbing sphere. All per-tick
// changes are in-place field updates through [Registry.At]; the only
// destructive removal is [Registry.Compact], which drops bodies whose
// radius has been absorbed down to zero.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A Registry is
// owned by exactly one simulation goroutine.
package dynamo
