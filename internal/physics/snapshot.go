package physics

import (
	"fmt"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// Snapshot is the mutable part of a World. Geometry is rebuilt from the
// scene, so a snapshot can only be restored into a world built from the
// same layout.
type Snapshot struct {
	Time       float64       `msgpack:"time"`
	SpawnClock float64       `msgpack:"spawn_clock"`
	Segments   int           `msgpack:"segments"`
	Cylinders  int           `msgpack:"cylinders"`
	Bodies     []dynamo.Body `msgpack:"bodies"`
	Stats      Stats         `msgpack:"stats"`
}

func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Time:       w.time,
		SpawnClock: w.spawnClock,
		Segments:   len(w.segments),
		Cylinders:  len(w.cylinders),
		Bodies:     w.registry.Bodies(),
		Stats:      w.stats,
	}
}

// Restore replaces the world's bodies, clock and counters with s.
func (w *World) Restore(s Snapshot) error {
	if s.Segments != len(w.segments) || s.Cylinders != len(w.cylinders) {
		return fmt.Errorf("%w: %d segments, %d cylinders", dynamo.ErrSnapshotMismatch, s.Segments, s.Cylinders)
	}
	if len(s.Bodies) == 0 || !s.Bodies[dynamo.SinkIndex].Static {
		return fmt.Errorf("%w: %v", dynamo.ErrSnapshotMismatch, dynamo.ErrNoSink)
	}
	w.registry.Reset(s.Bodies)
	w.time = s.Time
	w.spawnClock = s.SpawnClock
	w.stats = s.Stats
	return nil
}
