package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/geom"
)

// EventKind classifies a resolver outcome.
type EventKind int

const (
	EventWall EventKind = iota
	EventTop
	EventPortal
	EventCylinder
	EventSphere
	EventStatic
	EventAbsorb
	EventRemove
	EventTeleport
	EventSpawn
)

var eventNames = [...]string{
	EventWall:     "wall",
	EventTop:      "top",
	EventPortal:   "portal",
	EventCylinder: "cylinder",
	EventSphere:   "sphere",
	EventStatic:   "static",
	EventAbsorb:   "absorb",
	EventRemove:   "remove",
	EventTeleport: "teleport",
	EventSpawn:    "spawn",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event describes one collision or lifecycle change. Index is the body's
// registry slot at the time of the event; Other is the second body or
// cylinder involved, or -1.
type Event struct {
	Kind     EventKind
	Time     float64
	Index    int
	Other    int
	Face     geom.Face
	Position mgl64.Vec3
	Before   mgl64.Vec3
	After    mgl64.Vec3
}

// Stats counts events since construction or the last Restore.
type Stats struct {
	Ticks        int `json:"ticks" msgpack:"ticks"`
	WallHits     int `json:"wall_hits" msgpack:"wall_hits"`
	TopHits      int `json:"top_hits" msgpack:"top_hits"`
	PortalHits   int `json:"portal_hits" msgpack:"portal_hits"`
	CylinderHits int `json:"cylinder_hits" msgpack:"cylinder_hits"`
	SphereHits   int `json:"sphere_hits" msgpack:"sphere_hits"`
	StaticHits   int `json:"static_hits" msgpack:"static_hits"`
	Absorptions  int `json:"absorptions" msgpack:"absorptions"`
	Removals     int `json:"removals" msgpack:"removals"`
	Teleports    int `json:"teleports" msgpack:"teleports"`
	Spawns       int `json:"spawns" msgpack:"spawns"`
}

func (s *Stats) count(k EventKind) {
	switch k {
	case EventWall:
		s.WallHits++
	case EventTop:
		s.TopHits++
	case EventPortal:
		s.PortalHits++
	case EventCylinder:
		s.CylinderHits++
	case EventSphere:
		s.SphereHits++
	case EventStatic:
		s.StaticHits++
	case EventAbsorb:
		s.Absorptions++
	case EventRemove:
		s.Removals++
	case EventTeleport:
		s.Teleports++
	case EventSpawn:
		s.Spawns++
	}
}

func (w *World) emit(e Event) {
	e.Time = w.time
	w.stats.count(e.Kind)

	if w.debug {
		w.logger.Debug("collision",
			"kind", e.Kind,
			"index", e.Index,
			"other", e.Other,
			"face", e.Face,
			"position", e.Position,
			"before", e.Before,
			"after", e.After,
		)
	}
	if w.onEvent != nil {
		w.onEvent(e)
	}
}
