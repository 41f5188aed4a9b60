package physics

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

// World is the simulation state. It is not safe for concurrent use; the
// caller owns it exclusively between ticks.
type World struct {
	registry  *dynamo.Registry
	templates []dynamo.Body

	frame      geom.Frame
	extent     float64
	segments   []dynamo.Segment
	enclosures []geom.Enclosure
	cylinders  []dynamo.Cylinder
	axes       []geom.Axis

	gravity       mgl64.Vec3
	restitution   float64
	spawnInterval float64
	bounds        config.BoundsConfig
	teleportRange float64
	teleportY     float64

	time       float64
	spawnClock float64
	stats      Stats

	rng     *rand.Rand
	logger  *log.Logger
	debug   bool
	onEvent func(Event)

	// per-tick scratch, indexed like the registry
	teleported []bool
	paired     []bool
}

type Option func(*World)

// WithRand sets the source used for teleport destinations.
func WithRand(r *rand.Rand) Option {
	return func(w *World) { w.rng = r }
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithEventHandler registers fn to receive every resolver event.
func WithEventHandler(fn func(Event)) Option {
	return func(w *World) { w.onEvent = fn }
}

// New validates cfg and builds the world. Configuration problems are the
// only errors the package reports.
func New(cfg config.Scene, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	w := &World{
		frame:         cfg.Frame(),
		extent:        cfg.WallExtent,
		gravity:       cfg.Gravity,
		restitution:   cfg.Restitution,
		spawnInterval: cfg.SpawnInterval,
		spawnClock:    -cfg.SpawnInterval,
		bounds:        cfg.Bounds,
		teleportRange: cfg.Teleport.Range,
		teleportY:     cfg.TeleportHeight(),
		debug:         cfg.Debug,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	bodies := make([]dynamo.Body, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		bodies[i] = b.Body()
		bodies[i].PrevPosition = bodies[i].Position
	}
	w.registry = dynamo.NewRegistry(bodies...)

	for _, b := range cfg.Spawns {
		t := b.Body()
		t.PrevPosition = t.Position
		w.templates = append(w.templates, t)
	}

	for _, s := range cfg.Segments {
		seg := s.Segment()
		w.segments = append(w.segments, seg)
		w.enclosures = append(w.enclosures, geom.NewEnclosure(w.frame, seg.Height, w.extent))
	}
	for _, c := range cfg.Cylinders {
		cyl := c.Cylinder()
		w.cylinders = append(w.cylinders, cyl)
		w.axes = append(w.axes, geom.NewAxis(w.frame, cyl.Position, cyl.Length, cyl.XRotation, cyl.YRotation))
	}

	w.logger.Debug("world created",
		"bodies", w.registry.Len(),
		"segments", len(w.segments),
		"cylinders", len(w.cylinders),
		"templates", len(w.templates),
	)
	return w, nil
}

// Advance runs one tick of dt seconds. A non-positive dt does nothing.
func (w *World) Advance(dt float64) {
	if dt <= 0 {
		return
	}

	w.spawn(dt)
	w.beginTick()
	w.integrate(dt)
	w.resolveWalls()
	w.resolveCylinders()
	w.resolveSpheres(dt)

	w.registry.Compact()
	w.time += dt
	w.stats.Ticks++
}

// ResetAll teleports every body except the sink.
func (w *World) ResetAll() {
	w.beginTick()
	for i := 0; i < w.registry.Len(); i++ {
		if i == dynamo.SinkIndex {
			continue
		}
		w.teleport(i)
	}
}

func (w *World) beginTick() {
	n := w.registry.Len()
	w.teleported = resize(w.teleported, n)
	w.paired = resize(w.paired, n)
}

func resize(s []bool, n int) []bool {
	if cap(s) < n {
		return make([]bool, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// spawn appends value copies of the templates whenever the clock turns
// positive. The clock starts one interval in the past, so the first batch
// lands after spawnInterval seconds.
func (w *World) spawn(dt float64) {
	if len(w.templates) == 0 {
		return
	}
	w.spawnClock += dt
	if w.spawnClock <= 0 {
		return
	}
	for _, t := range w.templates {
		i := w.registry.Append(t)
		w.emit(Event{Kind: EventSpawn, Index: i, Other: -1, Face: geom.NoFace, Position: t.Position, Before: t.Velocity, After: t.Velocity})
	}
	w.spawnClock = -w.spawnInterval
}

func (w *World) Bodies() []dynamo.BodyView { return w.registry.Views() }

// AppendBodies appends the current body views to dst.
func (w *World) AppendBodies(dst []dynamo.BodyView) []dynamo.BodyView {
	return w.registry.AppendViews(dst)
}

// Body returns a copy of the body at index i.
func (w *World) Body(i int) dynamo.Body { return *w.registry.At(i) }

func (w *World) Len() int { return w.registry.Len() }

func (w *World) Segments() []dynamo.Segment {
	return append([]dynamo.Segment(nil), w.segments...)
}

func (w *World) Cylinders() []dynamo.Cylinder {
	return append([]dynamo.Cylinder(nil), w.cylinders...)
}

// Axes returns the world-space cylinder axes in configuration order.
func (w *World) Axes() []geom.Axis {
	return append([]geom.Axis(nil), w.axes...)
}

func (w *World) Frame() geom.Frame { return w.frame }

func (w *World) WallExtent() float64 { return w.extent }

// Momentum returns the sum of mass * |velocity| over all bodies.
func (w *World) Momentum() float64 { return w.registry.Momentum() }

func (w *World) Time() float64 { return w.time }

func (w *World) Stats() Stats { return w.stats }
