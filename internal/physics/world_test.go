package physics_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/physics"
)

// unitDensity gives a radius 0.5 sphere a mass of 1.
var unitDensity = 1 / dynamo.SphereMass(0.5, 1)

// emptyScene has one remote segment, no cylinders, no gravity and a
// sink parked far from the origin.
func emptyScene() config.Scene {
	return config.Scene{
		Gravity:       mgl64.Vec3{},
		Restitution:   0.8,
		SpawnInterval: 1,
		WallExtent:    5,
		BaseYaw:       geom.DefaultYaw,
		Bounds:        config.BoundsConfig{Floor: -10, HalfExtent: 20},
		Teleport:      config.TeleportConfig{Range: 3, Height: 8},
		Segments:      []config.SegmentConfig{{Height: 100}},
		Bodies: []config.BodyConfig{
			{Position: mgl64.Vec3{50, 50, 50}, Radius: 1, Static: true},
		},
	}
}

func ball(pos, vel mgl64.Vec3) config.BodyConfig {
	return config.BodyConfig{Position: pos, Velocity: vel, Radius: 0.5, Density: unitDensity}
}

func newWorld(cfg config.Scene, opts ...physics.Option) *physics.World {
	w, err := physics.New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func expectVec(got, want mgl64.Vec3, tol float64) {
	for k := 0; k < 3; k++ {
		ExpectWithOffset(1, got[k]).To(BeNumerically("~", want[k], tol), "component %d of %v", k, got)
	}
}

var _ = Describe("World", func() {
	Describe("construction", func() {
		It("rejects a scene without segments", func() {
			cfg := emptyScene()
			cfg.Segments = nil
			_, err := physics.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrNoSegments))
		})

		It("rejects a dynamic body at the sink slot", func() {
			cfg := emptyScene()
			cfg.Bodies[0].Static = false
			_, err := physics.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrNoSink))
		})

		It("builds the default scene", func() {
			w := newWorld(*config.DefaultConfig())
			Expect(w.Len()).To(Equal(3))
			Expect(w.Segments()).To(HaveLen(5))
			Expect(w.Cylinders()).To(HaveLen(6))
			Expect(w.Axes()).To(HaveLen(6))
		})
	})

	Describe("integration", func() {
		It("applies gravity then velocity to free bodies", func() {
			cfg := emptyScene()
			cfg.Gravity = config.DefaultGravity
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 2, 3}))
			w := newWorld(cfg)

			dt := 0.1
			w.Advance(dt)

			wantV := mgl64.Vec3{1, 2, 3}.Add(config.DefaultGravity.Mul(dt))
			wantP := mgl64.Vec3{0, 5, 0}.Add(wantV.Mul(dt))
			b := w.Body(1)
			Expect(b.Velocity).To(Equal(wantV))
			Expect(b.Position).To(Equal(wantP))
			Expect(b.PrevPosition).To(Equal(mgl64.Vec3{0, 5, 0}))
			Expect(w.Time()).To(Equal(dt))
		})

		It("leaves static bodies in place", func() {
			cfg := emptyScene()
			cfg.Gravity = config.DefaultGravity
			w := newWorld(cfg)
			w.Advance(0.5)
			Expect(w.Body(0).Position).To(Equal(mgl64.Vec3{50, 50, 50}))
		})

		It("treats a non-positive dt as a no-op", func() {
			cfg := emptyScene()
			cfg.Gravity = config.DefaultGravity
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 0}))
			cfg.Spawns = []config.BodyConfig{ball(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{})}
			w := newWorld(cfg)

			w.Advance(0)
			w.Advance(-1)

			Expect(w.Len()).To(Equal(2))
			Expect(w.Body(1).Position).To(Equal(mgl64.Vec3{0, 5, 0}))
			Expect(w.Time()).To(BeZero())
			Expect(w.Stats().Ticks).To(BeZero())
		})
	})

	Describe("box walls", func() {
		var (
			cfg    config.Scene
			events []physics.Event
		)

		BeforeEach(func() {
			cfg = emptyScene()
			cfg.Segments = []config.SegmentConfig{{Height: 0}}
			events = nil
		})

		record := physics.WithEventHandler(func(e physics.Event) { events = append(events, e) })

		It("reflects off the near-z wall and rolls back", func() {
			start := mgl64.Vec3{0, 5, -4.5}
			cfg.Bodies = append(cfg.Bodies, ball(start, mgl64.Vec3{0, 0, -3}))
			w := newWorld(cfg, record)

			w.Advance(0.01)

			b := w.Body(1)
			Expect(b.Position).To(Equal(start))
			Expect(b.Position).To(Equal(b.PrevPosition))
			expectVec(b.Velocity, mgl64.Vec3{0, 0, 1.8}, 1e-2)

			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(physics.EventWall))
			Expect(events[0].Face).To(Equal(geom.NearZ))
			Expect(w.Stats().WallHits).To(Equal(1))
		})

		It("resolves only the near-z face in a near corner", func() {
			start := mgl64.Vec3{-4.6, 5, -4.6}
			v := mgl64.Vec3{-1, 0, -1}
			cfg.Bodies = append(cfg.Bodies, ball(start, v))
			w := newWorld(cfg, record)

			near := geom.NewWall(cfg.Frame(), 0, 5, geom.NearZ)
			other := geom.NewWall(cfg.Frame(), 0, 5, geom.NearX)
			Expect(near.Penetrates(start, 0.5)).To(BeTrue())
			Expect(other.Penetrates(start, 0.5)).To(BeTrue())

			w.Advance(0.01)

			Expect(events).To(HaveLen(1))
			Expect(events[0].Face).To(Equal(geom.NearZ))
			expectVec(w.Body(1).Velocity, near.Reflect(v, 0.8), 1e-12)
			expectVec(near.Normal, mgl64.Vec3{0, 0, -1}, 1e-3)
			Expect(w.Body(1).Position).To(Equal(start))
			Expect(w.Stats().WallHits).To(Equal(1))
		})

		It("does not touch bodies inside the footprint", func() {
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 1}))
			w := newWorld(cfg, record)
			w.Advance(0.01)
			Expect(events).To(BeEmpty())
			Expect(w.Body(1).Velocity).To(Equal(mgl64.Vec3{1, 0, 1}))
		})

		It("bounces off a lid with the fixed normal", func() {
			cfg.Segments[0].Top = true
			start := mgl64.Vec3{0, 9.8, 0}
			cfg.Bodies = append(cfg.Bodies, ball(start, mgl64.Vec3{0, 5, 0}))
			w := newWorld(cfg, record)

			w.Advance(0.01)

			b := w.Body(1)
			Expect(b.Position).To(Equal(start))
			Expect(b.Velocity.Y()).To(BeNumerically("~", 5*(1-1.6*0.707*0.707), 1e-9))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(physics.EventTop))
		})

		It("teleports bodies through a portal bottom", func() {
			cfg.Segments[0].Bottom = true
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{0, 0.4, 0}, mgl64.Vec3{0, -1, 0}))
			w := newWorld(cfg, record)

			w.Advance(0.01)

			b := w.Body(1)
			Expect(b.Position.Y()).To(Equal(8.0))
			Expect(b.Velocity).To(Equal(mgl64.Vec3{0, -1, 0}))
			Expect(w.Stats().PortalHits).To(Equal(1))
			Expect(w.Stats().Teleports).To(Equal(1))
		})
	})

	Describe("cylinders", func() {
		It("reflects about the contact normal with restitution", func() {
			cfg := emptyScene()
			cfg.BaseYaw = 0
			cfg.Cylinders = []config.CylinderConfig{{Position: mgl64.Vec3{0, 10, 0}, Length: 5, Radius: 1}}
			start := mgl64.Vec3{0, 11.2, 0}
			cfg.Bodies = append(cfg.Bodies, ball(start, mgl64.Vec3{0, -2, 0}))
			w := newWorld(cfg)

			w.Advance(0.01)

			b := w.Body(1)
			Expect(b.Position).To(Equal(start))
			expectVec(b.Velocity, mgl64.Vec3{0, 1.6, 0}, 1e-6)
			Expect(w.Stats().CylinderHits).To(Equal(1))
		})

		It("ignores bodies beyond the combined radius", func() {
			cfg := emptyScene()
			cfg.BaseYaw = 0
			cfg.Cylinders = []config.CylinderConfig{{Position: mgl64.Vec3{0, 10, 0}, Length: 5, Radius: 1}}
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{0, 13, 0}, mgl64.Vec3{0, -2, 0}))
			w := newWorld(cfg)
			w.Advance(0.01)
			Expect(w.Body(1).Velocity).To(Equal(mgl64.Vec3{0, -2, 0}))
		})
	})

	Describe("sphere pairs", func() {
		It("swaps equal-mass head-on velocities", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies,
				ball(mgl64.Vec3{-0.45, 0, 0}, mgl64.Vec3{2, 0, 0}),
				ball(mgl64.Vec3{0.45, 0, 0}, mgl64.Vec3{-2, 0, 0}),
			)
			w := newWorld(cfg)
			Expect(w.Body(1).Mass).To(BeNumerically("~", 1.0, 1e-12))
			p0 := w.Momentum()

			w.Advance(0.01)

			a, b := w.Body(1), w.Body(2)
			expectVec(a.Velocity, mgl64.Vec3{-2, 0, 0}, 1e-12)
			expectVec(b.Velocity, mgl64.Vec3{2, 0, 0}, 1e-12)
			Expect(a.Position).To(Equal(mgl64.Vec3{-0.45, 0, 0}))
			Expect(b.Position).To(Equal(mgl64.Vec3{0.45, 0, 0}))
			Expect(w.Momentum()).To(BeNumerically("~", p0, 1e-9))
			Expect(w.Stats().SphereHits).To(Equal(1))
		})

		It("reverses a body that hits an equal-mass static sphere", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies,
				ball(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}),
				ball(mgl64.Vec3{0.95, 0, 0}, mgl64.Vec3{}),
			)
			cfg.Bodies[2].Static = true
			w := newWorld(cfg)

			w.Advance(0.01)

			expectVec(w.Body(1).Velocity, mgl64.Vec3{-2, 0, 0}, 1e-12)
			Expect(w.Body(2).Position).To(Equal(mgl64.Vec3{0.95, 0, 0}))
			Expect(w.Stats().StaticHits).To(Equal(1))
		})

		It("resolves a body against one partner per tick", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies,
				ball(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
				ball(mgl64.Vec3{0.9, 0, 0}, mgl64.Vec3{-1, 0, 0}),
				ball(mgl64.Vec3{-0.9, 0, 0}, mgl64.Vec3{1, 0, 0}),
			)
			w := newWorld(cfg)

			w.Advance(0.01)

			expectVec(w.Body(1).Velocity, mgl64.Vec3{-1, 0, 0}, 1e-12)
			expectVec(w.Body(2).Velocity, mgl64.Vec3{}, 1e-12)
			third := w.Body(3)
			Expect(third.Velocity).To(Equal(mgl64.Vec3{1, 0, 0}))
			expectVec(third.Position, mgl64.Vec3{-0.89, 0, 0}, 1e-12)
			Expect(third.Position).NotTo(Equal(third.PrevPosition))
			Expect(w.Stats().SphereHits).To(Equal(1))
		})

		It("leaves massless pairs untouched", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies,
				ball(mgl64.Vec3{-0.45, 0, 0}, mgl64.Vec3{2, 0, 0}),
				ball(mgl64.Vec3{0.45, 0, 0}, mgl64.Vec3{-2, 0, 0}),
			)
			cfg.Bodies[1].Density = 0
			cfg.Bodies[2].Density = 0
			w := newWorld(cfg)

			w.Advance(0.01)

			Expect(w.Body(1).Velocity).To(Equal(mgl64.Vec3{2, 0, 0}))
			Expect(w.Body(2).Velocity).To(Equal(mgl64.Vec3{-2, 0, 0}))
			Expect(w.Stats().SphereHits).To(BeZero())
		})
	})

	Describe("absorption", func() {
		sinkScene := func(at mgl64.Vec3) config.Scene {
			cfg := emptyScene()
			cfg.Bodies[0] = config.BodyConfig{Radius: 3.5, Static: true}
			cfg.Bodies = append(cfg.Bodies, config.BodyConfig{Position: at, Radius: 0.6, Density: 0.0014})
			return cfg
		}

		It("shrinks a body to its distance from the sink surface", func() {
			w := newWorld(sinkScene(mgl64.Vec3{4, 0, 0}))

			w.Advance(0.01)

			Expect(w.Len()).To(Equal(2))
			b := w.Body(1)
			Expect(b.Radius).To(BeNumerically("~", 0.5, 1e-12))
			Expect(b.Mass).To(BeNumerically("~", dynamo.SphereMass(0.5, 0.0014), 1e-15))
			Expect(b.Static).To(BeFalse())
			Expect(w.Stats().Absorptions).To(Equal(1))
		})

		It("removes a body swallowed past the surface", func() {
			w := newWorld(sinkScene(mgl64.Vec3{3.4, 0, 0}))
			before := w.Len()

			w.Advance(0.01)

			Expect(w.Len()).To(Equal(before - 1))
			Expect(w.Body(0).Radius).To(Equal(3.5))
			Expect(w.Stats().Removals).To(Equal(1))
		})
	})

	Describe("teleport", func() {
		It("respawns bodies that drop below the floor", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{1, -9.99, 1}, mgl64.Vec3{0, -5, 0}))
			w := newWorld(cfg, physics.WithRand(rand.New(rand.NewSource(7))))

			w.Advance(0.01)

			b := w.Body(1)
			Expect(b.Position.Y()).To(Equal(cfg.TeleportHeight()))
			Expect(b.Position.X()).To(BeNumerically("<=", 3))
			Expect(b.Position.X()).To(BeNumerically(">=", -3))
			Expect(b.Position.Z()).To(BeNumerically("<=", 3))
			Expect(b.Position.Z()).To(BeNumerically(">=", -3))
			Expect(b.Velocity).To(Equal(mgl64.Vec3{0, -5, 0}))
		})

		It("respawns bodies outside the horizontal bounds", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{19.99, 0, 0}, mgl64.Vec3{5, 0, 0}))
			w := newWorld(cfg)
			w.Advance(0.01)
			Expect(w.Body(1).Position.Y()).To(Equal(cfg.TeleportHeight()))
		})

		It("resets every body except the sink", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies,
				ball(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 0, 0}),
				ball(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{-1, 0, 0}),
			)
			w := newWorld(cfg)

			w.ResetAll()

			Expect(w.Body(0).Position).To(Equal(mgl64.Vec3{50, 50, 50}))
			for i := 1; i < w.Len(); i++ {
				Expect(w.Body(i).Position.Y()).To(Equal(cfg.TeleportHeight()))
			}
			Expect(w.Body(1).Velocity).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(w.Stats().Teleports).To(Equal(2))
		})

		It("is reproducible for a fixed seed", func() {
			cfg := emptyScene()
			cfg.Bodies = append(cfg.Bodies, ball(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{}))
			a := newWorld(cfg, physics.WithRand(rand.New(rand.NewSource(42))))
			b := newWorld(cfg, physics.WithRand(rand.New(rand.NewSource(42))))
			a.ResetAll()
			b.ResetAll()
			Expect(a.Body(1).Position).To(Equal(b.Body(1).Position))
		})
	})

	Describe("spawning", func() {
		It("waits one interval before the first batch", func() {
			cfg := emptyScene()
			cfg.Spawns = []config.BodyConfig{ball(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{})}
			w := newWorld(cfg)

			for i := 0; i < 4; i++ {
				w.Advance(0.25)
			}
			Expect(w.Len()).To(Equal(1))

			w.Advance(0.25)
			Expect(w.Len()).To(Equal(2))
			Expect(w.Body(1).Position).To(Equal(mgl64.Vec3{10, 0, 0}))

			for i := 0; i < 3; i++ {
				w.Advance(0.25)
			}
			Expect(w.Len()).To(Equal(2))
			w.Advance(0.25)
			Expect(w.Len()).To(Equal(3))
			Expect(w.Stats().Spawns).To(Equal(2))
		})

		It("keeps the default scene moving before the first batch", func() {
			w := newWorld(*config.DefaultConfig())
			start := w.Body(1).Position
			n := w.Len()

			for i := 0; i < 120; i++ {
				w.Advance(1.0 / 60)
			}

			Expect(w.Len()).To(Equal(n))
			Expect(w.Stats().Spawns).To(BeZero())
			Expect(w.Body(1).Position).NotTo(Equal(start))
		})
	})

	Describe("snapshots", func() {
		It("restores bodies, clock and counters", func() {
			w := newWorld(*config.DefaultConfig())
			for i := 0; i < 30; i++ {
				w.Advance(1.0 / 60)
			}
			snap := w.Snapshot()

			for i := 0; i < 30; i++ {
				w.Advance(1.0 / 60)
			}
			Expect(w.Restore(snap)).To(Succeed())

			Expect(w.Time()).To(Equal(snap.Time))
			Expect(w.Stats()).To(Equal(snap.Stats))
			Expect(w.Len()).To(Equal(len(snap.Bodies)))
			for i := range snap.Bodies {
				Expect(w.Body(i)).To(Equal(snap.Bodies[i]))
			}
		})

		It("rejects a snapshot from another layout", func() {
			w := newWorld(*config.DefaultConfig())
			snap := w.Snapshot()
			other := newWorld(emptyScene())
			Expect(other.Restore(snap)).To(MatchError(dynamo.ErrSnapshotMismatch))
		})
	})
})
