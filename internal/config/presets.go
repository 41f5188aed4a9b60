package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

var Presets = map[string]func() *Scene{
	"default": DefaultConfig,
	"open": func() *Scene {
		c := DefaultConfig()
		c.Name = "open"
		c.Cylinders = nil
		return c
	},
	"single": func() *Scene {
		c := DefaultConfig()
		c.Name = "single"
		c.Bodies = c.Bodies[:2]
		c.Spawns = nil
		return c
	},
	"crowd": func() *Scene {
		c := DefaultConfig()
		c.Name = "crowd"
		c.SpawnInterval = 2.0
		c.Spawns = append(c.Spawns,
			BodyConfig{
				Name:     "lime",
				Velocity: mgl64.Vec3{-6, 0, 5},
				Position: mgl64.Vec3{0, 42.5, -3},
				Color:    mgl64.Vec3{0.4, 0.9, 0.2},
				Radius:   0.5,
				Density:  0.002,
			},
			BodyConfig{
				Name:     "violet",
				Velocity: mgl64.Vec3{4, 0, -9},
				Position: mgl64.Vec3{0, 42.5, 3},
				Color:    mgl64.Vec3{0.6, 0.3, 0.9},
				Radius:   0.7,
				Density:  0.0012,
			},
		)
		return c
	},
	"lossless": func() *Scene {
		c := DefaultConfig()
		c.Name = "lossless"
		c.Restitution = 1.0
		return c
	},
	"moon": func() *Scene {
		c := DefaultConfig()
		c.Name = "moon"
		c.Gravity = mgl64.Vec3{0, -1.62, 0}
		return c
	},
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Scene {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
