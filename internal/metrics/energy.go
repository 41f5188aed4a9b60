package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// KineticEnergy is the mean total kinetic energy over all observed frames.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f dynamo.Frame) {
	e.totalEnergy += FrameEnergy(f)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// FrameEnergy sums 1/2 m |v|^2 over the frame's bodies.
func FrameEnergy(f dynamo.Frame) float64 {
	total := 0.0
	for _, b := range f.Bodies {
		total += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return total
}

// MomentumDrift is the largest relative deviation of total momentum from
// the first observed frame.
type MomentumDrift struct {
	name     string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f dynamo.Frame) {
	if m.samples == 0 {
		m.initial = f.Momentum
	}
	m.current = f.Momentum
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(f.Momentum-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = 0
	m.current = 0
	m.maxDrift = 0
	m.samples = 0
}
