package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// Containment is the fraction of frames in which every body sits within
// threshold of the vertical axis on X and Z.
type Containment struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewContainment(threshold float64) *Containment {
	return &Containment{
		name:      "containment",
		threshold: threshold,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f dynamo.Frame) {
	c.samples++
	for _, b := range f.Bodies {
		if math.Abs(b.Position.X()) > c.threshold || math.Abs(b.Position.Z()) > c.threshold {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
