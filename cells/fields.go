package cells

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// VelocityField maps a sampling location to a flow velocity
type VelocityField func(m r2.Vec) r2.Vec

// ScalarSource maps a sampling location to the initial amount of oil
type ScalarSource func(m r2.Vec) float64

// Fields are the analytic fields sampled at each cell midpoint during construction
type Fields struct {
	Velocity VelocityField
	Oil      ScalarSource
}

var (
	OilSpillCenter = r2.Vec{X: 0.35, Y: 0.45}
	PlumeWidth     = 0.01
)

func DefaultFields() Fields {
	return Fields{
		Velocity: DefaultVelocity,
		Oil:      DefaultOilSource,
	}
}

// DefaultVelocity is v = (y - 0.2x, -x)
func DefaultVelocity(m r2.Vec) r2.Vec {
	return r2.Vec{X: m.Y - 0.2*m.X, Y: -m.X}
}

// DefaultOilSource is a gaussian plume centered on the spill
func DefaultOilSource(m r2.Vec) float64 {
	d := r2.Sub(m, OilSpillCenter)
	return math.Exp(-r2.Dot(d, d) / PlumeWidth)
}

// NewGaussianPlume is the default oil source at a different center and width
func NewGaussianPlume(center r2.Vec, width float64) ScalarSource {
	return func(m r2.Vec) float64 {
		d := r2.Sub(m, center)
		return math.Exp(-r2.Dot(d, d) / width)
	}
}

func (f Fields) withDefaults() Fields {
	if f.Velocity == nil {
		f.Velocity = DefaultVelocity
	}
	if f.Oil == nil {
		f.Oil = DefaultOilSource
	}
	return f
}
