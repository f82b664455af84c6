// Package tour provides pluggable drivers that animate the axis basis on a
// timer, on top of the same Rotate/Flip operations the pointer uses.
package tour

import (
	"math"

	"grandtour/engine"
)

// Driver advances an automated tour by one timestep.
type Driver interface {
	// Step applies dt seconds of motion to the axes.
	Step(axes *engine.Axes, dt float64)
}

// Spinner rotates every axis at a distinct constant angular velocity, a
// simple continuous tour through in-plane bases.
type Spinner struct {
	rates []float64 // radians per second
}

// NewSpinner creates a spinner for n axes. Rates are incommensurate-ish so
// the walk does not repeat quickly.
func NewSpinner(n int) *Spinner {
	s := &Spinner{rates: make([]float64, n)}
	for i := range s.rates {
		s.rates[i] = 0.2 + 0.13*float64(i)*math.Phi
	}
	return s
}

// Step implements Driver.
func (s *Spinner) Step(axes *engine.Axes, dt float64) {
	n := axes.Len()
	if n > len(s.rates) {
		n = len(s.rates)
	}
	for i := 0; i < n; i++ {
		axes.Rotate(i, s.rates[i]*dt)
	}
}
