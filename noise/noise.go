/*
Package noise supplies the coherent noise field sampled by the perlin style
strip programs.
*/
package noise

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Source is a deterministic, continuous noise function returning values in
// the range [-1, 1]
type Source interface {
	Eval(x, y float64) float64
}

// Func adapts an ordinary function into a Source
type Func func(x, y float64) float64

// Eval calls f(x, y)
func (f Func) Eval(x, y float64) float64 {
	return f(x, y)
}

type simplex struct {
	noise opensimplex.Noise
}

// New returns two dimensional OpenSimplex noise for the given seed
func New(seed int64) Source {
	return &simplex{noise: opensimplex.New(seed)}
}

// Eval samples the field, the result is clamped as OpenSimplex can overshoot
// its nominal range by a small amount
func (s *simplex) Eval(x, y float64) float64 {
	v := s.noise.Eval2(x, y)
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
