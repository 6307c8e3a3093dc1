package animation

// Programs driven by a coherent noise field. The strip position is the first
// noise axis, divided down by Scale, and time is the second.

import (
	"math"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
	"github.com/Axil12/ws2812b-christmas-strip/noise"
)

const (
	// DefaultNoiseScale is the number of pixels per unit of noise space
	DefaultNoiseScale = 10.0

	sparkleFloor = 0.025
)

func noiseScale(scale float64) float64 {
	if scale == 0 || math.IsNaN(scale) {
		return DefaultNoiseScale
	}
	return scale
}

// DiffuseSparkling is a slowly drifting field of soft sparkles in one colour
type DiffuseSparkling struct {
	Speed float64
	Scale float64
	Hue   uint16
	Sat   uint8

	noise noise.Source
}

// NewDiffuseSparkling creates a DiffuseSparkling program, a nil src uses
// OpenSimplex noise
func NewDiffuseSparkling(speed, scale float64, hue uint16, sat uint8, src noise.Source) *DiffuseSparkling {
	return &DiffuseSparkling{
		Speed: speed,
		Scale: noiseScale(scale),
		Hue:   hue,
		Sat:   sat,
		noise: defaultNoise(src),
	}
}

// Render implements Program
func (p *DiffuseSparkling) Render(s Strip, t float64) {
	for x := 0; x < s.NumPixels(); x++ {
		intensity := 0.5 * (1 + p.noise.Eval(float64(x)/p.Scale, t*p.Speed))
		intensity = math.Max(intensity*intensity, sparkleFloor)
		s.SetPixel(x, colors.HSV(p.Hue, p.Sat, colors.Clamp(intensity*255)))
	}
}

// BiColorPerlin splits the noise field in two, positive values show the first
// colour and negative values the second, each brightest at the extremes
type BiColorPerlin struct {
	Speed      float64
	Scale      float64
	Hue1, Hue2 uint16
	Sat1, Sat2 uint8

	noise noise.Source
}

// NewBiColorPerlin creates a BiColorPerlin program, a nil src uses
// OpenSimplex noise
func NewBiColorPerlin(speed, scale float64, hue1, hue2 uint16, sat1, sat2 uint8, src noise.Source) *BiColorPerlin {
	return &BiColorPerlin{
		Speed: speed,
		Scale: noiseScale(scale),
		Hue1:  hue1,
		Hue2:  hue2,
		Sat1:  sat1,
		Sat2:  sat2,
		noise: defaultNoise(src),
	}
}

// Render implements Program
func (p *BiColorPerlin) Render(s Strip, t float64) {
	for x := 0; x < s.NumPixels(); x++ {
		v := p.noise.Eval(float64(x)/p.Scale, t*p.Speed)
		if v > 0 {
			s.SetPixel(x, colors.HSV(p.Hue1, p.Sat1, colors.Clamp(v*255)))
		} else {
			s.SetPixel(x, colors.HSV(p.Hue2, p.Sat2, colors.Clamp(-v*255)))
		}
	}
}

// TriColorPerlin blends out from a neutral middle colour, towards the first
// colour for positive noise and the third colour for negative noise
type TriColorPerlin struct {
	Speed float64
	Scale float64

	// full brightness versions of the three colours, the second being neutral
	color1, color2, color3 colors.RGB
	noise                  noise.Source
}

// NewTriColorPerlin creates a TriColorPerlin program, a nil src uses
// OpenSimplex noise
func NewTriColorPerlin(speed, scale float64, hue1, hue2, hue3 uint16, sat1, sat2, sat3 uint8, src noise.Source) *TriColorPerlin {
	return &TriColorPerlin{
		Speed:  speed,
		Scale:  noiseScale(scale),
		color1: colors.HSV(hue1, sat1, 255),
		color2: colors.HSV(hue2, sat2, 255),
		color3: colors.HSV(hue3, sat3, 255),
		noise:  defaultNoise(src),
	}
}

// Render implements Program
func (p *TriColorPerlin) Render(s Strip, t float64) {
	for x := 0; x < s.NumPixels(); x++ {
		v := p.noise.Eval(float64(x)/p.Scale, t*p.Speed)
		if v > 0 {
			s.SetPixel(x, colors.Interpolate(p.color2, p.color1, math.Min(1.5*v, 1)))
		} else {
			s.SetPixel(x, colors.Interpolate(p.color2, p.color3, math.Min(-1.5*v, 1)))
		}
	}
}
