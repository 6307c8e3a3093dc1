/*
Package animation contains the strip programs, each one generating the colour
of every LED on a strip for a given point in time.
*/
package animation

import (
	"math"
	"math/rand"
	"time"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
	"github.com/Axil12/ws2812b-christmas-strip/noise"
)

// Strip is the view of the pixel buffer that programs draw into. Indices run
// from 0 to NumPixels()-1 in physical order along the strip
type Strip interface {
	NumPixels() int
	SetPixel(idx int, c colors.RGB)
	Fill(c colors.RGB)
}

// Program is implemented by every animation that can drive a strip
type Program interface {
	// Render overwrites the strip with the frame for time t, in seconds.
	// Successive calls on the same program should use non-decreasing times
	Render(s Strip, t float64)
}

// Rand is the source of random draws used by the programs that spawn stars,
// *math/rand.Rand satisfies it
type Rand interface {
	Intn(n int) int
}

func defaultRand(rnd Rand) Rand {
	if rnd != nil {
		return rnd
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func defaultNoise(src noise.Source) noise.Source {
	if src != nil {
		return src
	}
	return noise.New(0)
}

// Static fills the strip with one colour
type Static struct {
	Color colors.RGB
}

// NewStatic creates a program showing a single fixed colour
func NewStatic(c colors.RGB) *Static {
	return &Static{Color: c}
}

// Render implements Program
func (p *Static) Render(s Strip, _ float64) {
	s.Fill(p.Color)
}

// Spectral cycles the whole strip around the colour wheel, one turn every
// 1/Speed seconds
type Spectral struct {
	Speed float64
}

// NewSpectral creates a Spectral program
func NewSpectral(speed float64) *Spectral {
	return &Spectral{Speed: speed}
}

// Render implements Program
func (p *Spectral) Render(s Strip, t float64) {
	s.Fill(colors.HSV(colors.Phase(t*p.Speed), 255, 255))
}

// RainbowWave lays Waves complete rainbows along the strip and scrolls them
// from the end of the strip towards the start
type RainbowWave struct {
	Speed float64
	Waves int
}

// NewRainbowWave creates a RainbowWave program
func NewRainbowWave(speed float64, waves int) *RainbowWave {
	return &RainbowWave{Speed: speed, Waves: waves}
}

// Render implements Program
func (p *RainbowWave) Render(s Strip, t float64) {
	n := s.NumPixels()
	offset := frac(t * p.Speed)
	for x := 0; x < n; x++ {
		phase := float64(p.Waves) * (offset + float64(x)/float64(n))
		s.SetPixel(n-x-1, colors.HSV(colors.Phase(phase), 255, 255))
	}
}

// frac is the positive fractional part of v
func frac(v float64) float64 {
	f := math.Mod(v, 1)
	if f < 0 {
		f++
	}
	return f
}
