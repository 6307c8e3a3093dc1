package animation

// Programs built on a field of stars, each LED independently fading up to full
// brightness and back down again after being picked at random.

import (
	"github.com/Axil12/ws2812b-christmas-strip/colors"
)

// StarState is the lifecycle position of a single star
type StarState uint8

const (
	// Inactive stars are dark and may be picked to light up
	Inactive StarState = iota
	// Rising stars brighten each frame until they reach full intensity
	Rising
	// Falling stars dim each frame until they go dark
	Falling
)

const (
	maxIntensity = 255.0

	// DefaultStarAttempts is the number of spawn attempts made per frame
	DefaultStarAttempts = 3
	// DefaultStarProbability is the percentage chance of a spawn attempt
	// picking a pixel for RandomStars
	DefaultStarProbability = 5
	// DefaultTwinkleProbability is the spawn percentage for RainbowTwinkle
	DefaultTwinkleProbability = 20
)

// starField carries the per pixel state shared by RandomStars and
// RainbowTwinkle. All slices are sized once, when the program is created
type starField struct {
	// Attempts is the number of spawn attempts per frame
	Attempts int
	// Probability is the percentage chance, 0-100, that an attempt picks a
	// pixel. Values over 100 always pick
	Probability int

	states      []StarState
	intensities []float64
	hues        []uint16
	rnd         Rand
}

func newStarField(leds int, probability int, rnd Rand) starField {
	if leds < 0 {
		leds = 0
	}
	return starField{
		Attempts:    DefaultStarAttempts,
		Probability: probability,
		states:      make([]StarState, leds),
		intensities: make([]float64, leds),
		hues:        make([]uint16, leds),
		rnd:         defaultRand(rnd),
	}
}

// spawn makes the frame's spawn attempts. Picking a star that is already lit
// has no effect. randomHue gives each newly lit star its own hue
func (f *starField) spawn(randomHue bool) {
	if len(f.states) == 0 {
		return
	}
	for i := 0; i < f.Attempts; i++ {
		if f.rnd.Intn(100) >= f.Probability {
			continue
		}
		idx := f.rnd.Intn(len(f.states))
		if f.states[idx] != Inactive {
			continue
		}
		f.states[idx] = Rising
		if randomHue {
			f.hues[idx] = uint16(f.rnd.Intn(0x10000))
		}
	}
}

// step advances every star by one frame. A star flips direction on the frame
// after it saturates, so full brightness and darkness each last one frame
func (f *starField) step(speed float64) {
	for x, state := range f.states {
		switch state {
		case Rising:
			if f.intensities[x] >= maxIntensity {
				f.states[x] = Falling
				continue
			}
			f.intensities[x] = clampIntensity(f.intensities[x] + speed)
		case Falling:
			if f.intensities[x] <= 0 {
				f.states[x] = Inactive
				continue
			}
			f.intensities[x] = clampIntensity(f.intensities[x] - speed)
		}
	}
}

// intensity returns the brightness of pixel x, pixels past the end of the
// field are dark
func (f *starField) intensity(x int) uint8 {
	if x >= len(f.intensities) {
		return 0
	}
	return colors.Clamp(f.intensities[x])
}

// State reports the lifecycle state and intensity of pixel x
func (f *starField) State(x int) (StarState, float64) {
	if x < 0 || x >= len(f.states) {
		return Inactive, 0
	}
	return f.states[x], f.intensities[x]
}

func clampIntensity(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > maxIntensity:
		return maxIntensity
	}
	return v
}

// RandomStars lights random pixels which fade in and out in a single colour
type RandomStars struct {
	starField

	Speed float64
	Hue   uint16
	Sat   uint8
}

// NewRandomStars creates a RandomStars program for a strip of leds pixels.
// speed is the intensity change per frame, out of 255
func NewRandomStars(speed float64, hue uint16, sat uint8, leds int, rnd Rand) *RandomStars {
	return &RandomStars{
		starField: newStarField(leds, DefaultStarProbability, rnd),
		Speed:     speed,
		Hue:       hue,
		Sat:       sat,
	}
}

// Render implements Program
func (p *RandomStars) Render(s Strip, _ float64) {
	p.spawn(false)
	p.step(p.Speed)

	for x := 0; x < s.NumPixels(); x++ {
		s.SetPixel(x, colors.HSV(p.Hue, p.Sat, p.intensity(x)))
	}
}

// RainbowTwinkle behaves like RandomStars except every star gets a hue of its
// own when it lights up
type RainbowTwinkle struct {
	starField

	Speed float64
}

// NewRainbowTwinkle creates a RainbowTwinkle program for a strip of leds
// pixels
func NewRainbowTwinkle(speed float64, leds int, rnd Rand) *RainbowTwinkle {
	return &RainbowTwinkle{
		starField: newStarField(leds, DefaultTwinkleProbability, rnd),
		Speed:     speed,
	}
}

// Render implements Program
func (p *RainbowTwinkle) Render(s Strip, _ float64) {
	p.spawn(true)
	p.step(p.Speed)

	for x := 0; x < s.NumPixels(); x++ {
		hue := uint16(0)
		if x < len(p.hues) {
			hue = p.hues[x]
		}
		s.SetPixel(x, colors.HSV(hue, 255, p.intensity(x)))
	}
}
