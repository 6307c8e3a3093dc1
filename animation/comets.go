package animation

import (
	"math"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
)

const (
	// DefaultComets is the number of comets NewComets creates when asked for
	// none
	DefaultComets = 3
	// DefaultCometFade is the share of brightness a trail keeps each frame
	DefaultCometFade = 0.75

	cometSpacing = 20
)

// cometSizes is cycled through when there are more comets than entries
var cometSizes = []int{5, 4, 3}

type comet struct {
	position   float64
	direction  float64 // +1 or -1
	heading    float64 // direction of travel during the last frame
	multiplier float64
	size       int
	color      colors.RGB
}

// Comets bounces a handful of bright heads along the strip, each leaving a
// fading tail behind it
type Comets struct {
	Speed float64
	Fade  float64

	comets []comet
	trail  []colors.RGB
}

// NewComets creates n comets on a strip of leds pixels. Comets start 20 pixels
// apart, get progressively smaller and faster, and have hues spread evenly
// around the wheel starting from hue
func NewComets(speed float64, n int, leds int, hue uint16) *Comets {
	if n <= 0 {
		n = DefaultComets
	}
	if leds < 0 {
		leds = 0
	}
	p := &Comets{
		Speed:  speed,
		Fade:   DefaultCometFade,
		comets: make([]comet, n),
		trail:  make([]colors.RGB, leds),
	}
	last := math.Max(0, float64(leds-1))
	for i := range p.comets {
		p.comets[i] = comet{
			position:   math.Min(float64(i*cometSpacing), last),
			direction:  1,
			heading:    1,
			multiplier: 1 + 0.1*float64(i),
			size:       cometSizes[i%len(cometSizes)],
			color:      colors.HSV(hue+uint16(i*0x10000/n), 255, 255),
		}
	}
	return p
}

// Comet reports the position and direction of travel of comet i
func (p *Comets) Comet(i int) (position, direction float64) {
	return p.comets[i].position, p.comets[i].direction
}

// Render implements Program
func (p *Comets) Render(s Strip, _ float64) {
	for idx := range p.trail {
		p.trail[idx] = colors.Fade(p.trail[idx], p.Fade)
	}

	for i := range p.comets {
		p.advance(&p.comets[i])
		p.draw(&p.comets[i])
	}

	for x := 0; x < s.NumPixels(); x++ {
		if x < len(p.trail) {
			s.SetPixel(x, p.trail[x])
		} else {
			s.SetPixel(x, colors.Black)
		}
	}
}

// advance moves a comet one frame, bouncing off either end of the strip. The
// comet stops exactly on the end pixel and turns round there
func (p *Comets) advance(c *comet) {
	if len(p.trail) == 0 {
		return
	}
	last := float64(len(p.trail) - 1)
	c.heading = c.direction
	velocity := c.direction * c.multiplier * p.Speed
	pos := c.position + velocity

	switch {
	case velocity > 0 && pos >= last:
		pos = last
		c.direction = -c.direction
	case velocity < 0 && pos <= 0:
		pos = 0
		c.direction = -c.direction
	}
	c.position = math.Max(0, math.Min(last, pos))
}

// draw lights the head of a comet, which extends back from its position
// against the direction it travelled this frame. A head that would run off
// either end of the strip is slid back on so it always keeps its full size
func (p *Comets) draw(c *comet) {
	last := len(p.trail) - 1
	if last < 0 {
		return
	}
	travel := c.heading
	if p.Speed < 0 {
		travel = -travel
	}

	head := int(math.Round(c.position))
	lo, hi := head, head
	if travel > 0 {
		lo = head - (c.size - 1)
	} else {
		hi = head + (c.size - 1)
	}
	if lo < 0 {
		hi -= lo
		lo = 0
	}
	if hi > last {
		lo -= hi - last
		hi = last
	}
	if lo < 0 {
		lo = 0
	}
	for idx := lo; idx <= hi; idx++ {
		p.trail[idx] = c.color
	}
}
