/*
Package colors contains the colour conversions and small waveform helpers used
by the strip programs. Everything in here is a pure function.
*/
package colors

import (
	"fmt"
	"image/color"
	"math"
)

// RGB is an 8 bit per channel colour as pushed to a WS2812 pixel
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{}
	White = RGB{0xff, 0xff, 0xff}
)

// RGBA implements color.Color, the alpha channel is always opaque
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ToRGBA is the image/color form of the colour used by the frame buffers
func (c RGB) ToRGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0xff}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Model converts any color.Color into an RGB value
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
})

// FromRGBA drops the alpha channel of a frame buffer pixel
func FromRGBA(c color.RGBA) RGB {
	return RGB{c.R, c.G, c.B}
}

// Interpolate blends c1 into c2 channel by channel, frac 0 gives c1 and frac 1
// gives c2. Values outside of [0,1] extrapolate and saturate
func Interpolate(c1, c2 RGB, frac float64) RGB {
	return RGB{
		R: lerp(c1.R, c2.R, frac),
		G: lerp(c1.G, c2.G, frac),
		B: lerp(c1.B, c2.B, frac),
	}
}

// Interpolate888 blends two packed 0x00RRGGBB colours
func Interpolate888(c1, c2 uint32, frac float64) uint32 {
	return Interpolate(FromPacked(c1), FromPacked(c2), frac).Packed()
}

// Interpolate565 blends two packed 5-6-5 colours. The blend is done at 8 bit
// resolution and truncated on the way back out
func Interpolate565(c1, c2 uint16, frac float64) uint16 {
	return Interpolate(RGB565(c1).To888(), RGB565(c2).To888(), frac).To565().Packed()
}

// Fade scales every channel by factor, saturating at the channel limits
func Fade(c RGB, factor float64) RGB {
	return RGB{
		R: Clamp(float64(c.R) * factor),
		G: Clamp(float64(c.G) * factor),
		B: Clamp(float64(c.B) * factor),
	}
}

// Clamp rounds a channel value down into the 0-255 range. NaN maps to 0
func Clamp(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func lerp(a, b uint8, frac float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*frac
	return Clamp(math.Round(v))
}

// SquareWave is 1 for the first half of every period and 0 for the second
// half. Negative times wrap into the period
func SquareWave(t, period float64) float64 {
	if period == 0 {
		return 0
	}
	period = math.Abs(period)
	phase := math.Mod(t, period)
	if phase < 0 {
		phase += period
	}
	if phase < period/2 {
		return 1
	}
	return 0
}

// Phase maps a phase, where 1.0 is a full turn of the colour wheel, onto the
// 16 bit hue circle. Values past a full turn, or negative, wrap around
func Phase(p float64) uint16 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	frac := p - math.Floor(p)
	return uint16(int64(math.Floor(frac*65536)) & 0xffff)
}
