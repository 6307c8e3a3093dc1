package strip

// Helpers applied to a complete frame, after the program has rendered it and
// before it is flushed to the hardware. Nothing in here is used by the
// programs themselves.

import (
	"image/color"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
)

// ApplyBrightness multiplies every channel of every pixel by brightness,
// saturating rather than wrapping
func ApplyBrightness(buf []color.RGBA, brightness float64) {
	for idx := range buf {
		buf[idx].R = colors.Clamp(float64(buf[idx].R) * brightness)
		buf[idx].G = colors.Clamp(float64(buf[idx].G) * brightness)
		buf[idx].B = colors.Clamp(float64(buf[idx].B) * brightness)
	}
}

// CurrentDraw estimates the current pulled by a frame in amps. Each channel is
// a PWM driven LED so it draws perChannel amps at full scale and a
// proportional share below that
func CurrentDraw(buf []color.RGBA, perChannel float64) (amps float64) {
	total := 0
	for _, px := range buf {
		total += int(px.R) + int(px.G) + int(px.B)
	}
	return float64(total) / 255 * perChannel
}

// PowerDraw is CurrentDraw multiplied out by the supply voltage
func PowerDraw(buf []color.RGBA, perChannel float64, voltage float64) (watts float64) {
	return CurrentDraw(buf, perChannel) * voltage
}
