/*
Package strip holds the in memory pixel buffer a frame is rendered into before
being pushed to the hardware, along with the brightness and power helpers that
operate on a finished frame.
*/
package strip

import (
	"image"
	"image/color"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
)

// Buffer is a fixed length run of pixels, index 0 being the first pixel on the
// physical strip. Pixels are held at 8 bits per channel with the alpha channel
// pinned to opaque
type Buffer struct {
	pixels []color.RGBA
}

// NewBuffer creates a buffer of n black pixels
func NewBuffer(n int) *Buffer {
	if n < 0 {
		n = 0
	}
	buf := &Buffer{pixels: make([]color.RGBA, n)}
	buf.Fill(colors.Black)
	return buf
}

// NumPixels returns the length of the strip
func (buf *Buffer) NumPixels() int {
	return len(buf.pixels)
}

// SetPixel sets a single pixel, indices off the strip are ignored
func (buf *Buffer) SetPixel(idx int, c colors.RGB) {
	if idx < 0 || idx >= len(buf.pixels) {
		return
	}
	buf.pixels[idx] = c.ToRGBA()
}

// Fill sets every pixel to the same colour
func (buf *Buffer) Fill(c colors.RGB) {
	rgba := c.ToRGBA()
	for idx := range buf.pixels {
		buf.pixels[idx] = rgba
	}
}

// Pixel returns the colour of a pixel, black for indices off the strip
func (buf *Buffer) Pixel(idx int) colors.RGB {
	if idx < 0 || idx >= len(buf.pixels) {
		return colors.Black
	}
	return colors.FromRGBA(buf.pixels[idx])
}

// Packed888 returns a pixel as 0x00RRGGBB
func (buf *Buffer) Packed888(idx int) uint32 {
	return buf.Pixel(idx).Packed()
}

// Packed565 returns a pixel truncated to 5-6-5
func (buf *Buffer) Packed565(idx int) uint16 {
	return buf.Pixel(idx).To565().Packed()
}

// Pixels exposes the backing slice. It is reused between frames so callers
// should copy it if they need to hold onto a frame
func (buf *Buffer) Pixels() []color.RGBA {
	return buf.pixels
}

// ApplyBrightness scales the whole frame, see ApplyBrightness
func (buf *Buffer) ApplyBrightness(brightness float64) {
	ApplyBrightness(buf.pixels, brightness)
}

// CurrentDraw estimates the current in amps the frame would pull
func (buf *Buffer) CurrentDraw(perChannel float64) float64 {
	return CurrentDraw(buf.pixels, perChannel)
}

// PowerDraw estimates the power in watts the frame would pull at the given
// supply voltage
func (buf *Buffer) PowerDraw(perChannel float64, voltage float64) float64 {
	return PowerDraw(buf.pixels, perChannel, voltage)
}

// Image renders the strip as a single row image where each LED is a square of
// size by size pixels
func (buf *Buffer) Image(size int) *image.RGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, len(buf.pixels)*size, size))
	for idx, px := range buf.pixels {
		for x := idx * size; x < (idx+1)*size; x++ {
			for y := 0; y < size; y++ {
				img.SetRGBA(x, y, px)
			}
		}
	}
	return img
}
