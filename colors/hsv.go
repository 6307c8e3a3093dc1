package colors

// HSV converts a hue, saturation and value triple into RGB using the same
// integer pipeline as the Adafruit NeoPixel library, so patterns match the
// firmware this was written against.
//
// The hue is a 16 bit value where 65536 would be a full circle, 0 is red,
// 21845 green and 43690 blue. Saturation and value are 0-255
func HSV(hue uint16, sat, val uint8) RGB {
	// Remap 0-65535 onto 0-1529, the number of distinct pure hues available
	// with 8 bit channels, rounding to the nearest
	h := (uint32(hue)*1530 + 32768) / 65536

	var r, g, b uint32
	switch {
	case h < 510: // red to green
		b = 0
		if h < 255 {
			r = 255
			g = h
		} else {
			r = 510 - h
			g = 255
		}
	case h < 1020: // green to blue
		r = 0
		if h < 765 {
			g = 255
			b = h - 510
		} else {
			g = 1020 - h
			b = 255
		}
	case h < 1530: // blue to red
		g = 0
		if h < 1275 {
			r = h - 1020
			b = 255
		} else {
			r = 255
			b = 1530 - h
		}
	default: // rounding pushed the hue back onto red
		r = 255
	}

	v1 := 1 + uint32(val)
	s1 := 1 + uint32(sat)
	s2 := 255 - uint32(sat)

	return RGB{
		R: uint8((((r*s1)>>8 + s2) * v1) >> 8),
		G: uint8((((g*s1)>>8 + s2) * v1) >> 8),
		B: uint8((((b*s1)>>8 + s2) * v1) >> 8),
	}
}

// HSV565 is HSV quantised to 5-6-5
func HSV565(hue uint16, sat, val uint8) uint16 {
	return HSV(hue, sat, val).To565().Packed()
}
