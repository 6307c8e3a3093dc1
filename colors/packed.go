package colors

// Packed colour encodings used by the strip drivers, 0x00RRGGBB for the 32 bit
// form and 5-6-5 for the 16 bit form.

// RGB565 is a colour packed as rrrrrggg gggbbbbb
type RGB565 uint16

// Packed returns the raw 16 bit value
func (c RGB565) Packed() uint16 {
	return uint16(c)
}

// To888 expands the 5 and 6 bit channels to 8 bits by replicating the high
// bits into the low bits, so full scale stays full scale
func (c RGB565) To888() RGB {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f
	return RGB{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
	}
}

// To565 truncates the colour to 5-6-5
func (c RGB) To565() RGB565 {
	return RGB565(uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3))
}

// Packed returns the colour as 0x00RRGGBB
func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromPacked unpacks a 0x00RRGGBB colour, the high byte is ignored
func FromPacked(c uint32) RGB {
	return RGB{uint8(c >> 16), uint8(c >> 8), uint8(c)}
}

// Pack565To888 expands a packed 5-6-5 colour into 0x00RRGGBB
func Pack565To888(c uint16) uint32 {
	return RGB565(c).To888().Packed()
}

// Pack888To565 truncates a 0x00RRGGBB colour into 5-6-5
func Pack888To565(c uint32) uint16 {
	return FromPacked(c).To565().Packed()
}
