package asciimg

// intensityTable maps brightness to ASCII, least intense first
var intensityTable = [...]byte{' ', '.', ',', ':', ';', 'i', 'l', 't', 'f', 'L', 'C', 'G', '0', '8', '@'}

// Luma approximates perceived brightness, truncated to a byte
func Luma(r, g, b uint8) uint8 {
	return uint8(0.2989*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// GlyphForLuma returns the intensity glyph for a brightness value.
// The byte range is split into len(intensityTable) equal buckets rather than
// len(intensityTable)-1, so the densest glyph stays reachable and white maps
// to '@'.
func GlyphForLuma(v uint8) byte {
	key := int(v) * len(intensityTable) / 256
	if key >= len(intensityTable) {
		key = len(intensityTable) - 1
	}
	return intensityTable[key]
}

// GlyphFor returns the intensity glyph for an RGB triple
func GlyphFor(r, g, b uint8) byte {
	return GlyphForLuma(Luma(r, g, b))
}
