package asciimg

const (
	// ColorSeqLen is the fixed length of a color or placeholder sequence, e.g. \x1b[38;2;255;007;042m
	ColorSeqLen = 19
	// ResetSeqLen is the length of Reset
	ResetSeqLen = 4
	// Reset clears all attributes
	Reset = "\x1b[0m"
)

// Mode selects what a color sequence paints
type Mode int

const (
	// Foreground colors the glyph (SGR 38)
	Foreground Mode = iota
	// Background colors the cell (SGR 48)
	Background
)

// transparentPlaceholder selects attributes that paint nothing, then writes and
// backs over four spaces so it occupies exactly ColorSeqLen bytes.
var transparentPlaceholder = [ColorSeqLen]byte{
	'\x1b', '[', '1', '1', ';', '3', '1', ';', '4', '9', 'm',
	' ', '\b', ' ', '\b', ' ', '\b', ' ', '\b',
}

// EncodeColor writes a truecolor SGR sequence for (r, g, b) into dst and
// returns ColorSeqLen. Every channel is zero-padded to three digits so the
// sequence length never varies. dst must hold at least ColorSeqLen bytes.
func EncodeColor(dst []byte, r, g, b uint8, mode Mode) int {
	_ = dst[ColorSeqLen-1]

	dst[0] = '\x1b'
	dst[1] = '['
	if mode == Background {
		dst[2] = '4'
	} else {
		dst[2] = '3'
	}
	dst[3] = '8'
	dst[4] = ';'
	dst[5] = '2'
	dst[6] = ';'
	putChannel(dst[7:10], r)
	dst[10] = ';'
	putChannel(dst[11:14], g)
	dst[14] = ';'
	putChannel(dst[15:18], b)
	dst[18] = 'm'

	return ColorSeqLen
}

func putChannel(dst []byte, v uint8) {
	dst[0] = '0' + v/100
	dst[1] = '0' + (v%100)/10
	dst[2] = '0' + v%10
}

// ColorSequence returns the sequence EncodeColor would write
func ColorSequence(r, g, b uint8, mode Mode) [ColorSeqLen]byte {
	var seq [ColorSeqLen]byte
	EncodeColor(seq[:], r, g, b, mode)
	return seq
}

// TransparentPlaceholder returns the sequence used for fully transparent cells
func TransparentPlaceholder() [ColorSeqLen]byte {
	return transparentPlaceholder
}
