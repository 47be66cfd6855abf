package asciimg

import (
	"io"
)

const (
	cellSize = ColorSeqLen + 1 // sequence and glyph
	rowTail  = ResetSeqLen + 1 // reset and newline
	sentinel = 0
)

// RenderOptions contains all options for rendering a frame
type RenderOptions struct {
	// BackgroundOnly colors cell backgrounds and leaves glyphs blank
	BackgroundOnly bool
}

// TextFrame is one encoded frame, ready to be written to a terminal.
//
// The buffer is sized once for a Geometry and rewritten by every RenderFrame
// call; its previous contents are never read.
type TextFrame struct {
	buf    []byte
	width  int
	height int
}

// TextFrameSize returns the exact number of bytes a width x height frame occupies
func TextFrameSize(width, height int) int {
	return width*height*cellSize + height*rowTail + 1
}

// NewTextFrame allocates a frame buffer for g
func NewTextFrame(g Geometry) (*TextFrame, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, Errorf(KindInput, "text frame", "invalid geometry %s", g)
	}
	if g.Width > MaxPixels/g.Height {
		return nil, Errorf(KindMemory, "text frame", "geometry %s exceeds %d cells", g, MaxPixels)
	}
	return &TextFrame{
		buf:    make([]byte, TextFrameSize(g.Width, g.Height)),
		width:  g.Width,
		height: g.Height,
	}, nil
}

// Geometry returns the frame size in cells
func (tf *TextFrame) Geometry() Geometry {
	return Geometry{Width: tf.width, Height: tf.height}
}

// Bytes returns the whole buffer including the trailing sentinel
func (tf *TextFrame) Bytes() []byte { return tf.buf }

// Payload returns the displayable bytes, without the sentinel
func (tf *TextFrame) Payload() []byte { return tf.buf[:len(tf.buf)-1] }

// String returns a copy of the payload
func (tf *TextFrame) String() string { return string(tf.Payload()) }

// WriteTo writes the payload to w in a single Write call
func (tf *TextFrame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(tf.Payload())
	return int64(n), err
}

// RenderFrame encodes buf into dst, overwriting it in place.
// buf must be RGBA and match dst's geometry.
func RenderFrame(dst *TextFrame, buf *PixelBuffer, opts RenderOptions) error {
	if dst == nil {
		return Errorf(KindInput, "render", "nil text frame")
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Channels != Channels {
		return Errorf(KindInput, "render", "unsupported channel count %d", buf.Channels)
	}
	if buf.Width != dst.width || buf.Height != dst.height {
		return Errorf(KindInput, "render", "frame is %dx%d, text frame is %dx%d",
			buf.Width, buf.Height, dst.width, dst.height)
	}

	mode := Foreground
	if opts.BackgroundOnly {
		mode = Background
	}

	out := dst.buf
	cursor := 0
	for row := 0; row < buf.Height; row++ {
		for col := 0; col < buf.Width; col++ {
			px := buf.Pixel(row, col)
			if px[3] > 0 {
				cursor += EncodeColor(out[cursor:], px[0], px[1], px[2], mode)
				if opts.BackgroundOnly {
					out[cursor] = ' '
				} else {
					out[cursor] = GlyphFor(px[0], px[1], px[2])
				}
			} else {
				cursor += copy(out[cursor:], transparentPlaceholder[:])
				out[cursor] = ' '
			}
			cursor++
		}
		cursor += copy(out[cursor:], Reset)
		out[cursor] = '\n'
		cursor++
	}
	out[cursor] = sentinel

	return nil
}

// Render allocates a TextFrame sized for buf and encodes buf into it
func Render(buf *PixelBuffer, opts RenderOptions) (*TextFrame, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	tf, err := NewTextFrame(Geometry{Width: buf.Width, Height: buf.Height})
	if err != nil {
		return nil, err
	}
	if err := RenderFrame(tf, buf, opts); err != nil {
		return nil, err
	}
	return tf, nil
}
