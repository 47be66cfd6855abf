package asciimg

import (
	"fmt"
	"image"
	"time"

	xdraw "golang.org/x/image/draw"
)

const (
	// Channels is the channel count every decoded buffer is normalized to (RGBA)
	Channels = 4
	// MaxPixels bounds the size of any single buffer the pipeline will allocate
	MaxPixels = 1 << 26
)

// PixelBuffer is a contiguous, row-major, non-premultiplied pixel buffer.
//
// A PixelBuffer is treated as immutable once produced. Operations that take a
// *PixelBuffer and return a new one take ownership of their argument; callers
// must not reuse the argument afterwards.
type PixelBuffer struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// NewPixelBuffer allocates a zeroed buffer of the given shape
func NewPixelBuffer(width, height, channels int) (*PixelBuffer, error) {
	size, err := bufferSize(width, height, channels)
	if err != nil {
		return nil, err
	}
	return &PixelBuffer{
		Pix:      make([]byte, size),
		Width:    width,
		Height:   height,
		Channels: channels,
	}, nil
}

// bufferSize returns width*height*channels, refusing shapes that are empty or too large
func bufferSize(width, height, channels int) (int, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return 0, Errorf(KindInput, "buffer", "empty image %dx%dx%d", width, height, channels)
	}
	if width > MaxPixels/height {
		return 0, Errorf(KindMemory, "buffer", "image %dx%d exceeds %d pixels", width, height, MaxPixels)
	}
	return width * height * channels, nil
}

// Validate checks the length invariant
func (p *PixelBuffer) Validate() error {
	if p == nil {
		return Errorf(KindInput, "buffer", "nil pixel buffer")
	}
	size, err := bufferSize(p.Width, p.Height, p.Channels)
	if err != nil {
		return err
	}
	if len(p.Pix) != size {
		return Errorf(KindInput, "buffer", "buffer holds %d bytes, want %d for %dx%dx%d",
			len(p.Pix), size, p.Width, p.Height, p.Channels)
	}
	return nil
}

// Pixel returns the channel values at (row, col) as a sub-slice of Pix
func (p *PixelBuffer) Pixel(row, col int) []byte {
	return SamplePixel(p.Pix, row, col, p.Width, p.Channels)
}

// SamplePixel extracts one pixel from a flat row-major buffer.
// The returned slice aliases pix.
func SamplePixel(pix []byte, row, col, width, channels int) []byte {
	off := (row*width + col) * channels
	return pix[off : off+channels : off+channels]
}

// FromImage copies img into a new RGBA buffer
func FromImage(img image.Image) (*PixelBuffer, error) {
	b := img.Bounds()
	if _, err := bufferSize(b.Dx(), b.Dy(), Channels); err != nil {
		return nil, err
	}

	if src, ok := img.(*image.NRGBA); ok && src.Stride == b.Dx()*Channels {
		pix := make([]byte, b.Dx()*b.Dy()*Channels)
		copy(pix, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):])
		return &PixelBuffer{Pix: pix, Width: b.Dx(), Height: b.Dy(), Channels: Channels}, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return &PixelBuffer{Pix: dst.Pix, Width: b.Dx(), Height: b.Dy(), Channels: Channels}, nil
}

// image wraps the buffer as an *image.NRGBA sharing Pix. Only valid for 4 channels.
func (p *PixelBuffer) image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Width * p.Channels,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// FrameSet is an ordered sequence of same-shaped frames with per-frame delays.
// A still image has one frame and a zero delay.
type FrameSet struct {
	Frames []*PixelBuffer
	Delays []time.Duration
}

// Len returns the number of frames
func (fs *FrameSet) Len() int { return len(fs.Frames) }

// Width returns the shared frame width
func (fs *FrameSet) Width() int { return fs.Frames[0].Width }

// Height returns the shared frame height
func (fs *FrameSet) Height() int { return fs.Frames[0].Height }

// Animated reports whether the set holds more than one frame
func (fs *FrameSet) Animated() bool { return len(fs.Frames) > 1 }

// Validate checks that the set is non-empty, frames share one shape and delays line up
func (fs *FrameSet) Validate() error {
	if fs == nil || len(fs.Frames) == 0 {
		return Errorf(KindInput, "frames", "no frames")
	}
	if len(fs.Frames) != len(fs.Delays) {
		return Errorf(KindInput, "frames", "%d frames but %d delays", len(fs.Frames), len(fs.Delays))
	}
	first := fs.Frames[0]
	for i, f := range fs.Frames {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if f.Width != first.Width || f.Height != first.Height || f.Channels != first.Channels {
			return Errorf(KindInput, "frames", "frame %d is %dx%dx%d, want %dx%dx%d", i,
				f.Width, f.Height, f.Channels, first.Width, first.Height, first.Channels)
		}
		if fs.Delays[i] < 0 {
			return Errorf(KindInput, "frames", "frame %d has negative delay %s", i, fs.Delays[i])
		}
	}
	return nil
}
