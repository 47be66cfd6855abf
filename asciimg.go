package asciimg

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
)

// Image represents decoded frames with a fluent API for configuration.
//
// The source frames are kept for the lifetime of the Image, so changing the
// size or filter after a Render or Play resamples again from the source.
type Image struct {
	frames *FrameSet

	// Configuration
	width      int
	height     int
	columns    int
	rows       int
	background bool
	filter     Filter
	loops      int
	inPlace    bool
	logger     log.Interface

	// Cached until the size or filter changes
	prepared *FrameSet
	geometry Geometry
}

// New creates a new Image from decoded frames. The Image takes ownership of fs
// and never modifies it.
func New(fs *FrameSet) *Image {
	if fs == nil {
		return nil
	}
	return &Image{
		frames: fs,
		filter: FilterAuto,
		loops:  1,
	}
}

// Width sets the target width in character cells
func (i *Image) Width(w int) *Image {
	i.width = w
	i.prepared = nil
	return i
}

// Height sets the target height in character cells
func (i *Image) Height(h int) *Image {
	i.height = h
	i.prepared = nil
	return i
}

// Size sets both width and height in character cells, disabling aspect correction
func (i *Image) Size(w, h int) *Image {
	i.width = w
	i.height = h
	i.prepared = nil
	return i
}

// Terminal sets the bounds used when neither width nor height is set
func (i *Image) Terminal(columns, rows int) *Image {
	i.columns = columns
	i.rows = rows
	i.prepared = nil
	return i
}

// Background colors cell backgrounds instead of glyphs
func (i *Image) Background(b bool) *Image {
	i.background = b
	return i
}

// Filter sets the resampling filter
func (i *Image) Filter(f Filter) *Image {
	i.filter = f
	i.prepared = nil
	return i
}

// Loops sets how many times an animation plays (negative loops forever)
func (i *Image) Loops(n int) *Image {
	i.loops = n
	return i
}

// InPlace redraws animation frames over each other
func (i *Image) InPlace(b bool) *Image {
	i.inPlace = b
	return i
}

// Logger sets the logger used for debug output
func (i *Image) Logger(l log.Interface) *Image {
	i.logger = l
	return i
}

// Info returns a short description of the source frames
func (i *Image) Info() string {
	fs := i.frames
	if fs == nil || fs.Len() == 0 {
		return "no frames"
	}
	return fmt.Sprintf("%dx%d, %d frame(s)", fs.Width(), fs.Height(), fs.Len())
}

// Geometry computes the output size without resampling
func (i *Image) Geometry() (Geometry, error) {
	if i.prepared != nil {
		return i.geometry, nil
	}
	if err := i.frames.Validate(); err != nil {
		return Geometry{}, err
	}
	return ComputeGeometry(i.frames.Width(), i.frames.Height(), SizeRequest{
		Width:   i.width,
		Height:  i.height,
		Columns: i.columns,
		Rows:    i.rows,
	})
}

// prepare fits and resamples the frames once
func (i *Image) prepare() (*FrameSet, error) {
	if i.prepared != nil {
		return i.prepared, nil
	}
	g, err := i.Geometry()
	if err != nil {
		return nil, err
	}
	// ResizeFrames consumes its argument; hand it a shallow copy so the source
	// frames survive for the next prepare. Resize never writes to a source buffer.
	src := &FrameSet{
		Frames: append([]*PixelBuffer(nil), i.frames.Frames...),
		Delays: i.frames.Delays,
	}
	resized, err := ResizeFrames(src, g, i.filter)
	if err != nil {
		return nil, err
	}
	i.prepared = resized
	i.geometry = g
	return resized, nil
}

// Render encodes the first frame and returns it as a string
func (i *Image) Render() (string, error) {
	fs, err := i.prepare()
	if err != nil {
		return "", err
	}
	tf, err := Render(fs.Frames[0], RenderOptions{BackgroundOnly: i.background})
	if err != nil {
		return "", err
	}
	return tf.String() + Reset, nil
}

// Play writes every frame to w, paced by the frame delays
func (i *Image) Play(ctx context.Context, w io.Writer) error {
	fs, err := i.prepare()
	if err != nil {
		return err
	}
	return NewPlayer(w, PlayOptions{
		Render:  RenderOptions{BackgroundOnly: i.background},
		Loops:   i.loops,
		InPlace: i.inPlace,
		Logger:  i.logger,
	}).Play(ctx, fs)
}

// Print plays the image to stdout
func (i *Image) Print() error {
	return i.Play(context.Background(), os.Stdout)
}
