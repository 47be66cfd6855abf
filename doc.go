/*
Package asciimg renders raster images, including animated GIFs, as colored ASCII
art using 24-bit truecolor ANSI escape sequences.

Every pixel becomes one character cell: a fixed-width color sequence followed by
a glyph picked from a 15 step brightness ramp. Because every cell has the same
encoded size, the byte size of a rendered frame is known up front and a single
buffer is reused for every frame of an animation.

Pipeline:

  - decode (see pkg/decode) yields a FrameSet of RGBA buffers and delays
  - ComputeGeometry fits the image to the terminal, halving the source height
    to compensate for tall character cells
  - ResizeFrames resamples every frame to the target size
  - Player renders each frame into one TextFrame and writes it, sleeping out
    the remainder of each frame's delay

Basic Usage:

	fs, err := decode.DecodeFile("cat.gif")
	if err != nil {
	    log.Fatal(err)
	}

	cols, rows, err := tty.Size()
	if err != nil {
	    log.Fatal(err)
	}

	err = asciimg.New(fs).
	    Terminal(cols, rows).
	    Filter(asciimg.FilterTriangle).
	    Play(ctx, os.Stdout)

Lower level:

	tf, _ := asciimg.NewTextFrame(asciimg.Geometry{Width: 80, Height: 24})
	for _, frame := range frames.Frames {
	    asciimg.RenderFrame(tf, frame, asciimg.RenderOptions{})
	    tf.WriteTo(os.Stdout)
	}

Text frame layout:

	cell  = 19 byte color sequence (or transparent placeholder) + glyph
	row   = width cells + "\x1b[0m" + "\n"
	frame = height rows + sentinel byte

Errors returned by this package carry a Kind, retrievable with KindOf, that maps
to a process exit code.
*/
package asciimg
