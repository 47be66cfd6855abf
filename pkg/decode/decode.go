/*
Package decode turns encoded image bytes into an asciimg.FrameSet of RGBA frames.

PNG, JPEG, BMP, TIFF, WebP and QOI decode to a single frame with a zero delay. GIFs
decode to one fully composited frame per image, honouring disposal methods, with
the GIF's per-frame delays.
*/
package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/go-asciimg"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// gifDelayUnit is the resolution of GIF frame delays
const gifDelayUnit = 10 * time.Millisecond

var formats = []string{"png", "jpeg", "gif", "bmp", "tiff", "webp", "qoi"}

var aliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// Formats lists the supported format names
func Formats() []string {
	return append([]string(nil), formats...)
}

// NormalizeFormat maps an extension or format name ("GIF", ".jpg") to a
// supported format name
func NormalizeFormat(hint string) (string, bool) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hint), "."))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	for _, f := range formats {
		if f == name {
			return f, true
		}
	}
	return "", false
}

// Decode decodes data into frames. hint is the declared format or file
// extension; it may be empty. The format is detected from the data itself and
// a mismatching hint is only logged.
func Decode(data []byte, hint string) (*asciimg.FrameSet, error) {
	if len(data) == 0 {
		return nil, asciimg.Errorf(asciimg.KindInput, "decode", "empty input")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, asciimg.NewError(asciimg.KindInput, "decode", fmt.Errorf("failed to detect image format: %w", err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, asciimg.Errorf(asciimg.KindInput, "decode", "empty image %dx%d", cfg.Width, cfg.Height)
	}
	if declared, ok := NormalizeFormat(hint); ok && declared != format {
		log.WithFields(log.Fields{"declared": declared, "detected": format}).Debug("format hint does not match data")
	}

	var fs *asciimg.FrameSet
	if format == "gif" {
		fs, err = decodeGIF(data)
	} else {
		fs, err = decodeStill(data)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"format": format,
		"width":  fs.Width(),
		"height": fs.Height(),
		"frames": fs.Len(),
	}).Debug("decoded image")

	return fs, fs.Validate()
}

// DecodeReader reads r to the end and decodes it
func DecodeReader(r io.Reader, hint string) (*asciimg.FrameSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, asciimg.NewError(asciimg.KindInput, "read", err)
	}
	return Decode(data, hint)
}

// DecodeFile reads and decodes the file at path, using its extension as hint
func DecodeFile(path string) (*asciimg.FrameSet, error) {
	if path == "" {
		return nil, asciimg.Errorf(asciimg.KindInput, "read", "no file name provided")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, asciimg.NewError(asciimg.KindInput, "read", fmt.Errorf("failed to open file: %w", err))
	}
	if len(data) == 0 {
		return nil, asciimg.Errorf(asciimg.KindInput, "read", "%s is empty", path)
	}
	return Decode(data, filepath.Ext(path))
}

func decodeStill(data []byte) (*asciimg.FrameSet, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, asciimg.NewError(asciimg.KindInput, "decode", fmt.Errorf("failed to decode image: %w", err))
	}
	frame, err := asciimg.FromImage(img)
	if err != nil {
		return nil, err
	}
	return &asciimg.FrameSet{
		Frames: []*asciimg.PixelBuffer{frame},
		Delays: []time.Duration{0},
	}, nil
}

func decodeGIF(data []byte) (*asciimg.FrameSet, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, asciimg.NewError(asciimg.KindInput, "decode", fmt.Errorf("failed to decode gif: %w", err))
	}
	if len(g.Image) == 0 {
		return nil, asciimg.Errorf(asciimg.KindInput, "decode", "gif has no frames")
	}

	canvases := compositeFrames(g)

	fs := &asciimg.FrameSet{
		Frames: make([]*asciimg.PixelBuffer, len(canvases)),
		Delays: make([]time.Duration, len(canvases)),
	}
	for i, canvas := range canvases {
		frame, err := asciimg.FromImage(canvas)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		fs.Frames[i] = frame
		canvases[i] = nil
		if i < len(g.Delay) && g.Delay[i] > 0 {
			fs.Delays[i] = time.Duration(g.Delay[i]) * gifDelayUnit
		}
	}
	return fs, nil
}

// compositeFrames draws every GIF frame onto a full-size canvas, respecting disposal modes
func compositeFrames(g *gif.GIF) []*image.RGBA {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	result := make([]*image.RGBA, len(g.Image))

	for i, frame := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var prev *image.RGBA
		if disposal == gif.DisposalPrevious {
			prev = cloneRGBA(canvas)
		}

		xdraw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, xdraw.Over)
		result[i] = cloneRGBA(canvas)

		switch disposal {
		case gif.DisposalBackground:
			xdraw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
		case gif.DisposalPrevious:
			canvas = prev
		}
	}

	return result
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	return cp
}
