package asciimg

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Filter selects the resampling kernel
type Filter int

const (
	// FilterAuto picks an area filter for heavy downscaling and a triangle filter otherwise
	FilterAuto Filter = iota
	// FilterBox averages the covered source area
	FilterBox
	// FilterTriangle is linear (tent) interpolation
	FilterTriangle
	// FilterCatmullRom is a sharper cubic
	FilterCatmullRom
	// FilterLanczos is Lanczos with a = 3
	FilterLanczos
	// FilterNearest is the fastest and lowest quality
	FilterNearest
	// FilterMitchell is the Mitchell-Netravali cubic, softer than Catmull-Rom
	FilterMitchell
)

var filterNames = map[Filter]string{
	FilterAuto:       "auto",
	FilterBox:        "box",
	FilterTriangle:   "triangle",
	FilterCatmullRom: "catmullrom",
	FilterLanczos:    "lanczos",
	FilterNearest:    "nearest",
	FilterMitchell:   "mitchell",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// FilterNames lists the accepted filter names
func FilterNames() []string {
	return []string{"auto", "box", "triangle", "catmullrom", "lanczos", "nearest", "mitchell"}
}

// ParseFilter returns the filter with the given name
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range filterNames {
		if n == name {
			return f, nil
		}
	}
	switch name {
	case "linear", "bilinear":
		return FilterTriangle, nil
	case "area":
		return FilterBox, nil
	}
	return FilterAuto, Errorf(KindArgument, "filter", "unknown filter %q (want one of %s)",
		name, strings.Join(FilterNames(), ", "))
}

// pickFilter resolves FilterAuto for a given scale
func pickFilter(f Filter, srcW, srcH, dstW, dstH int) Filter {
	if f != FilterAuto {
		return f
	}
	// For heavy downscaling average the whole covered area
	if srcW*srcH > dstW*dstH*4 {
		return FilterBox
	}
	return FilterTriangle
}

// Resize resamples buf to dstW x dstH.
//
// Resize takes ownership of buf and returns an owned buffer; callers must not
// reuse buf after the call. When the size is unchanged buf itself is returned
// and no filter runs.
func Resize(buf *PixelBuffer, dstW, dstH int, filter Filter) (*PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.Channels != Channels {
		return nil, Errorf(KindInput, "resize", "unsupported channel count %d", buf.Channels)
	}

	// Skip resize if already correct size
	if buf.Width == dstW && buf.Height == dstH {
		return buf, nil
	}

	size, err := bufferSize(dstW, dstH, Channels)
	if err != nil {
		return nil, err
	}

	src := buf.image()
	dstRect := image.Rect(0, 0, dstW, dstH)

	var out image.Image
	switch f := pickFilter(filter, buf.Width, buf.Height, dstW, dstH); f {
	case FilterBox, FilterTriangle:
		resampling := gift.LinearResampling
		if f == FilterBox {
			resampling = gift.BoxResampling
		}
		g := gift.New(gift.Resize(dstW, dstH, resampling))
		dst := image.NewNRGBA(g.Bounds(src.Bounds()))
		g.Draw(dst, src)
		out = dst
	case FilterCatmullRom, FilterNearest:
		var scaler xdraw.Scaler = xdraw.CatmullRom
		if f == FilterNearest {
			scaler = xdraw.NearestNeighbor
		}
		dst := image.NewNRGBA(dstRect)
		scaler.Scale(dst, dstRect, src, src.Bounds(), xdraw.Src, nil)
		out = dst
	case FilterLanczos:
		out = resize.Resize(uint(dstW), uint(dstH), src, resize.Lanczos3)
	case FilterMitchell:
		out = imaging.Resize(src, dstW, dstH, imaging.MitchellNetravali)
	default:
		return nil, Errorf(KindArgument, "resize", "unknown filter %s", f)
	}

	if out == nil || out.Bounds().Dx() != dstW || out.Bounds().Dy() != dstH {
		return nil, Errorf(KindFail, "resize", "resizing image to %dx%d failed", dstW, dstH)
	}

	resized, err := FromImage(out)
	if err != nil {
		return nil, err
	}
	if len(resized.Pix) != size {
		return nil, Errorf(KindFail, "resize", "resized buffer holds %d bytes, want %d", len(resized.Pix), size)
	}
	return resized, nil
}

// ResizeFrames resamples every frame of fs to g.
//
// ResizeFrames consumes fs: each source frame is released as soon as its
// resized copy exists, and fs must not be used after the call.
func ResizeFrames(fs *FrameSet, g Geometry, filter Filter) (*FrameSet, error) {
	if err := fs.Validate(); err != nil {
		return nil, err
	}

	out := &FrameSet{
		Frames: make([]*PixelBuffer, len(fs.Frames)),
		Delays: append(fs.Delays[:0:0], fs.Delays...),
	}
	for i, frame := range fs.Frames {
		resized, err := Resize(frame, g.Width, g.Height, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to resize frame %d: %w", i, err)
		}
		out.Frames[i] = resized
		fs.Frames[i] = nil
	}
	fs.Frames = nil
	fs.Delays = nil

	return out, nil
}
