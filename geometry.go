package asciimg

import "fmt"

// Geometry is the rendered output size in character cells
type Geometry struct {
	Width  int
	Height int
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// SizeRequest describes how the output size should be chosen.
// Width and Height are explicit user requests (0 when unset); Columns and Rows
// are the detected terminal size used when neither is requested.
type SizeRequest struct {
	Width   int
	Height  int
	Columns int
	Rows    int
}

// FitToBounds shrinks srcW x srcH to fit boundW x boundH, keeping the aspect
// ratio. Width is fitted first, then height; sizes never grow.
func FitToBounds(srcW, srcH, boundW, boundH int) (Geometry, error) {
	if srcW <= 0 || srcH <= 0 {
		return Geometry{}, Errorf(KindInput, "fit", "empty source %dx%d", srcW, srcH)
	}
	if boundW <= 0 || boundH <= 0 {
		return Geometry{}, Errorf(KindEnvironment, "fit", "invalid bounds %dx%d", boundW, boundH)
	}

	w, h := srcW, srcH
	if boundW < w {
		h = boundW * h / w
		w = boundW
	}
	if boundH < h {
		w = boundH * w / h
		h = boundH
	}

	return Geometry{Width: max(w, 1), Height: max(h, 1)}, nil
}

// skewHeight halves the source height to compensate for character cells being
// roughly twice as tall as they are wide
func skewHeight(srcH int) int {
	return max(srcH/2, 1)
}

// ComputeGeometry derives the output size for a srcW x srcH image.
//
// An explicit width and height are used unmodified. With only one of them the
// other follows from the source aspect ratio, without skew correction. With
// neither, the image is fitted into the terminal after halving its height.
func ComputeGeometry(srcW, srcH int, req SizeRequest) (Geometry, error) {
	if srcW <= 0 || srcH <= 0 {
		return Geometry{}, Errorf(KindInput, "geometry", "empty source %dx%d", srcW, srcH)
	}
	if req.Width < 0 || req.Height < 0 {
		return Geometry{}, Errorf(KindArgument, "geometry", "negative size %dx%d", req.Width, req.Height)
	}

	switch {
	case req.Width > 0 && req.Height > 0:
		return Geometry{Width: req.Width, Height: req.Height}, nil
	case req.Width > 0:
		return Geometry{Width: req.Width, Height: max(req.Width*srcH/srcW, 1)}, nil
	case req.Height > 0:
		return Geometry{Width: max(req.Height*srcW/srcH, 1), Height: req.Height}, nil
	default:
		return FitToBounds(srcW, skewHeight(srcH), req.Columns, req.Rows)
	}
}
