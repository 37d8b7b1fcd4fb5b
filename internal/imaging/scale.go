package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// resampleFilter is the interpolation used by every scaling operation.
var resampleFilter = imaging.Lanczos

// MaxOutputDimension bounds each side, in pixels, of a scaled picture.
const MaxOutputDimension = 8192

// targetPixels converts a size in points to whole pixels at the given scale.
// Sizes that are not finite and positive fail with ErrInvalidSize; sizes that
// exceed MaxOutputDimension on either side fail with ErrTooLarge before
// anything is allocated.
func targetPixels(size Size, scale float64) (image.Point, error) {
	if !(size.Width > 0) || !(size.Height > 0) || math.IsInf(size.Width, 0) || math.IsInf(size.Height, 0) {
		return image.Point{}, fmt.Errorf("%w: %gx%g", ErrInvalidSize, size.Width, size.Height)
	}
	w := math.Round(size.Width * scale)
	h := math.Round(size.Height * scale)
	if w < 1 || h < 1 {
		return image.Point{}, fmt.Errorf("%w: %gx%g rounds to zero pixels", ErrInvalidSize, size.Width, size.Height)
	}
	if w > MaxOutputDimension || h > MaxOutputDimension {
		return image.Point{}, fmt.Errorf("%w: %gx%g points at %gx is %.0fx%.0f pixels", ErrTooLarge, size.Width, size.Height, scale, w, h)
	}
	return image.Pt(int(w), int(h)), nil
}

// perFrame applies op to every frame of an animated picture and reassembles
// the results with the original delays.
func perFrame(p *Picture, op func(*Picture) (*Picture, error)) (*Picture, error) {
	frames := make([]image.Image, len(p.frames))
	for i, f := range p.frames {
		out, err := op(f.WithOrientation(p.orientation))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if frames[i], err = out.Image(); err != nil {
			return nil, err
		}
	}
	return NewAnimated(frames, p.delays, p.scale), nil
}

// FitRect returns where a source of pixel size src lands when aspect-fit into
// a canvas of pixel size canvas. The rectangle is centered; the axis that
// limits the fit spans the whole canvas.
func FitRect(src, canvas image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || canvas.X <= 0 || canvas.Y <= 0 {
		return image.Rectangle{}
	}
	w, h := canvas.X, canvas.Y
	// Compare aspect ratios with integer cross products to avoid drift.
	if src.X*canvas.Y > src.Y*canvas.X {
		h = roundPositive(float64(src.Y) * float64(canvas.X) / float64(src.X))
	} else {
		w = roundPositive(float64(src.X) * float64(canvas.Y) / float64(src.Y))
	}
	x := (canvas.X - w) / 2
	y := (canvas.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// FillRect returns where a source of pixel size src lands when aspect-filled
// into a canvas of pixel size canvas. The rectangle covers the canvas and is
// centered, so it may start at negative coordinates on the cropped axis.
func FillRect(src, canvas image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || canvas.X <= 0 || canvas.Y <= 0 {
		return image.Rectangle{}
	}
	w, h := canvas.X, canvas.Y
	if src.X*canvas.Y > src.Y*canvas.X {
		w = roundPositive(float64(src.X) * float64(canvas.Y) / float64(src.Y))
	} else {
		h = roundPositive(float64(src.Y) * float64(canvas.X) / float64(src.X))
	}
	x := (canvas.X - w) / 2
	y := (canvas.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

func roundPositive(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// Stretch renders p into exactly size points, ignoring the aspect ratio.
// Animated pictures are scaled frame by frame.
func Stretch(p *Picture, size Size) (*Picture, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	target, err := targetPixels(size, p.scale)
	if err != nil {
		return nil, err
	}
	if p.IsAnimated() {
		return perFrame(p, func(f *Picture) (*Picture, error) { return Stretch(f, size) })
	}
	src, err := p.Upright()
	if err != nil {
		return nil, err
	}
	return p.derive(imaging.Resize(src, target.X, target.Y, resampleFilter)), nil
}

// AspectFit scales p uniformly by the smaller of the two axis ratios and
// centers it on a transparent canvas of size points.
func AspectFit(p *Picture, size Size) (*Picture, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	target, err := targetPixels(size, p.scale)
	if err != nil {
		return nil, err
	}
	if p.IsAnimated() {
		return perFrame(p, func(f *Picture) (*Picture, error) { return AspectFit(f, size) })
	}
	src, err := p.Upright()
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	r := FitRect(image.Pt(b.Dx(), b.Dy()), target)
	scaled := imaging.Resize(src, r.Dx(), r.Dy(), resampleFilter)
	canvas := imaging.New(target.X, target.Y, color.Transparent)
	return p.derive(imaging.Paste(canvas, scaled, r.Min)), nil
}

// AspectFill scales p uniformly by the larger of the two axis ratios and
// crops the overflow equally from both ends of the longer axis, producing
// exactly size points.
func AspectFill(p *Picture, size Size) (*Picture, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	target, err := targetPixels(size, p.scale)
	if err != nil {
		return nil, err
	}
	if p.IsAnimated() {
		return perFrame(p, func(f *Picture) (*Picture, error) { return AspectFill(f, size) })
	}
	src, err := p.Upright()
	if err != nil {
		return nil, err
	}
	return p.derive(fillPixels(src, target)), nil
}

// fillPixels aspect-fills src into a canvas of the given pixel size. The
// centered region of src with the canvas's aspect ratio is cropped first, so
// the resize never allocates more than the canvas.
func fillPixels(src image.Image, canvas image.Point) *image.NRGBA {
	b := src.Bounds()
	region := FitRect(canvas, image.Pt(b.Dx(), b.Dy())).Add(b.Min)
	return imaging.Resize(imaging.Crop(src, region), canvas.X, canvas.Y, resampleFilter)
}
