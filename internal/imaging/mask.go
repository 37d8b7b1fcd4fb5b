package imaging

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic Bezier control points for a quarter circle.
const kappa = 0.5522847498

// RoundCorners clips p to a rounded rectangle and redraws it into a surface
// of the same size; pixels outside the clip are transparent.
//
// radius is divided by the picture's scale factor before clipping, so a
// radius R on a 2x picture clips at R/2 pixels. The radius is clamped to half
// the shorter side. A non-positive radius returns an unclipped copy.
// Animated pictures are clipped frame by frame.
func RoundCorners(p *Picture, radius float64) (*Picture, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	if p.IsAnimated() {
		return perFrame(p, func(f *Picture) (*Picture, error) { return RoundCorners(f, radius) })
	}
	src, err := p.Upright()
	if err != nil {
		return nil, err
	}
	return p.derive(clipRounded(src, radius/p.scale)), nil
}

// Circle clips p to the circle inscribed in its square. Non-square pictures
// are first aspect-filled to a square on their shorter side. Animated
// pictures are clipped frame by frame.
func Circle(p *Picture) (*Picture, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	if p.IsAnimated() {
		return perFrame(p, Circle)
	}
	src, err := p.Upright()
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	if b.Dx() != b.Dy() {
		src = fillPixels(src, image.Pt(side, side))
	}
	return p.derive(clipRounded(src, float64(side)/2)), nil
}

// clipRounded draws src through a rounded-rectangle coverage mask into a new
// transparent buffer positioned at the origin.
func clipRounded(src image.Image, radius float64) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if radius <= 0 {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	mask := roundedRectMask(b.Dx(), b.Dy(), radius)
	draw.DrawMask(dst, dst.Bounds(), src, b.Min, mask, image.Point{}, draw.Over)
	return dst
}

// roundedRectMask rasterizes an anti-aliased rounded rectangle covering a
// w x h area.
func roundedRectMask(w, h int, radius float64) *image.Alpha {
	r := math.Min(radius, math.Min(float64(w), float64(h))/2)
	fw, fh, fr := float32(w), float32(h), float32(r)
	k := fr * kappa

	z := vector.NewRasterizer(w, h)
	z.MoveTo(fr, 0)
	z.LineTo(fw-fr, 0)
	z.CubeTo(fw-fr+k, 0, fw, fr-k, fw, fr)
	z.LineTo(fw, fh-fr)
	z.CubeTo(fw, fh-fr+k, fw-fr+k, fh, fw-fr, fh)
	z.LineTo(fr, fh)
	z.CubeTo(fr-k, fh, 0, fh-fr+k, 0, fh-fr)
	z.LineTo(0, fr)
	z.CubeTo(0, fr-k, fr-k, 0, fr, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
