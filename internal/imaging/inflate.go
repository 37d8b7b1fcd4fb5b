package imaging

import (
	"fmt"
	"image"
	"image/draw"
)

// MaxInflateDimension bounds each side, in pixels, of a picture Inflate
// accepts. The bound is per side: 4097x1 is refused, 4096x4096 is not.
const MaxInflateDimension = 4096

// Inflate returns an equivalent picture backed by an uncompressed RGBA
// buffer, so that decompression happens now rather than on first draw.
//
// An already inflated picture is returned unchanged (the same pointer).
// Inflate refuses animated pictures (ErrAnimated), pictures without a raster
// (ErrNoRaster), pictures wider or taller than MaxInflateDimension pixels
// (ErrTooLarge) and pictures with more than 8 bits per color component
// (ErrDeepColor). Decode failures of deferred pixels are returned as
// ErrInvalidImage.
//
// Pictures with an alpha channel are rendered with premultiplied alpha;
// opaque pictures are rendered with the alpha byte fixed at 0xff. Scale and
// orientation carry over to the result.
func Inflate(p *Picture) (*Picture, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	if p.inflated {
		return p, nil
	}
	if p.IsAnimated() {
		return nil, ErrAnimated
	}
	if p.src == nil {
		return nil, ErrNoRaster
	}
	if p.width > MaxInflateDimension || p.height > MaxInflateDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, p.width, p.height)
	}
	model := p.colorModel()
	if bitsPerComponent(model) > 8 {
		return nil, ErrDeepColor
	}

	img, err := p.src.image()
	if err != nil {
		return nil, err
	}

	layout := AlphaPremultiplied
	if !hasAlpha(model) {
		layout = AlphaNoneSkip
	}

	b := img.Bounds()
	buf := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if layout == AlphaNoneSkip {
		draw.Draw(buf, buf.Bounds(), image.Black, image.Point{}, draw.Src)
		draw.Draw(buf, buf.Bounds(), img, b.Min, draw.Over)
	} else {
		draw.Draw(buf, buf.Bounds(), img, b.Min, draw.Src)
	}

	return &Picture{
		src:         rasterSource(buf),
		width:       b.Dx(),
		height:      b.Dy(),
		scale:       p.scale,
		orientation: p.orientation,
		format:      p.format,
		inflated:    true,
		alpha:       layout,
	}, nil
}
