package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// decodeMu serializes every decode in the process. Some registered decoders
// keep package-level state that is not safe for concurrent use, so decoding is
// never done in parallel.
var decodeMu sync.Mutex

// Decode parses an encoded image at scale 1. See DecodeWithScale.
func Decode(data []byte) (*Picture, error) {
	return DecodeWithScale(data, 1)
}

// DecodeWithScale parses an encoded image and tags it with the given display
// scale. A scale that is not finite and positive is treated as 1.
//
// The image header is validated immediately; bytes that are not a supported
// image fail with ErrInvalidImage. Pixel decompression of still images is
// deferred until the pixels are first needed (see Inflate to force it).
// Multi-frame GIFs are decoded eagerly into an animated Picture.
//
// Supported formats: PNG, JPEG, GIF, BMP, TIFF and WebP.
func DecodeWithScale(data []byte, scale float64) (*Picture, error) {
	decodeMu.Lock()
	defer decodeMu.Unlock()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		if len(g.Image) > 1 {
			return animatedFromGIF(g, scale), nil
		}
	}

	return &Picture{
		src: &source{
			data:  bytes.Clone(data),
			model: cfg.ColorModel,
		},
		width:  cfg.Width,
		height: cfg.Height,
		scale:  normalizeScale(scale),
		format: format,
	}, nil
}

// animatedFromGIF composites GIF frames onto the logical screen, honoring the
// per-frame disposal methods.
func animatedFromGIF(g *gif.GIF, scale float64) *Picture {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))

	for i, frame := range g.Image {
		var previous *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			draw.Draw(previous, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(bounds)
		draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
		frames = append(frames, snapshot)

		var delay time.Duration
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return NewAnimated(frames, delays, scale)
}
