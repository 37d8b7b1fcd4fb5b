package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents a non-premultiplied RGBA color with 8-bit components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Hex  string    `json:"hex"`  // "#RRGGBB", alpha excluded
	RGBA RGBAColor `json:"rgba"` // components with alpha
	HSL  HSLColor  `json:"hsl"`
}

// SampleColor returns the color of the displayed (upright) picture at pixel
// (x, y), with (0,0) at the top-left corner.
//
// Colors are reported without premultiplication so that the hex value of a
// translucent pixel still names its hue; check RGBA.A for transparency.
func SampleColor(p *Picture, x, y int) (*ColorResult, error) {
	img, err := p.Upright()
	if err != nil {
		return nil, err
	}
	return sampleImage(img, x, y)
}

// SampleColors samples several points of the displayed picture in one pass
// over the decoded pixels. On error no partial results are returned.
func SampleColors(p *Picture, points []image.Point) ([]ColorResult, error) {
	img, err := p.Upright()
	if err != nil {
		return nil, err
	}
	results := make([]ColorResult, 0, len(points))
	for _, pt := range points {
		c, err := sampleImage(img, pt.X, pt.Y)
		if err != nil {
			return nil, err
		}
		results = append(results, *c)
	}
	return results, nil
}

func sampleImage(img image.Image, x, y int) (*ColorResult, error) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	n := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	c := colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return &ColorResult{
		X:    x,
		Y:    y,
		Hex:  fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B),
		RGBA: RGBAColor{R: n.R, G: n.G, B: n.B, A: n.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}, nil
}
