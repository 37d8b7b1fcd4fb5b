package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// Errors reported by the Picture operations. Callers that only need to know
// whether an operation applied can treat any non-nil error as "not applicable"
// and keep using the original Picture.
var (
	// ErrInvalidImage is returned when bytes cannot be decoded as an image.
	ErrInvalidImage = errors.New("invalid image data")

	// ErrAnimated is returned by operations that refuse multi-frame pictures.
	ErrAnimated = errors.New("picture is animated")

	// ErrNoRaster is returned when a picture has no pixel data behind it.
	ErrNoRaster = errors.New("picture has no raster backing")

	// ErrTooLarge is returned by Inflate for pictures wider or taller than
	// MaxInflateDimension and by the scaling operations for targets beyond
	// MaxOutputDimension.
	ErrTooLarge = errors.New("picture exceeds size bound")

	// ErrDeepColor is returned by Inflate for more than 8 bits per component.
	ErrDeepColor = errors.New("picture uses more than 8 bits per component")

	// ErrInvalidSize is returned for non-positive target sizes.
	ErrInvalidSize = errors.New("invalid target size")
)

// Orientation tags how the stored pixels must be transformed to be displayed
// upright. Values follow the display-oriented naming used by mobile image
// APIs; EXIF returns the matching EXIF orientation number.
type Orientation int

const (
	OrientationUp            Orientation = iota // stored upright
	OrientationDown                             // rotated 180 degrees
	OrientationLeft                             // rotated 90 degrees counter-clockwise
	OrientationRight                            // rotated 90 degrees clockwise
	OrientationUpMirrored                       // flipped horizontally
	OrientationDownMirrored                     // flipped vertically
	OrientationLeftMirrored                     // transposed
	OrientationRightMirrored                    // transversed
)

var orientationNames = map[Orientation]string{
	OrientationUp:            "up",
	OrientationDown:          "down",
	OrientationLeft:          "left",
	OrientationRight:         "right",
	OrientationUpMirrored:    "up-mirrored",
	OrientationDownMirrored:  "down-mirrored",
	OrientationLeftMirrored:  "left-mirrored",
	OrientationRightMirrored: "right-mirrored",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// EXIF returns the EXIF orientation value (1-8) for o.
func (o Orientation) EXIF() int {
	switch o {
	case OrientationUpMirrored:
		return 2
	case OrientationDown:
		return 3
	case OrientationDownMirrored:
		return 4
	case OrientationLeftMirrored:
		return 5
	case OrientationRight:
		return 6
	case OrientationRightMirrored:
		return 7
	case OrientationLeft:
		return 8
	default:
		return 1
	}
}

// OrientationFromEXIF maps an EXIF orientation value to an Orientation.
// Unknown values map to OrientationUp.
func OrientationFromEXIF(v int) Orientation {
	for o := OrientationUp; o <= OrientationRightMirrored; o++ {
		if o.EXIF() == v {
			return o
		}
	}
	return OrientationUp
}

// ParseOrientation parses the names produced by Orientation.String.
func ParseOrientation(name string) (Orientation, error) {
	if name == "" {
		return OrientationUp, nil
	}
	for o, n := range orientationNames {
		if n == name {
			return o, nil
		}
	}
	return OrientationUp, fmt.Errorf("unknown orientation: %s", name)
}

// swapsAxes reports whether displaying the picture exchanges width and height.
func (o Orientation) swapsAxes() bool {
	switch o {
	case OrientationLeft, OrientationRight, OrientationLeftMirrored, OrientationRightMirrored:
		return true
	}
	return false
}

// AlphaInfo describes the alpha layout of an inflated pixel buffer.
type AlphaInfo int

const (
	// AlphaUnknown is reported for pictures that were never inflated.
	AlphaUnknown AlphaInfo = iota
	// AlphaPremultiplied buffers carry premultiplied alpha.
	AlphaPremultiplied
	// AlphaNoneSkip buffers are opaque; the alpha byte is always 0xff.
	AlphaNoneSkip
)

func (a AlphaInfo) String() string {
	switch a {
	case AlphaPremultiplied:
		return "premultiplied"
	case AlphaNoneSkip:
		return "none-skip"
	default:
		return "unknown"
	}
}

// Size is a width and height in points. Pixels = points * scale.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// source is the raster behind a Picture. Encoded sources are decoded on first
// use, under the process-wide decode lock.
type source struct {
	once  sync.Once
	data  []byte
	img   image.Image
	model color.Model
	err   error
}

func rasterSource(img image.Image) *source {
	return &source{img: img, model: img.ColorModel()}
}

func (s *source) image() (image.Image, error) {
	s.once.Do(func() {
		if s.img != nil {
			return
		}
		decodeMu.Lock()
		defer decodeMu.Unlock()
		img, _, err := image.Decode(bytes.NewReader(s.data))
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrInvalidImage, err)
			return
		}
		s.img = img
		s.data = nil
	})
	return s.img, s.err
}

// Picture is an immutable image value: a raster plus the display attributes
// needed to draw it (scale factor and orientation), optional animation frames,
// and whether its pixels have already been inflated into a raw buffer.
//
// Pictures are never modified after construction. Every operation in this
// package returns a new Picture, so a Picture may be shared freely between
// goroutines.
type Picture struct {
	src         *source
	width       int
	height      int
	scale       float64
	orientation Orientation
	format      string
	frames      []*Picture
	delays      []time.Duration
	inflated    bool
	alpha       AlphaInfo
}

// New wraps an already decoded image. A scale that is not finite and positive
// is treated as 1.
func New(img image.Image, scale float64) *Picture {
	if img == nil {
		return &Picture{scale: normalizeScale(scale)}
	}
	b := img.Bounds()
	return &Picture{
		src:    rasterSource(img),
		width:  b.Dx(),
		height: b.Dy(),
		scale:  normalizeScale(scale),
	}
}

// NewAnimated builds a multi-frame picture. The first frame doubles as the
// picture's own raster. delays may be shorter than frames; missing entries
// are zero.
func NewAnimated(frames []image.Image, delays []time.Duration, scale float64) *Picture {
	if len(frames) == 0 {
		return New(nil, scale)
	}
	p := New(frames[0], scale)
	p.format = "gif"
	p.frames = make([]*Picture, len(frames))
	p.delays = make([]time.Duration, len(frames))
	for i, f := range frames {
		p.frames[i] = New(f, scale)
		p.frames[i].format = p.format
		if i < len(delays) {
			p.delays[i] = delays[i]
		}
	}
	return p
}

func normalizeScale(scale float64) float64 {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}

// derive returns a new upright, non-inflated picture over img carrying p's
// scale and format.
func (p *Picture) derive(img image.Image) *Picture {
	out := New(img, p.scale)
	out.format = p.format
	return out
}

// clone returns a shallow copy sharing the raster.
func (p *Picture) clone() *Picture {
	c := *p
	return &c
}

// WithScale returns a copy of p with a different display scale.
func (p *Picture) WithScale(scale float64) *Picture {
	c := p.clone()
	c.scale = normalizeScale(scale)
	if len(p.frames) > 0 {
		c.frames = make([]*Picture, len(p.frames))
		for i, f := range p.frames {
			c.frames[i] = f.WithScale(scale)
		}
	}
	return c
}

// WithOrientation returns a copy of p tagged with o.
func (p *Picture) WithOrientation(o Orientation) *Picture {
	c := p.clone()
	c.orientation = o
	return c
}

// Width returns the stored pixel width, before orientation is applied.
func (p *Picture) Width() int { return p.width }

// Height returns the stored pixel height, before orientation is applied.
func (p *Picture) Height() int { return p.height }

// PixelSize returns the displayed pixel dimensions, after orientation.
func (p *Picture) PixelSize() image.Point {
	if p.orientation.swapsAxes() {
		return image.Pt(p.height, p.width)
	}
	return image.Pt(p.width, p.height)
}

// Size returns the displayed size in points.
func (p *Picture) Size() Size {
	px := p.PixelSize()
	return Size{Width: float64(px.X) / p.scale, Height: float64(px.Y) / p.scale}
}

// Scale returns the display scale factor.
func (p *Picture) Scale() float64 { return p.scale }

// Orientation returns the orientation tag.
func (p *Picture) Orientation() Orientation { return p.orientation }

// Format returns the name of the encoded format the picture was decoded from,
// or "" for pictures built in memory.
func (p *Picture) Format() string { return p.format }

// Inflated reports whether the picture is backed by an inflated pixel buffer.
func (p *Picture) Inflated() bool { return p.inflated }

// Alpha returns the alpha layout chosen during inflation.
func (p *Picture) Alpha() AlphaInfo { return p.alpha }

// IsAnimated reports whether the picture has more than one frame.
func (p *Picture) IsAnimated() bool { return len(p.frames) > 1 }

// Frames returns the animation frames. Still pictures return nil.
func (p *Picture) Frames() []*Picture {
	if len(p.frames) == 0 {
		return nil
	}
	return append([]*Picture(nil), p.frames...)
}

// Duration returns the total animation duration.
func (p *Picture) Duration() time.Duration {
	var d time.Duration
	for _, delay := range p.delays {
		d += delay
	}
	return d
}

// Delays returns the per-frame delays of an animated picture.
func (p *Picture) Delays() []time.Duration {
	return append([]time.Duration(nil), p.delays...)
}

// Image returns the stored raster, decoding it first if needed. Orientation
// is not applied; see Upright.
func (p *Picture) Image() (image.Image, error) {
	if p == nil || p.src == nil {
		return nil, ErrNoRaster
	}
	return p.src.image()
}

// Upright returns the raster with the orientation tag applied.
func (p *Picture) Upright() (image.Image, error) {
	img, err := p.Image()
	if err != nil {
		return nil, err
	}
	switch p.orientation {
	case OrientationUpMirrored:
		return imaging.FlipH(img), nil
	case OrientationDown:
		return imaging.Rotate180(img), nil
	case OrientationDownMirrored:
		return imaging.FlipV(img), nil
	case OrientationLeftMirrored:
		return imaging.Transpose(img), nil
	case OrientationRight:
		return imaging.Rotate270(img), nil
	case OrientationRightMirrored:
		return imaging.Transverse(img), nil
	case OrientationLeft:
		return imaging.Rotate90(img), nil
	default:
		return img, nil
	}
}

// colorModel returns the color model of the raster without forcing a decode.
func (p *Picture) colorModel() color.Model {
	if p.src == nil {
		return nil
	}
	if p.src.model != nil {
		return p.src.model
	}
	if p.src.img != nil {
		return p.src.img.ColorModel()
	}
	return nil
}

// bitsPerComponent returns the per-channel depth implied by a color model.
func bitsPerComponent(m color.Model) int {
	switch m {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return 16
	}
	return 8
}

// hasAlpha reports whether the color model carries an alpha channel.
func hasAlpha(m color.Model) bool {
	switch m {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	if pal, ok := m.(color.Palette); ok {
		for _, c := range pal {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	return true
}
