package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"
)

// hugeImage reports large bounds without allocating pixels.
type hugeImage struct{ w, h int }

func (h hugeImage) ColorModel() color.Model { return color.RGBAModel }
func (h hugeImage) Bounds() image.Rectangle { return image.Rect(0, 0, h.w, h.h) }
func (h hugeImage) At(x, y int) color.Color { return color.Black }

func TestInflate(t *testing.T) {
	p, err := Decode(encodePNG(t, createPatternImage(20, 20)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	p = p.WithScale(2).WithOrientation(OrientationDown)

	out, err := Inflate(p)
	if err != nil {
		t.Fatalf("Inflate failed: %v", err)
	}
	if !out.Inflated() {
		t.Error("result should be inflated")
	}
	if p.Inflated() {
		t.Error("input should not be marked inflated")
	}
	if out.Scale() != 2 || out.Orientation() != OrientationDown {
		t.Errorf("attributes not preserved: scale %v orientation %v", out.Scale(), out.Orientation())
	}

	img, err := out.Image()
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if _, ok := img.(*image.RGBA); !ok {
		t.Errorf("inflated raster: got %T, want *image.RGBA", img)
	}
	if c := rgbAt(img, 2, 15); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (2,15): got %v, want blue", c)
	}
}

func TestInflate_AlreadyInflated(t *testing.T) {
	p := New(createInMemoryImage(8, 8, color.White), 1)

	once, err := Inflate(p)
	if err != nil {
		t.Fatalf("Inflate failed: %v", err)
	}
	twice, err := Inflate(once)
	if err != nil {
		t.Fatalf("second Inflate failed: %v", err)
	}
	if twice != once {
		t.Error("inflating an inflated picture should return the same instance")
	}
}

func TestInflate_Refusals(t *testing.T) {
	frames := []image.Image{
		createInMemoryImage(4, 4, color.White),
		createInMemoryImage(4, 4, color.Black),
	}

	tests := []struct {
		name string
		pic  *Picture
		want error
	}{
		{"nil picture", nil, ErrNoRaster},
		{"no raster", New(nil, 1), ErrNoRaster},
		{"animated", NewAnimated(frames, []time.Duration{0, 0}, 1), ErrAnimated},
		{"too large", New(hugeImage{4097, 4096}, 1), ErrTooLarge},
		{"too wide", New(hugeImage{5000, 10}, 1), ErrTooLarge},
		{"too tall", New(hugeImage{10, MaxInflateDimension + 1}, 1), ErrTooLarge},
		{"16-bit", New(image.NewRGBA64(image.Rect(0, 0, 4, 4)), 1), ErrDeepColor},
		{"16-bit gray", New(image.NewGray16(image.Rect(0, 0, 4, 4)), 1), ErrDeepColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Inflate(tt.pic)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Error("refused inflation should return nil")
			}
		})
	}
}

func TestInflate_AlphaLayout(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 100
	}
	translucent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(translucent.Pix); i += 4 {
		translucent.Pix[i] = 200
		translucent.Pix[i+3] = 128
	}

	tests := []struct {
		name      string
		img       image.Image
		want      AlphaInfo
		wantAlpha uint8
	}{
		{"gray", gray, AlphaNoneSkip, 255},
		{"ycbcr", image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio444), AlphaNoneSkip, 255},
		{"nrgba", translucent, AlphaPremultiplied, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Inflate(New(tt.img, 1))
			if err != nil {
				t.Fatalf("Inflate failed: %v", err)
			}
			if out.Alpha() != tt.want {
				t.Errorf("Alpha: got %v, want %v", out.Alpha(), tt.want)
			}
			img, _ := out.Image()
			if a := alphaAt(img, 1, 1); a != tt.wantAlpha {
				t.Errorf("alpha byte: got %d, want %d", a, tt.wantAlpha)
			}
		})
	}
}

func TestInflate_PremultipliesPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Pix[0], src.Pix[3] = 200, 128

	out, err := Inflate(New(src, 1))
	if err != nil {
		t.Fatalf("Inflate failed: %v", err)
	}
	img, _ := out.Image()
	rgba := img.(*image.RGBA)
	// 200 * 128 / 255 truncates to 100
	if rgba.Pix[0] != 100 || rgba.Pix[3] != 128 {
		t.Errorf("premultiplied pixel: got %v", rgba.Pix[:4])
	}
}

func TestInflate_DeferredDecodeFailure(t *testing.T) {
	data := encodePNG(t, createPatternImage(64, 64))
	// Keep the header, drop the image data
	p, err := Decode(data[:60])
	if err != nil {
		t.Skipf("header did not survive truncation: %v", err)
	}
	if _, err := Inflate(p); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("got %v, want ErrInvalidImage", err)
	}
}
