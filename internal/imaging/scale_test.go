package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"
)

// createHalvesImage creates an image whose left half is red and right half is blue.
func createHalvesImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name   string
		src    image.Point
		canvas image.Point
		want   image.Rectangle
	}{
		{"wide into square", image.Pt(200, 100), image.Pt(100, 100), image.Rect(0, 25, 100, 75)},
		{"tall into square", image.Pt(100, 200), image.Pt(100, 100), image.Rect(25, 0, 75, 100)},
		{"same ratio", image.Pt(50, 25), image.Pt(100, 50), image.Rect(0, 0, 100, 50)},
		{"square into wide", image.Pt(10, 10), image.Pt(60, 20), image.Rect(20, 0, 40, 20)},
		{"upscale", image.Pt(4, 3), image.Pt(400, 400), image.Rect(0, 50, 400, 350)},
		{"empty source", image.Pt(0, 10), image.Pt(10, 10), image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitRect(tt.src, tt.canvas); got != tt.want {
				t.Errorf("FitRect(%v, %v): got %v, want %v", tt.src, tt.canvas, got, tt.want)
			}
		})
	}
}

func TestFillRect(t *testing.T) {
	tests := []struct {
		name   string
		src    image.Point
		canvas image.Point
		want   image.Rectangle
	}{
		{"wide into square", image.Pt(200, 100), image.Pt(100, 100), image.Rect(-50, 0, 150, 100)},
		{"tall into square", image.Pt(100, 200), image.Pt(100, 100), image.Rect(0, -50, 100, 150)},
		{"same ratio", image.Pt(50, 25), image.Pt(100, 50), image.Rect(0, 0, 100, 50)},
		{"square into wide", image.Pt(10, 10), image.Pt(60, 20), image.Rect(0, -20, 60, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FillRect(tt.src, tt.canvas)
			if got != tt.want {
				t.Errorf("FillRect(%v, %v): got %v, want %v", tt.src, tt.canvas, got, tt.want)
			}
			canvas := image.Rectangle{Max: tt.canvas}
			if !canvas.In(got) {
				t.Errorf("fill rect %v does not cover canvas %v", got, canvas)
			}
		})
	}
}

func TestStretch(t *testing.T) {
	p := New(createPatternImage(100, 50), 1)

	out, err := Stretch(p, Size{Width: 30, Height: 90})
	if err != nil {
		t.Fatalf("Stretch failed: %v", err)
	}
	img, _ := out.Image()
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 90 {
		t.Errorf("size: got %dx%d, want 30x90", b.Dx(), b.Dy())
	}
	// Quadrants survive the distortion
	if c := rgbAt(img, 5, 5); c.R < 200 || c.G > 50 {
		t.Errorf("top-left should stay red, got %v", c)
	}
	if c := rgbAt(img, 25, 85); c.R < 200 || c.G < 200 || c.B < 200 {
		t.Errorf("bottom-right should stay white, got %v", c)
	}
}

func TestStretch_ScaleFactor(t *testing.T) {
	p := New(createPatternImage(100, 100), 2)

	out, err := Stretch(p, Size{Width: 25, Height: 10})
	if err != nil {
		t.Fatalf("Stretch failed: %v", err)
	}
	if out.Width() != 50 || out.Height() != 20 {
		t.Errorf("pixel size: got %dx%d, want 50x20", out.Width(), out.Height())
	}
	if out.Scale() != 2 {
		t.Errorf("Scale: got %v, want 2", out.Scale())
	}
	if out.Size() != (Size{Width: 25, Height: 10}) {
		t.Errorf("Size: got %+v, want 25x10 points", out.Size())
	}
}

func TestAspectFit(t *testing.T) {
	p := New(createInMemoryImage(200, 100, color.RGBA{255, 0, 0, 255}), 1)

	out, err := AspectFit(p, Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("AspectFit failed: %v", err)
	}
	img, _ := out.Image()
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	// 25 pixel transparent bands above and below a 100x50 red band
	for _, y := range []int{0, 10, 24, 75, 90, 99} {
		if a := alphaAt(img, 50, y); a != 0 {
			t.Errorf("padding at y=%d: alpha %d, want 0", y, a)
		}
	}
	for _, y := range []int{25, 50, 74} {
		if c := rgbAt(img, 50, y); c.A != 255 || c.R != 255 {
			t.Errorf("content at y=%d: got %v, want opaque red", y, c)
		}
	}
}

func TestAspectFit_PreservesRatio(t *testing.T) {
	tests := []struct {
		src    image.Point
		target Size
	}{
		{image.Pt(300, 100), Size{Width: 90, Height: 90}},
		{image.Pt(100, 300), Size{Width: 90, Height: 60}},
		{image.Pt(64, 48), Size{Width: 32, Height: 32}},
	}

	for _, tt := range tests {
		p := New(createInMemoryImage(tt.src.X, tt.src.Y, color.White), 1)
		out, err := AspectFit(p, tt.target)
		if err != nil {
			t.Fatalf("AspectFit failed: %v", err)
		}
		if out.Size() != tt.target {
			t.Errorf("canvas: got %+v, want %+v", out.Size(), tt.target)
		}

		r := FitRect(tt.src, image.Pt(int(tt.target.Width), int(tt.target.Height)))
		srcRatio := float64(tt.src.X) / float64(tt.src.Y)
		gotRatio := float64(r.Dx()) / float64(r.Dy())
		if diff := srcRatio - gotRatio; diff > 0.05 || diff < -0.05 {
			t.Errorf("%v: drawn ratio %.3f, want %.3f", tt.src, gotRatio, srcRatio)
		}

		left, right := r.Min.X, int(tt.target.Width)-r.Max.X
		top, bottom := r.Min.Y, int(tt.target.Height)-r.Max.Y
		if d := left - right; d > 1 || d < -1 {
			t.Errorf("%v: horizontal padding %d/%d is not symmetric", tt.src, left, right)
		}
		if d := top - bottom; d > 1 || d < -1 {
			t.Errorf("%v: vertical padding %d/%d is not symmetric", tt.src, top, bottom)
		}
	}
}

func TestAspectFill(t *testing.T) {
	p := New(createHalvesImage(200, 100), 1)

	out, err := AspectFill(p, Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("AspectFill failed: %v", err)
	}
	img, _ := out.Image()
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	// The centered 100 columns straddle the red/blue boundary equally
	if c := rgbAt(img, 10, 50); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("left side: got %v, want red", c)
	}
	if c := rgbAt(img, 90, 50); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("right side: got %v, want blue", c)
	}
	// No padding anywhere
	for _, pt := range []image.Point{{0, 0}, {99, 0}, {0, 99}, {99, 99}} {
		if a := alphaAt(img, pt.X, pt.Y); a != 255 {
			t.Errorf("corner %v: alpha %d, want 255", pt, a)
		}
	}
}

func TestAspectFill_ExactSize(t *testing.T) {
	tests := []struct {
		src    image.Point
		target Size
		scale  float64
	}{
		{image.Pt(333, 100), Size{Width: 50, Height: 50}, 1},
		{image.Pt(100, 333), Size{Width: 70, Height: 20}, 1},
		{image.Pt(120, 80), Size{Width: 15, Height: 15}, 2},
		{image.Pt(17, 91), Size{Width: 11, Height: 7}, 3},
	}

	for _, tt := range tests {
		p := New(createInMemoryImage(tt.src.X, tt.src.Y, color.White), tt.scale)
		out, err := AspectFill(p, tt.target)
		if err != nil {
			t.Fatalf("AspectFill failed: %v", err)
		}
		wantW := int(tt.target.Width * tt.scale)
		wantH := int(tt.target.Height * tt.scale)
		if out.Width() != wantW || out.Height() != wantH {
			t.Errorf("%v -> %+v @%vx: got %dx%d, want %dx%d",
				tt.src, tt.target, tt.scale, out.Width(), out.Height(), wantW, wantH)
		}
	}
}

func TestScale_InvalidSize(t *testing.T) {
	p := New(createInMemoryImage(10, 10, color.White), 1)
	ops := map[string]func(*Picture, Size) (*Picture, error){
		"stretch": Stretch,
		"fit":     AspectFit,
		"fill":    AspectFill,
	}
	sizes := []Size{{0, 10}, {10, 0}, {-5, 10}, {0.1, 0.1}, {math.NaN(), 10}, {math.Inf(1), 10}, {10, math.Inf(1)}}

	for name, op := range ops {
		for _, size := range sizes {
			if out, err := op(p, size); !errors.Is(err, ErrInvalidSize) || out != nil {
				t.Errorf("%s(%+v): got %v, %v; want ErrInvalidSize", name, size, out, err)
			}
		}
	}
}

func TestScale_HonorsOrientation(t *testing.T) {
	p := New(createInMemoryImage(40, 20, color.White), 1).WithOrientation(OrientationRight)

	out, err := AspectFit(p, Size{Width: 20, Height: 40})
	if err != nil {
		t.Fatalf("AspectFit failed: %v", err)
	}
	if out.Orientation() != OrientationUp {
		t.Errorf("Orientation: got %v, want up", out.Orientation())
	}
	img, _ := out.Image()
	// Upright source is 20x40, so it fills the 20x40 canvas without padding
	if a := alphaAt(img, 10, 1); a != 255 {
		t.Errorf("expected no padding, alpha %d", a)
	}
}

func TestScale_NilPicture(t *testing.T) {
	if _, err := AspectFit(nil, Size{Width: 1, Height: 1}); !errors.Is(err, ErrNoRaster) {
		t.Errorf("got %v, want ErrNoRaster", err)
	}
}

func TestScale_TooLarge(t *testing.T) {
	small := New(createInMemoryImage(4, 4, color.White), 1)

	tests := []struct {
		name string
		pic  *Picture
		size Size
	}{
		{"huge points", small, Size{Width: 1e10, Height: 1e10}},
		{"one side", small, Size{Width: MaxOutputDimension + 1, Height: 1}},
		{"huge scale", New(createInMemoryImage(4, 4, color.White), 1e9), Size{Width: 10, Height: 10}},
		{"doubled past bound", small.WithScale(2), Size{Width: MaxOutputDimension/2 + 1, Height: 8}},
	}
	ops := map[string]func(*Picture, Size) (*Picture, error){
		"stretch": Stretch,
		"fit":     AspectFit,
		"fill":    AspectFill,
	}

	for _, tt := range tests {
		for name, op := range ops {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				out, err := op(tt.pic, tt.size)
				if !errors.Is(err, ErrTooLarge) {
					t.Errorf("got %v, want ErrTooLarge", err)
				}
				if out != nil {
					t.Error("refused scaling should return nil")
				}
			})
		}
	}
}

func TestAspectFill_ElongatedSource(t *testing.T) {
	// Filling a thin strip into a square crops before resizing
	p := New(createHalvesImage(3000, 2), 1)

	out, err := AspectFill(p, Size{Width: 64, Height: 64})
	if err != nil {
		t.Fatalf("AspectFill failed: %v", err)
	}
	if out.Width() != 64 || out.Height() != 64 {
		t.Errorf("size: got %dx%d, want 64x64", out.Width(), out.Height())
	}
}

func TestScale_Animated(t *testing.T) {
	frames := []image.Image{
		createInMemoryImage(40, 20, color.RGBA{255, 0, 0, 255}),
		createInMemoryImage(40, 20, color.RGBA{0, 0, 255, 255}),
	}
	delays := []time.Duration{80 * time.Millisecond, 120 * time.Millisecond}
	p := NewAnimated(frames, delays, 2)

	ops := map[string]func(*Picture, Size) (*Picture, error){
		"stretch": Stretch,
		"fit":     AspectFit,
		"fill":    AspectFill,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			out, err := op(p, Size{Width: 5, Height: 5})
			if err != nil {
				t.Fatalf("scaling failed: %v", err)
			}
			if !out.IsAnimated() || len(out.Frames()) != 2 {
				t.Fatalf("result should keep both frames, got animated=%v", out.IsAnimated())
			}
			if out.Duration() != 200*time.Millisecond {
				t.Errorf("Duration: got %v, want 200ms", out.Duration())
			}
			if out.Scale() != 2 {
				t.Errorf("Scale: got %v, want 2", out.Scale())
			}
			for i, f := range out.Frames() {
				if f.Width() != 10 || f.Height() != 10 {
					t.Errorf("frame %d: got %dx%d, want 10x10", i, f.Width(), f.Height())
				}
			}
			second, _ := out.Frames()[1].Image()
			if c := rgbAt(second, 5, 5); c.B != 255 || c.R != 0 {
				t.Errorf("second frame center: got %v, want blue", c)
			}
		})
	}
}
