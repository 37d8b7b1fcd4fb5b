package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ironsheep/image-transform-mcp/internal/filter"
)

func TestApplyFilter(t *testing.T) {
	p := New(createInMemoryImage(20, 10, color.RGBA{255, 0, 0, 255}), 2).WithOrientation(OrientationLeft)

	out, err := ApplyFilter(p, "invert", nil)
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if out.Scale() != 2 {
		t.Errorf("Scale: got %v, want 2", out.Scale())
	}
	if out.Orientation() != OrientationLeft {
		t.Errorf("Orientation: got %v, want left", out.Orientation())
	}
	if out.Width() != 20 || out.Height() != 10 {
		t.Errorf("stored size: got %dx%d, want 20x10", out.Width(), out.Height())
	}

	img, _ := out.Image()
	if c := rgbAt(img, 5, 5); c != (color.NRGBA{0, 255, 255, 255}) {
		t.Errorf("inverted pixel: got %v, want cyan", c)
	}
}

func TestApplyFilter_DoesNotModifyInput(t *testing.T) {
	src := createInMemoryImage(8, 8, color.White)
	p := New(src, 1)

	if _, err := ApplyFilter(p, "invert", filter.Params{}); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if c := rgbAt(src, 3, 3); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("source pixel changed to %v", c)
	}
}

func TestApplyFilter_Params(t *testing.T) {
	p := New(createInMemoryImage(8, 8, color.RGBA{100, 100, 100, 255}), 1)

	out, err := ApplyFilter(p, "threshold", filter.Params{"level": 50})
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	img, _ := out.Image()
	if c := rgbAt(img, 0, 0); c.R != 255 {
		t.Errorf("above threshold: got %v, want white", c)
	}
}

func TestApplyFilter_Errors(t *testing.T) {
	p := New(createInMemoryImage(8, 8, color.White), 1)

	tests := []struct {
		name   string
		pic    *Picture
		filter string
		params filter.Params
		want   error
	}{
		{"unknown filter", p, "CIDoesNotExist", nil, filter.ErrUnknownFilter},
		{"unknown param", p, "gaussian_blur", filter.Params{"sigma": 2}, filter.ErrInvalidParam},
		{"out of range", p, "brightness", filter.Params{"amount": 5}, filter.ErrInvalidParam},
		{"no raster", New(nil, 1), "invert", nil, ErrNoRaster},
		{"nil picture", nil, "invert", nil, ErrNoRaster},
		{"animated", NewAnimated([]image.Image{
			createInMemoryImage(8, 8, color.White),
			createInMemoryImage(8, 8, color.Black),
		}, []time.Duration{0, 0}, 1), "invert", nil, ErrAnimated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ApplyFilter(tt.pic, tt.filter, tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Error("failed filter should return nil")
			}
		})
	}
}

func TestApplyGraph(t *testing.T) {
	p := New(createInMemoryImage(8, 8, color.RGBA{200, 40, 40, 255}), 1)

	g := filter.NewGraph(nil).Then("invert", nil).Then("invert", nil)
	out, err := ApplyGraph(p, g)
	if err != nil {
		t.Fatalf("ApplyGraph failed: %v", err)
	}
	img, _ := out.Image()
	if c := rgbAt(img, 4, 4); c != (color.NRGBA{200, 40, 40, 255}) {
		t.Errorf("double inversion: got %v, want original color", c)
	}
}
