package filter

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

func radiusParam(def, max float64) ParamSpec {
	return ParamSpec{
		Name:        "radius",
		Kind:        KindNumber,
		Description: "Kernel radius in pixels",
		Default:     def,
		Min:         0,
		Max:         max,
	}
}

func amountParam(desc string) ParamSpec {
	return ParamSpec{
		Name:        "amount",
		Kind:        KindNumber,
		Description: desc,
		Default:     0.0,
		Min:         -1,
		Max:         1,
	}
}

// noParams adapts a parameterless bild operation.
func noParams[T image.Image](fn func(image.Image) T) ApplyFunc {
	return func(img image.Image, _ Values) (image.Image, error) {
		return fn(img), nil
	}
}

// withNumber adapts a bild operation taking one float parameter.
func withNumber[T image.Image](name string, fn func(image.Image, float64) T) ApplyFunc {
	return func(img image.Image, v Values) (image.Image, error) {
		return fn(img, v.Number(name)), nil
	}
}

func builtins() []Definition {
	return []Definition{
		{
			Name:        "gaussian_blur",
			Description: "Gaussian blur",
			Params:      []ParamSpec{radiusParam(10, 100)},
			Apply:       withNumber("radius", blur.Gaussian),
		},
		{
			Name:        "box_blur",
			Description: "Box (mean) blur",
			Params:      []ParamSpec{radiusParam(10, 100)},
			Apply:       withNumber("radius", blur.Box),
		},
		{
			Name:        "brightness",
			Description: "Shift brightness; 0 leaves the image unchanged",
			Params:      []ParamSpec{amountParam("Brightness change from -1 to 1")},
			Apply:       withNumber("amount", adjust.Brightness),
		},
		{
			Name:        "contrast",
			Description: "Scale contrast; 0 leaves the image unchanged",
			Params:      []ParamSpec{amountParam("Contrast change from -1 to 1")},
			Apply:       withNumber("amount", adjust.Contrast),
		},
		{
			Name:        "saturation",
			Description: "Scale saturation; -1 removes all color",
			Params:      []ParamSpec{amountParam("Saturation change from -1 to 1")},
			Apply:       withNumber("amount", adjust.Saturation),
		},
		{
			Name:        "gamma",
			Description: "Gamma correction",
			Params: []ParamSpec{{
				Name:        "gamma",
				Kind:        KindNumber,
				Description: "Gamma value; 1 leaves the image unchanged",
				Default:     1.0,
				Min:         0.01,
				Max:         10,
			}},
			Apply: withNumber("gamma", adjust.Gamma),
		},
		{
			Name:        "hue",
			Description: "Rotate hue",
			Params: []ParamSpec{{
				Name:        "degrees",
				Kind:        KindNumber,
				Description: "Hue rotation in degrees",
				Default:     0.0,
				Min:         -360,
				Max:         360,
			}},
			Apply: func(img image.Image, v Values) (image.Image, error) {
				return adjust.Hue(img, int(math.Round(v.Number("degrees")))), nil
			},
		},
		{
			Name:        "grayscale",
			Description: "Convert to grayscale",
			Apply:       noParams(effect.Grayscale),
		},
		{
			Name:        "sepia",
			Description: "Sepia tone",
			Apply:       noParams(effect.Sepia),
		},
		{
			Name:        "invert",
			Description: "Invert colors",
			Apply:       noParams(effect.Invert),
		},
		{
			Name:        "sharpen",
			Description: "Sharpen edges",
			Apply:       noParams(effect.Sharpen),
		},
		{
			Name:        "emboss",
			Description: "Emboss relief",
			Apply:       noParams(effect.Emboss),
		},
		{
			Name:        "sobel",
			Description: "Sobel gradient magnitude",
			Apply:       noParams(effect.Sobel),
		},
		{
			Name:        "edge_detect",
			Description: "Highlight edges",
			Params:      []ParamSpec{radiusParam(1, 20)},
			Apply:       withNumber("radius", effect.EdgeDetection),
		},
		{
			Name:        "median",
			Description: "Median denoise",
			Params:      []ParamSpec{radiusParam(1, 20)},
			Apply:       withNumber("radius", effect.Median),
		},
		{
			Name:        "dilate",
			Description: "Morphological dilation",
			Params:      []ParamSpec{radiusParam(1, 20)},
			Apply:       withNumber("radius", effect.Dilate),
		},
		{
			Name:        "erode",
			Description: "Morphological erosion",
			Params:      []ParamSpec{radiusParam(1, 20)},
			Apply:       withNumber("radius", effect.Erode),
		},
		{
			Name:        "threshold",
			Description: "Binarize at a luminance level",
			Params: []ParamSpec{{
				Name:        "level",
				Kind:        KindNumber,
				Description: "Luminance cut-off from 0 to 255",
				Default:     128.0,
				Min:         0,
				Max:         255,
			}},
			Apply: func(img image.Image, v Values) (image.Image, error) {
				return segment.Threshold(img, uint8(math.Round(v.Number("level")))), nil
			},
		},
		{
			Name:        "monochrome",
			Description: "Remap colors to shades of a single tint",
			Params: []ParamSpec{
				{
					Name:        "color",
					Kind:        KindColor,
					Description: "Tint color as hex",
					Default:     "#99734c",
				},
				{
					Name:        "intensity",
					Kind:        KindNumber,
					Description: "Blend toward the tint from 0 to 1",
					Default:     1.0,
					Min:         0,
					Max:         1,
				},
			},
			Apply: monochrome,
		},
	}
}

// monochrome keeps each pixel's lightness and takes hue and chroma from the
// tint, blending in Lab space.
func monochrome(img image.Image, v Values) (image.Image, error) {
	tint := v.Color("color")
	intensity := v.Number("intensity")
	_, ta, tb := tint.Lab()

	dst := imaging.Clone(img)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] == 0 {
			continue
		}
		c := colorful.Color{
			R: float64(dst.Pix[i]) / 255,
			G: float64(dst.Pix[i+1]) / 255,
			B: float64(dst.Pix[i+2]) / 255,
		}
		l, _, _ := c.Lab()
		target := colorful.Lab(l, ta, tb)
		r, g, b := c.BlendLab(target, intensity).Clamped().RGB255()
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = r, g, b
	}
	return dst, nil
}
