package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ImageResult contains an encoded picture ready to hand back to a client.
type ImageResult struct {
	// Width is the output width in pixels.
	Width int `json:"width"`

	// Height is the output height in pixels.
	Height int `json:"height"`

	// Scale is the display scale factor of the picture.
	Scale float64 `json:"scale"`

	// PointWidth and PointHeight are the display size in points.
	PointWidth  float64 `json:"point_width"`
	PointHeight float64 `json:"point_height"`

	// Inflated is true when the picture was backed by an inflated buffer.
	Inflated bool `json:"inflated"`

	// ImageBase64 is the encoded image, base64 encoded.
	ImageBase64 string `json:"image_base64"`

	// MimeType is "image/png" or "image/jpeg".
	MimeType string `json:"mime_type"`

	// OutputPath is set when the image was also written to disk.
	OutputPath string `json:"output_path,omitempty"`
}

// Encode renders p upright and encodes it as "png" (the default) or "jpeg".
// Animated pictures encode their first frame.
func Encode(p *Picture, format string) (*ImageResult, error) {
	img, err := p.Upright()
	if err != nil {
		return nil, err
	}

	var (
		f    imaging.Format
		mime string
		opts []imaging.EncodeOption
	)
	switch strings.ToLower(format) {
	case "", "png":
		f, mime = imaging.PNG, "image/png"
	case "jpg", "jpeg":
		f, mime = imaging.JPEG, "image/jpeg"
		opts = append(opts, imaging.JPEGQuality(90))
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, opts...); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	size := p.Size()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Scale:       p.Scale(),
		PointWidth:  size.Width,
		PointHeight: size.Height,
		Inflated:    p.Inflated(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mime,
	}, nil
}

// Save writes p upright to path. The format follows the file extension.
func Save(p *Picture, path string) error {
	img, err := p.Upright()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
