package imaging

import (
	"fmt"
	"os"
	"sync"
)

// PictureCache provides thread-safe caching of decoded pictures to avoid
// redundant disk reads.
//
// Pictures are stored at scale 1 keyed by their file path; use
// Picture.WithScale to retag a cached picture. Decoding goes through
// DecodeWithScale, so it shares the process-wide decode lock.
//
// # Memory Management
//
// Cached pictures remain in memory until explicitly removed via Evict() or
// Clear(). Pixels of still images are decoded lazily, so an entry that was
// only inspected costs little more than its encoded bytes.
//
// # Example Usage
//
//	cache := imaging.NewPictureCache()
//	pic, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fit, err := imaging.AspectFit(pic.WithScale(2), imaging.Size{Width: 64, Height: 64})
type PictureCache struct {
	mu       sync.RWMutex
	pictures map[string]*Picture
}

// NewPictureCache creates and initializes a new empty picture cache.
func NewPictureCache() *PictureCache {
	return &PictureCache{
		pictures: make(map[string]*Picture),
	}
}

// Load retrieves a picture from the cache or reads and decodes it from disk.
//
// The picture is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate entries.
func (c *PictureCache) Load(path string) (*Picture, error) {
	c.mu.RLock()
	if pic, ok := c.pictures[path]; ok {
		c.mu.RUnlock()
		return pic, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	pic, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.pictures[path] = pic
	c.mu.Unlock()

	return pic, nil
}

// Clear removes all pictures from the cache.
func (c *PictureCache) Clear() {
	c.mu.Lock()
	c.pictures = make(map[string]*Picture)
	c.mu.Unlock()
}

// Evict removes a specific picture from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *PictureCache) Evict(path string) {
	c.mu.Lock()
	delete(c.pictures, path)
	c.mu.Unlock()
}

// Len returns the number of cached pictures.
func (c *PictureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pictures)
}

// PictureInfo contains metadata about a picture.
type PictureInfo struct {
	// Width and Height are the displayed pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// PointWidth and PointHeight are the displayed size in points.
	PointWidth  float64 `json:"point_width"`
	PointHeight float64 `json:"point_height"`

	// Scale is the display scale factor.
	Scale float64 `json:"scale"`

	// Orientation is the orientation tag, e.g. "up" or "left-mirrored".
	Orientation string `json:"orientation"`

	// Format is the decoded format ("png", "jpeg", "gif", ...) or "memory".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the color model carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// Frames is the number of animation frames; 1 for still pictures.
	Frames int `json:"frames"`

	// DurationMs is the total animation duration in milliseconds.
	DurationMs int64 `json:"duration_ms,omitempty"`

	// Inflated reports whether the pixels are already in a raw buffer.
	Inflated bool `json:"inflated"`

	// FileSizeBytes is the size of the source file, when loaded from disk.
	FileSizeBytes int64 `json:"file_size_bytes,omitempty"`
}

// Describe returns metadata about p without decoding its pixels. It fails
// with ErrNoRaster for a nil picture.
func Describe(p *Picture) (*PictureInfo, error) {
	if p == nil {
		return nil, ErrNoRaster
	}
	px := p.PixelSize()
	size := p.Size()

	format := p.Format()
	if format == "" {
		format = "memory"
	}

	model := p.colorModel()
	colorDepth := "8-bit"
	if bitsPerComponent(model) > 8 {
		colorDepth = "16-bit"
	}

	frames := len(p.frames)
	if frames == 0 {
		frames = 1
	}

	return &PictureInfo{
		Width:       px.X,
		Height:      px.Y,
		PointWidth:  size.Width,
		PointHeight: size.Height,
		Scale:       p.Scale(),
		Orientation: p.Orientation().String(),
		Format:      format,
		ColorDepth:  colorDepth,
		HasAlpha:    model != nil && hasAlpha(model),
		Frames:      frames,
		DurationMs:  p.Duration().Milliseconds(),
		Inflated:    p.Inflated(),
	}, nil
}

// LoadPictureInfo loads a picture through the cache and describes it,
// including the size of the file on disk.
func LoadPictureInfo(cache *PictureCache, path string) (*PictureInfo, error) {
	pic, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info, err := Describe(pic)
	if err != nil {
		return nil, err
	}
	info.FileSizeBytes = stat.Size()
	return info, nil
}
