// Package imaging provides the picture transformations served by the MCP
// server: thread-safe decoding, inflation, scaling, masking and filtering.
//
// All operations work on *Picture, an immutable image value that carries a
// display scale factor, an orientation tag, optional animation frames and an
// inflated flag next to its raster. Operations never modify their input; each
// returns a new Picture.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left of the displayed
// (upright) picture. Target sizes are given in points; a picture with scale 2
// renders a 50x50 point target into 100x100 pixels.
//
// # Thread Safety
//
// Decoding is serialized by a process-wide lock, including the deferred pixel
// decode of lazily decoded pictures. Every other operation is reentrant and
// may be called concurrently. PictureCache is safe for concurrent use.
//
// # Error Handling
//
// Operations that cannot apply return a nil Picture and an error wrapping one
// of the package sentinels (ErrInvalidImage, ErrAnimated, ErrNoRaster,
// ErrTooLarge, ErrDeepColor, ErrInvalidSize) or a filter package sentinel.
// Callers usually fall back to the original picture on any error. Inflating
// an already inflated picture is not an error; it returns the same picture.
package imaging
