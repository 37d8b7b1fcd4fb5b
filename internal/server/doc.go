// Package server implements the MCP (Model Context Protocol) server for image
// transformation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the imaging
// package through the MCP protocol, so that MCP clients can resize, mask and
// filter image files.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Picture Information:
//   - image_load: Load image and get metadata (pixels, points, scale, frames)
//   - image_sample_color: Get color at one or more pixels
//
// Decoding:
//   - image_inflate: Decompress into a raw pixel buffer
//
// Scaling:
//   - image_scale: Stretch to an exact size
//   - image_scale_fit: Aspect-fit with transparent padding
//   - image_scale_fill: Aspect-fill with symmetric crop
//
// Masking:
//   - image_round_corners: Clip to a rounded rectangle
//   - image_circle: Clip to a circle
//
// Filters:
//   - image_filter: Apply a named filter or a chain of filters
//   - image_list_filters: Enumerate filters and parameters
//
// Every picture tool accepts path, scale and orientation. Tools producing a
// picture return it as base64 (PNG by default) and optionally write it to
// output_path.
//
// # Image Caching
//
// Decoded pictures are cached by path for the lifetime of the server process.
// Scale and orientation are applied per call, so one cached entry serves
// every scale.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
