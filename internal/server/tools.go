package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var orientationEnum = []string{
	"up", "down", "left", "right",
	"up-mirrored", "down-mirrored", "left-mirrored", "right-mirrored",
}

// pictureProperties returns the schema properties shared by every tool that
// reads a picture, plus any extra properties.
func pictureProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Display scale factor (pixels per point). Default 1.0",
			"default":     1.0,
		},
		"orientation": map[string]interface{}{
			"type":        "string",
			"enum":        orientationEnum,
			"description": "Orientation tag of the stored pixels. Default up",
			"default":     "up",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// outputProperties returns the schema properties of tools that produce a picture.
func outputProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"png", "jpeg"},
			"description": "Encoding of the returned image. Default png",
			"default":     "png",
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to also write the result to; format follows the extension",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return pictureProperties(props)
}

func sizeProperties() map[string]interface{} {
	return map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "number",
			"description": "Target width in points",
		},
		"height": map[string]interface{}{
			"type":        "number",
			"description": "Target height in points",
		},
	}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Picture Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions in pixels and points, scale, orientation, format, frame count and inflation state.",
			InputSchema: objectSchema(pictureProperties(nil), "path"),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color (hex, RGBA, HSL) at one pixel, or at several points, of the upright image. Useful for checking transparent corners after masking.",
			InputSchema: objectSchema(pictureProperties(map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (0-based, from left)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (0-based, from top)",
				},
				"points": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Optional list of points; overrides x and y",
				},
			}), "path"),
		},

		// Decoding
		{
			Name:        "image_inflate",
			Description: "Decompress an image into a raw pixel buffer ahead of display. Fails for animated images, images over 4096x4096 pixels and images with more than 8 bits per component.",
			InputSchema: objectSchema(pictureProperties(nil), "path"),
		},

		// Scaling
		{
			Name:        "image_scale",
			Description: "Scale an image to exactly width x height points, ignoring aspect ratio.",
			InputSchema: objectSchema(outputProperties(sizeProperties()), "path", "width", "height"),
		},
		{
			Name:        "image_scale_fit",
			Description: "Scale an image to fit inside width x height points, preserving aspect ratio. The result is centered with transparent padding.",
			InputSchema: objectSchema(outputProperties(sizeProperties()), "path", "width", "height"),
		},
		{
			Name:        "image_scale_fill",
			Description: "Scale an image to fill width x height points, preserving aspect ratio. The overflow is cropped equally from both sides.",
			InputSchema: objectSchema(outputProperties(sizeProperties()), "path", "width", "height"),
		},

		// Masking
		{
			Name:        "image_round_corners",
			Description: "Clip an image to a rounded rectangle. Pixels outside the corners become transparent.",
			InputSchema: objectSchema(outputProperties(map[string]interface{}{
				"radius": map[string]interface{}{
					"type":        "number",
					"description": "Corner radius; divided by the scale factor to get pixels",
				},
			}), "path", "radius"),
		},
		{
			Name:        "image_circle",
			Description: "Crop an image to a centered square and clip it to the inscribed circle.",
			InputSchema: objectSchema(outputProperties(nil), "path"),
		},

		// Filters
		{
			Name:        "image_filter",
			Description: "Apply a named filter (see image_list_filters), or a chain of filters, to an image. Scale and orientation are preserved.",
			InputSchema: objectSchema(outputProperties(map[string]interface{}{
				"filter": map[string]interface{}{
					"type":        "string",
					"description": "Filter name, e.g. gaussian_blur or sepia",
				},
				"params": map[string]interface{}{
					"type":        "object",
					"description": "Filter parameters by name; omitted parameters take their defaults",
				},
				"chain": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name":   map[string]interface{}{"type": "string"},
							"params": map[string]interface{}{"type": "object"},
						},
						"required": []string{"name"},
					},
					"description": "Filters applied in order after filter",
				},
			}), "path"),
		},
		{
			Name:        "image_list_filters",
			Description: "List the available filters with their parameters, defaults and ranges.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
