package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/image-transform-mcp/internal/filter"
	"github.com/ironsheep/image-transform-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_scale_fit").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	if s.debug {
		log.Printf("tools/call %s", params.Name)
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tools/call %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each image tool handler:
//  1. Unmarshals arguments from JSON
//  2. Loads the picture from cache and applies scale and orientation
//  3. Calls the matching imaging function
//  4. Encodes the resulting picture (and writes it to output_path if given)
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Picture Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Decoding
	case "image_inflate":
		return s.handleImageInflate(args)

	// Scaling
	case "image_scale":
		return s.handleImageScale(args, imaging.Stretch)
	case "image_scale_fit":
		return s.handleImageScale(args, imaging.AspectFit)
	case "image_scale_fill":
		return s.handleImageScale(args, imaging.AspectFill)

	// Masking
	case "image_round_corners":
		return s.handleImageRoundCorners(args)
	case "image_circle":
		return s.handleImageCircle(args)

	// Filters
	case "image_filter":
		return s.handleImageFilter(args)
	case "image_list_filters":
		return filter.Default().Definitions(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// pictureArgs are accepted by every tool that reads a picture.
type pictureArgs struct {
	Path        string  `json:"path"`
	Scale       float64 `json:"scale"`
	Orientation string  `json:"orientation"`
}

// outputArgs are accepted by every tool that produces a picture.
type outputArgs struct {
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
}

// loadPicture loads the picture named by a and applies the requested display
// attributes.
func (s *Server) loadPicture(a pictureArgs) (*imaging.Picture, error) {
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	orientation, err := imaging.ParseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}
	pic, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Scale > 0 && a.Scale != pic.Scale() {
		pic = pic.WithScale(a.Scale)
	}
	if orientation != pic.Orientation() {
		pic = pic.WithOrientation(orientation)
	}
	return pic, nil
}

// writeResult encodes pic and, when requested, saves it to disk.
func writeResult(pic *imaging.Picture, o outputArgs) (*imaging.ImageResult, error) {
	result, err := imaging.Encode(pic, o.Format)
	if err != nil {
		return nil, err
	}
	if o.OutputPath != "" {
		if err := imaging.Save(pic, o.OutputPath); err != nil {
			return nil, err
		}
		result.OutputPath = o.OutputPath
	}
	return result, nil
}

// === Picture Information Handlers ===

type imageLoadArgs struct {
	pictureArgs
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadPictureInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	described, err := imaging.Describe(pic)
	if err != nil {
		return nil, err
	}
	described.FileSizeBytes = info.FileSizeBytes
	return described, nil
}

type imageSampleColorArgs struct {
	pictureArgs
	Points []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"points"`
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return imaging.SampleColor(pic, a.X, a.Y)
	}
	points := make([]image.Point, len(a.Points))
	for i, p := range a.Points {
		points[i] = image.Pt(p.X, p.Y)
	}
	samples, err := imaging.SampleColors(pic, points)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"samples": samples}, nil
}

// === Decoding Handlers ===

// InflateResult reports the outcome of image_inflate.
type InflateResult struct {
	Info  *imaging.PictureInfo `json:"info"`
	Alpha string               `json:"alpha"`
}

func (s *Server) handleImageInflate(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}
	inflated, err := imaging.Inflate(pic)
	if err != nil {
		return nil, err
	}
	info, err := imaging.Describe(inflated)
	if err != nil {
		return nil, err
	}
	return &InflateResult{
		Info:  info,
		Alpha: inflated.Alpha().String(),
	}, nil
}

// === Scaling Handlers ===

type imageScaleArgs struct {
	pictureArgs
	outputArgs
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleImageScale(args json.RawMessage, op func(*imaging.Picture, imaging.Size) (*imaging.Picture, error)) (interface{}, error) {
	var a imageScaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}
	out, err := op(pic, imaging.Size{Width: a.Width, Height: a.Height})
	if err != nil {
		return nil, err
	}
	return writeResult(out, a.outputArgs)
}

// === Masking Handlers ===

type imageRoundCornersArgs struct {
	pictureArgs
	outputArgs
	Radius float64 `json:"radius"`
}

func (s *Server) handleImageRoundCorners(args json.RawMessage) (interface{}, error) {
	var a imageRoundCornersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}
	out, err := imaging.RoundCorners(pic, a.Radius)
	if err != nil {
		return nil, err
	}
	return writeResult(out, a.outputArgs)
}

type imageCircleArgs struct {
	pictureArgs
	outputArgs
}

func (s *Server) handleImageCircle(args json.RawMessage) (interface{}, error) {
	var a imageCircleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Circle(pic)
	if err != nil {
		return nil, err
	}
	return writeResult(out, a.outputArgs)
}

// === Filter Handlers ===

type imageFilterArgs struct {
	pictureArgs
	outputArgs
	Filter string         `json:"filter"`
	Params filter.Params  `json:"params"`
	Chain  []filter.Stage `json:"chain"`
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Filter == "" && len(a.Chain) == 0 {
		return nil, errors.New("filter or chain is required")
	}
	pic, err := s.loadPicture(a.pictureArgs)
	if err != nil {
		return nil, err
	}

	g := filter.NewGraph(nil)
	if a.Filter != "" {
		g = g.Then(a.Filter, a.Params)
	}
	for _, st := range a.Chain {
		g = g.Then(st.Name, st.Params)
	}

	out, err := imaging.ApplyGraph(pic, g)
	if err != nil {
		return nil, err
	}
	return writeResult(out, a.outputArgs)
}
