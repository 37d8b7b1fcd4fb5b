package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrUnknownFilter is returned when no filter is registered under a name.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrInvalidParam is returned for unknown keys, wrong types and values
	// outside a parameter's range.
	ErrInvalidParam = errors.New("invalid filter parameter")

	// ErrEvaluation is returned when a filter fails while rendering.
	ErrEvaluation = errors.New("filter evaluation failed")
)

// Params maps parameter names to values. Numbers may be any Go numeric type
// or json.Number; colors are hex strings such as "#ff8800" or "#f80".
type Params map[string]any

// ParamKind is the value type a parameter accepts.
type ParamKind string

const (
	KindNumber ParamKind = "number"
	KindColor  ParamKind = "color"
)

// ParamSpec declares one input of a filter.
type ParamSpec struct {
	Name        string    `json:"name"`
	Kind        ParamKind `json:"kind"`
	Description string    `json:"description"`
	// Default is a float64 for numbers and a hex string for colors.
	Default any `json:"default"`
	// Min and Max bound numbers inclusively; both zero means unbounded.
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// Values holds a filter's parameters after defaults and validation.
type Values struct {
	numbers map[string]float64
	colors  map[string]colorful.Color
}

// Number returns a numeric parameter. Undeclared names return 0.
func (v Values) Number(name string) float64 { return v.numbers[name] }

// Color returns a color parameter. Undeclared names return black.
func (v Values) Color(name string) colorful.Color { return v.colors[name] }

// resolve applies defaults and validates params against specs.
func resolve(specs []ParamSpec, params Params) (Values, error) {
	v := Values{
		numbers: make(map[string]float64),
		colors:  make(map[string]colorful.Color),
	}

	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[spec.Name] = true
	}
	var unknown []string
	for name := range params {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Values{}, fmt.Errorf("%w: unknown parameter %q", ErrInvalidParam, unknown[0])
	}

	for _, spec := range specs {
		raw, ok := params[spec.Name]
		if !ok || raw == nil {
			raw = spec.Default
		}
		switch spec.Kind {
		case KindColor:
			s, ok := raw.(string)
			if !ok {
				return Values{}, fmt.Errorf("%w: %s must be a hex color, got %T", ErrInvalidParam, spec.Name, raw)
			}
			c, err := colorful.Hex(s)
			if err != nil {
				return Values{}, fmt.Errorf("%w: %s: %v", ErrInvalidParam, spec.Name, err)
			}
			v.colors[spec.Name] = c
		default:
			n, err := toFloat(raw)
			if err != nil {
				return Values{}, fmt.Errorf("%w: %s: %v", ErrInvalidParam, spec.Name, err)
			}
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return Values{}, fmt.Errorf("%w: %s is not finite", ErrInvalidParam, spec.Name)
			}
			if spec.Min != 0 || spec.Max != 0 {
				if n < spec.Min || n > spec.Max {
					return Values{}, fmt.Errorf("%w: %s=%g outside [%g, %g]", ErrInvalidParam, spec.Name, n, spec.Min, spec.Max)
				}
			}
			v.numbers[spec.Name] = n
		}
	}
	return v, nil
}

func toFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}
