package filter

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Stage is one named filter with its parameters.
type Stage struct {
	Name   string `json:"name"`
	Params Params `json:"params,omitempty"`
}

// Graph is an ordered chain of filter stages. The output of each stage is the
// input of the next. Graphs are immutable: Then returns a new graph, and a
// graph may be evaluated any number of times.
type Graph struct {
	registry *Registry
	stages   []Stage
}

// NewGraph returns an empty graph resolving names in r, or in Default() when
// r is nil.
func NewGraph(r *Registry) *Graph {
	if r == nil {
		r = Default()
	}
	return &Graph{registry: r}
}

// Then returns a new graph with a stage appended; g itself is unchanged, so
// several chains may branch from one base graph. A nil params map is treated
// as empty.
func (g *Graph) Then(name string, params Params) *Graph {
	if params == nil {
		params = Params{}
	}
	stages := make([]Stage, len(g.stages), len(g.stages)+1)
	copy(stages, g.stages)
	return &Graph{
		registry: g.registry,
		stages:   append(stages, Stage{Name: name, Params: params}),
	}
}

// Stages returns a copy of the graph's stages.
func (g *Graph) Stages() []Stage {
	return append([]Stage(nil), g.stages...)
}

type boundStage struct {
	def    Definition
	values Values
}

// bind resolves every stage before any pixels are touched, so a bad name or
// parameter anywhere in the chain fails without rendering.
func (g *Graph) bind() ([]boundStage, error) {
	bound := make([]boundStage, 0, len(g.stages))
	for _, st := range g.stages {
		def, ok := g.registry.Lookup(st.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, st.Name)
		}
		v, err := resolve(def.Params, st.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.Name, err)
		}
		bound = append(bound, boundStage{def: def, values: v})
	}
	return bound, nil
}

// Evaluate renders the graph over the full extent of img. The result has the
// same pixel dimensions as img and its bounds start at the origin. An empty
// graph returns a copy of img.
func (g *Graph) Evaluate(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil input", ErrEvaluation)
	}
	bound, err := g.bind()
	if err != nil {
		return nil, err
	}

	extent := img.Bounds()
	out := image.Image(imaging.Clone(img))
	for _, st := range bound {
		out, err = run(st.def, out, st.values)
		if err != nil {
			return nil, err
		}
		b := out.Bounds()
		if b.Dx() != extent.Dx() || b.Dy() != extent.Dy() {
			return nil, fmt.Errorf("%w: %s changed extent from %v to %v", ErrEvaluation, st.def.Name, extent.Size(), b.Size())
		}
	}
	return out, nil
}

// run calls a filter, converting errors and panics into ErrEvaluation.
func run(def Definition, img image.Image, v Values) (out image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %s: %v", ErrEvaluation, def.Name, r)
		}
	}()
	out, err = def.Apply(img, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEvaluation, def.Name, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s produced no image", ErrEvaluation, def.Name)
	}
	return out, nil
}
