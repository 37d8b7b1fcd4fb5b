package imaging

import (
	"fmt"

	"github.com/ironsheep/image-transform-mcp/internal/filter"
)

// ApplyFilter runs the named filter from the default registry over the whole
// extent of p. A nil params map is treated as empty. The result keeps p's
// scale and orientation tag, since the filter works on the stored pixels.
//
// It fails with ErrNoRaster when p has no pixels, ErrAnimated when p has more
// than one frame, filter.ErrUnknownFilter for an unregistered name,
// filter.ErrInvalidParam for bad parameters and filter.ErrEvaluation when
// rendering fails.
func ApplyFilter(p *Picture, name string, params filter.Params) (*Picture, error) {
	return ApplyGraph(p, filter.NewGraph(nil).Then(name, params))
}

// ApplyGraph evaluates a filter graph over the whole extent of p. See
// ApplyFilter.
func ApplyGraph(p *Picture, g *filter.Graph) (*Picture, error) {
	if p != nil && p.IsAnimated() {
		return nil, ErrAnimated
	}
	img, err := p.Image()
	if err != nil {
		return nil, err
	}
	out, err := g.Evaluate(img)
	if err != nil {
		return nil, fmt.Errorf("apply filter: %w", err)
	}
	res := p.derive(out)
	res.orientation = p.orientation
	return res, nil
}
