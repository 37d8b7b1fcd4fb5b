// Package filter provides named image filters with typed, range-checked
// parameters.
//
// Filters are looked up by name in a Registry; Default holds the built-ins,
// which are backed by bild and go-colorful. A Graph chains stages and
// resolves every name and parameter before rendering anything, so an unknown
// filter (ErrUnknownFilter) or a bad parameter (ErrInvalidParam) fails without
// touching pixels. Errors and panics raised while rendering are reported as
// ErrEvaluation. Every stage must preserve the extent of its input.
//
//	out, err := filter.NewGraph(nil).
//	    Then("gaussian_blur", filter.Params{"radius": 4}).
//	    Then("monochrome", filter.Params{"color": "#3366cc"}).
//	    Evaluate(img)
package filter
