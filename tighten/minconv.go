package tighten

import "github.com/dualbca/dualbca/costs"

// MinConvOptions configures MinConvolution: whether every output index's
// argmin pair is wanted, or only the global minimum (the query
// factor.TomographyCounting.GlobalMinCost makes of costs.MinConvolve).
type MinConvOptions struct {
	OnlyGlobalMin bool
}

// MinConvolution is the tightening engine's min-convolution primitive
// (spec.md §4.6): a thin, options-configured wrapper over
// costs.MinConvolve, which is where the algorithm actually lives —
// factor.TomographyCounting also needs the same computation,
// and factor cannot import tighten without a cycle (tighten already
// imports factor for its triplet/odd-wheel instantiation), so the single
// implementation sits in costs and both call sites wrap it.
func MinConvolution(a, b []costs.Cost, opts MinConvOptions) costs.MinConvResult {
	return costs.MinConvolve(a, b, opts.OnlyGlobalMin)
}
