// Package dualbca is the module root for a dual block-coordinate-ascent
// (BCA) message-passing LP-relaxation solver for discrete graphical
// models.
//
// The CORE lives entirely in subpackages:
//
//	costs/      — the numeric cost vector and min-convolution primitive
//	factor/     — the closed set of tabular factor variants
//	message/    — the message variants coupling pairs of factors
//	fmgraph/    — the factor-message graph and its topological order
//	scheduler/  — the BCA main loop (forward/backward sweeps, rounding)
//	tighten/    — the cutting-plane tightening engine
//	tree/       — exact inward/outward elimination over tree-shaped
//	              subsets of a factor-message graph
//	domain/     — minimal constructors (Ising MRF, multicut, discrete
//	              tomography) used by the scheduler/tighten test suite
//	              and cmd/dualbca-demo
//	config/     — functional-options configuration for the main loop
//	bcalog/     — structured logging
//	bcaerr/     — the CORE's error kinds
//
// cmd/dualbca-demo is a thin, non-general-purpose runnable front end
// wiring domain -> scheduler (-> tighten) end to end.
package dualbca
