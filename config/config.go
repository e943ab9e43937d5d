// Package config carries the CLI-contract fields of spec.md §6 as a plain
// Options struct plus functional Option setters, mirroring the teacher's
// dijkstra.Options/bfs.BFSOptions idiom. config performs no flag parsing
// itself — parsing argv is the out-of-scope CLI front end's job;
// cmd/dualbca-demo does its own tiny flag-package parsing into an Options
// value for demonstration purposes only.
package config

// ReparamMode selects the message-weighting scheme of spec.md §4.5.
type ReparamMode int

const (
	// Anisotropic weights each outgoing message by 1/k_f, k_f the count
	// of outgoing messages from f with remaining work.
	Anisotropic ReparamMode = iota
	// Uniform weights every neighbor by 1/(forward_count+backward_count).
	Uniform
)

func (m ReparamMode) String() string {
	if m == Uniform {
		return "Uniform"
	}
	return "Anisotropic"
}

// Options holds every tunable of the BCA main loop and its tightening
// sub-engine.
type Options struct {
	// MaxIter caps the number of forward+backward sweep pairs; 0 means
	// unbounded (another stop condition must apply).
	MaxIter int
	// MaxMemoryMB caps process-resident memory; 0 disables the check.
	MaxMemoryMB int
	// TimeoutMS caps wall-clock run time in milliseconds; 0 disables it.
	TimeoutMS int64

	// PrimalComputationInterval runs the rounding sub-pass every N
	// iterations. Default 5.
	PrimalComputationInterval int
	// LowerBoundComputationInterval is the dual-bound reporting interval.
	// Default 1. scheduler.Run does not read it: it recomputes the bound
	// every iteration.
	LowerBoundComputationInterval int

	// MinDualImprovement is the smallest bound increase, averaged over
	// MinDualImprovementWindow iterations, below which the scheduler
	// stops.
	MinDualImprovement       float64
	MinDualImprovementWindow int

	// StandardReparametrization selects the sweep's weighting scheme.
	StandardReparametrization ReparamMode
	// RoundingReparametrization names a weighting scheme for the rounding
	// sub-pass. The rounding sub-pass sends no messages and does not read
	// it.
	RoundingReparametrization ReparamMode

	// TightenEnabled turns on the cutting-plane engine at all.
	TightenEnabled bool
	// TightenIteration is the first iteration at which tightening may
	// run.
	TightenIteration int
	// TightenInterval runs tightening every N iterations once enabled.
	TightenInterval int
	// TightenConstraintsMax caps constraints added in one pass; 0
	// disables the cap.
	TightenConstraintsMax int
	// TightenConstraintsPercentage is a cap on constraints added, as a
	// percentage of the factor count. scheduler.Run does not read it; only
	// TightenConstraintsMax is passed to the tightener.
	TightenConstraintsPercentage float64
	// TightenMinDualIncrease is the minimum bound gain a tightening pass
	// must produce to count as progress.
	TightenMinDualIncrease float64
	// TightenMinDualDecreaseFactor is a shrink factor for
	// TightenMinDualIncrease. scheduler.Run does not read it and passes
	// TightenMinDualIncrease to every tightening pass unchanged.
	TightenMinDualDecreaseFactor float64
}

// Option configures Options via functional arguments.
type Option func(*Options)

// Default returns the Options populated with spec.md §6's defaults.
func Default() Options {
	return Options{
		PrimalComputationInterval:     5,
		LowerBoundComputationInterval: 1,
		MinDualImprovementWindow:      10,
		StandardReparametrization:     Anisotropic,
		RoundingReparametrization:     Anisotropic,
		TightenConstraintsMax:         0,
		TightenConstraintsPercentage:  0.5,
		TightenMinDualDecreaseFactor:  0.5,
	}
}

// New builds Options from Default() plus the given Option overrides.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithMaxIter(n int) Option             { return func(o *Options) { o.MaxIter = n } }
func WithMaxMemoryMB(mb int) Option        { return func(o *Options) { o.MaxMemoryMB = mb } }
func WithTimeoutMS(ms int64) Option        { return func(o *Options) { o.TimeoutMS = ms } }
func WithPrimalInterval(n int) Option      { return func(o *Options) { o.PrimalComputationInterval = n } }
func WithLowerBoundInterval(n int) Option  { return func(o *Options) { o.LowerBoundComputationInterval = n } }
func WithMinDualImprovement(v float64, window int) Option {
	return func(o *Options) { o.MinDualImprovement = v; o.MinDualImprovementWindow = window }
}
func WithStandardReparametrization(m ReparamMode) Option {
	return func(o *Options) { o.StandardReparametrization = m }
}
func WithRoundingReparametrization(m ReparamMode) Option {
	return func(o *Options) { o.RoundingReparametrization = m }
}
func WithTighten(iteration, interval int) Option {
	return func(o *Options) {
		o.TightenEnabled = true
		o.TightenIteration = iteration
		o.TightenInterval = interval
	}
}
func WithTightenConstraintsMax(n int) Option {
	return func(o *Options) { o.TightenConstraintsMax = n }
}
func WithTightenConstraintsPercentage(p float64) Option {
	return func(o *Options) { o.TightenConstraintsPercentage = p }
}
func WithTightenMinDualIncrease(v, decreaseFactor float64) Option {
	return func(o *Options) {
		o.TightenMinDualIncrease = v
		o.TightenMinDualDecreaseFactor = decreaseFactor
	}
}
