// Package scheduler implements the BCA main loop of spec.md §4.5: forward
// and backward sweeps over a fmgraph.Graph's topological order, weighted
// message distribution, dual lower-bound accumulation, and the primal
// rounding sub-pass — grounded on
// _examples/original_source/include/visitors/standard_visitor.hxx's
// loop shape and termination checks, realized with the teacher's
// functional-options configuration idiom (package config) and its zerolog
// logging idiom (package bcalog).
package scheduler

import (
	"context"
	"errors"

	"github.com/dualbca/dualbca/bcaerr"
	"github.com/dualbca/dualbca/bcalog"
	"github.com/dualbca/dualbca/config"
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/fmgraph"
	"github.com/dualbca/dualbca/message"
)

// Tightener is the tighten engine's contract as consumed by the
// scheduler: run a cutting-plane pass over g and report how many
// constraints were added. Declared here (not imported from package
// tighten) so scheduler has no compile-time dependency on tighten — the
// caller wires a *tighten.Engine in, satisfying this interface
// structurally, keeping the two packages independently testable.
type Tightener interface {
	Tighten(g *fmgraph.Graph, minDualIncrease float64, maxConstraints int) (added int, err error)
}

// Status is the information handed to a Visitor after every iteration.
type Status struct {
	Iteration  int
	LowerBound costs.Cost
	PrimalCost costs.Cost
	HasPrimal  bool
	ElapsedMS  int64
}

// Control is the Visitor's decision after inspecting a Status.
type Control struct {
	Tighten bool
	End     bool
	Err     error
}

// Visitor decides, after each iteration, whether to tighten and/or stop.
// Grounded on the teacher's bfs.BFSOptions.OnVisit hook and
// original_source's StandardVisitor.
type Visitor interface {
	Visit(status Status) Control
}

// Scheduler runs the BCA main loop over a finalized factor-message graph.
type Scheduler struct {
	g        *fmgraph.Graph
	cfg      config.Options
	tightener Tightener
	Log      bcalog.Logger
}

// New constructs a Scheduler over g (which must Finalize successfully
// before Run is called) with the given configuration. Logging defaults to
// a discard logger; set Log to wire structured output.
func New(g *fmgraph.Graph, cfg config.Options, tightener Tightener) *Scheduler {
	return &Scheduler{g: g, cfg: cfg, tightener: tightener, Log: bcalog.Discard()}
}

func sumLowerBound(g *fmgraph.Graph) costs.Cost {
	var sum costs.Cost
	for i := 0; i < g.NumFactors(); i++ {
		sum += g.Factor(i).LowerBound()
	}
	return sum
}

func sumPrimalCost(g *fmgraph.Graph) (costs.Cost, bool) {
	var sum costs.Cost
	complete := true
	for i := 0; i < g.NumFactors(); i++ {
		f := g.Factor(i)
		if !f.PrimalDecided() {
			complete = false
		}
		sum += f.EvaluatePrimal()
	}
	return sum, complete
}

// Run executes the main loop of spec.md §4.5 until the Visitor signals
// End, ctx is cancelled, or a bcaerr condition forces termination.
func (s *Scheduler) Run(ctx context.Context, v Visitor) (Status, error) {
	var last Status
	for iter := 0; ; iter++ {
		select {
		case <-ctx.Done():
			return last, bcaerr.Wrap(bcaerr.Timeout, "scheduler: context cancelled", ctx.Err())
		default:
		}

		order, err := s.g.Order()
		if err != nil {
			return last, bcaerr.Wrap(bcaerr.InvalidInput, "scheduler: graph not finalized", err)
		}

		s.forwardSweep(order, s.cfg.StandardReparametrization)
		s.backwardSweep(order, s.cfg.StandardReparametrization)

		lb := sumLowerBound(s.g)
		last = Status{Iteration: iter, LowerBound: lb}
		s.Log.Sweep(iter, "forward+backward", float64(lb), 0)

		if s.cfg.PrimalComputationInterval > 0 && iter%s.cfg.PrimalComputationInterval == 0 {
			s.roundingSweep(order)
			pc, complete := sumPrimalCost(s.g)
			last.PrimalCost = pc
			last.HasPrimal = complete
		}

		control := v.Visit(last)
		if control.Err != nil {
			return last, control.Err
		}
		if control.Tighten && s.tightener != nil {
			added, err := s.tightener.Tighten(s.g, s.cfg.TightenMinDualIncrease, s.cfg.TightenConstraintsMax)
			if err != nil && !errors.Is(err, bcaerr.New(bcaerr.TighteningNoProgress, "")) {
				return last, err
			}
			if err := s.g.Finalize(); err != nil {
				return last, bcaerr.Wrap(bcaerr.InvalidInput, "scheduler: rebuild after tighten", err)
			}
			newLB := sumLowerBound(s.g)
			s.Log.Tighten(added, float64(newLB))
			if added == 0 {
				s.Log.Warn(bcaerr.TighteningNoProgress.String(), "tighten pass added no constraints")
			}
		}
		if control.End {
			break
		}
		if s.cfg.MaxIter > 0 && iter+1 >= s.cfg.MaxIter {
			break
		}
	}
	return last, nil
}

// forwardSweep visits order left to right: for every factor f, first pull
// mass back from each backward (incoming) message, then push mass forward
// along each outgoing message weighted by ω(f, m).
func (s *Scheduler) forwardSweep(order []int, mode config.ReparamMode) {
	for _, f := range order {
		s.visitReceive(f)
		s.visitSend(f, mode)
	}
}

// backwardSweep reapplies the same per-factor receive/send primitives
// over the reverse visiting order (spec.md §4.5: "traverses the reverse
// order with left/right swapped"). The Message contract only exposes a
// left→right SendToRight/ReceiveFromRight pair (grounded on
// simplex_marginalization_message.hxx, which is itself directional); there
// is no ungrounded SendToLeft counterpart to introduce, so the reversal is
// expressed as reversed factor visitation reusing the same two
// dual-bound-preserving primitives, rather than as reversed message
// direction. Each primitive individually preserves Σ lower bounds
// regardless of when it runs, so invariant #2 (monotone non-decreasing
// bound) still holds.
func (s *Scheduler) backwardSweep(order []int, mode config.ReparamMode) {
	for i := len(order) - 1; i >= 0; i-- {
		f := order[i]
		s.visitReceive(f)
		s.visitSend(f, mode)
	}
}

func (s *Scheduler) visitReceive(f int) {
	for _, idx := range s.g.IncomingMessages(f) {
		if s.g.IsTreeMessage(idx) {
			continue
		}
		left, right, _, msg := s.g.Message(idx)
		if !msg.Capabilities().Has(message.CanReceive) {
			continue
		}
		msg.ReceiveFromRight(s.g.Factor(left), s.g.Factor(right))
	}
}

func (s *Scheduler) visitSend(f int, mode config.ReparamMode) {
	out := s.g.OutgoingMessages(f)
	weights := outgoingWeights(s.g, f, mode)
	for i, idx := range out {
		if s.g.IsTreeMessage(idx) {
			continue
		}
		if weights[i] == 0 {
			continue
		}
		left, right, _, msg := s.g.Message(idx)
		msg.SendToRight(s.g.Factor(left), s.g.Factor(right), weights[i])
	}
}

// roundingSweep is lb_sweep_with_rounding: one forward pass with
// restricted receive, committing each factor's cheapest still-unknown
// entry via its Rounder.RoundGreedy, then propagating the decision forward
// via ComputeRightFromLeftPrimal. It sends no messages and does not read
// cfg.RoundingReparametrization.
func (s *Scheduler) roundingSweep(order []int) {
	for i := 0; i < s.g.NumFactors(); i++ {
		s.g.Factor(i).InitPrimal()
	}
	for _, f := range order {
		for _, idx := range s.g.IncomingMessages(f) {
			if s.g.IsTreeMessage(idx) {
				continue
			}
			left, right, _, msg := s.g.Message(idx)
			if !msg.Capabilities().Has(message.CanRestrictedReceive) {
				continue
			}
			msg.ReceiveRestrictedFromRight(s.g.Factor(left), s.g.Factor(right))
		}

		ff := s.g.Factor(f)
		if r, ok := ff.(factor.Rounder); ok {
			r.RoundGreedy()
		}

		for _, idx := range s.g.OutgoingMessages(f) {
			if s.g.IsTreeMessage(idx) {
				continue
			}
			left, right, _, msg := s.g.Message(idx)
			if !s.g.Factor(left).PrimalDecided() {
				continue
			}
			msg.ComputeRightFromLeftPrimal(s.g.Factor(left), s.g.Factor(right))
		}
	}
}
