package message

import (
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
)

// MulticutEdgeTriplet couples a MulticutEdge to one axis of a
// MulticutTriplet's cut-pattern cost table, grounded on
// _examples/original_source/solvers/multicut/multicut_constructor.hxx's
// triplet-factor wiring: exactly one message per edge of the triangle, the
// 1-D analogue of PairwiseTriplet12/13/23 for a Size()==1 left factor.
type MulticutEdgeTriplet struct {
	mode Mode
	axis factor.TripletEdgeIndex
}

// NewMulticutEdgeTriplet constructs a message coupling a MulticutEdge to
// the named axis of an adjacent MulticutTriplet.
func NewMulticutEdgeTriplet(mode Mode, axis factor.TripletEdgeIndex) *MulticutEdgeTriplet {
	return &MulticutEdgeTriplet{mode: mode, axis: axis}
}

func (m *MulticutEdgeTriplet) Kind() Kind { return KindMulticutEdgeTriplet }
func (m *MulticutEdgeTriplet) Mode() Mode { return m.mode }
func (m *MulticutEdgeTriplet) Capabilities() Capability {
	return CanSend | CanReceive | CanRestrictedReceive
}

func (m *MulticutEdgeTriplet) SendToRight(left, right factor.Factor, omega costs.Cost) {
	e := left.(*factor.MulticutEdge)
	tr := right.(*factor.MulticutTriplet)

	delta := omega * e.Theta()
	tr.RepamEdge(m.axis, true, delta)
	e.Repam(-delta)
}

func (m *MulticutEdgeTriplet) ReceiveFromRight(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	tr := right.(*factor.MulticutTriplet)

	cutMarg := tr.MinMarginalEdge(m.axis, true)
	notCutMarg := tr.MinMarginalEdge(m.axis, false)
	delta := cutMarg - notCutMarg

	e.Repam(delta)
	tr.RepamEdge(m.axis, true, -delta)
}

// ReceiveRestrictedFromRight is ReceiveFromRight with both marginals
// computed over only the triplet's still-live configs, the scalar-left
// analogue of UnaryPairwiseLeft.ReceiveRestrictedFromRight: the original
// source's UnaryPairwiseMessageLeft/Right genuinely supports restricted
// receive (unlike the table-to-table PairwiseTripletMessage12/13/23), and
// this message has the same scalar-left/table-right shape.
func (m *MulticutEdgeTriplet) ReceiveRestrictedFromRight(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	tr := right.(*factor.MulticutTriplet)

	cutMarg := tr.MinMarginalEdgeRestricted(m.axis, true)
	notCutMarg := tr.MinMarginalEdgeRestricted(m.axis, false)
	delta := cutMarg - notCutMarg

	e.Repam(delta)
	tr.RepamEdge(m.axis, true, -delta)
}

func (m *MulticutEdgeTriplet) ComputeRightFromLeftPrimal(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	tr := right.(*factor.MulticutTriplet)
	cut, ok := e.GetPrimal()
	if !ok {
		return
	}
	tr.SetPrimalEdge(m.axis, cut)
}

// MulticutEdgeGlobal couples a MulticutEdge to its slot in the instance's
// MulticutGlobal consistency factor, grounded on spec.md §4.6's
// description of MulticutGlobal as a hard cycle-consistency constraint
// over the whole edge set, not a reparametrized factor: it carries no
// dual cost (MulticutGlobal.LowerBound is always zero), so there is
// nothing for SendToRight/ReceiveFromRight/ReceiveRestrictedFromRight to
// do. This message exists purely to propagate each edge's decided cut
// primal into MulticutGlobal's own primal slot during the rounding
// sub-pass, so MulticutGlobal.EvaluatePrimal validates the real decided
// cut instead of an independently-guessed one; Capabilities reports none
// of the three dual-message capabilities, so the ordinary forward/backward
// sweeps and the restricted-receive pass all skip it, and only
// ComputeRightFromLeftPrimal — which the scheduler calls unconditionally
// once the edge is decided — does anything.
type MulticutEdgeGlobal struct {
	mode    Mode
	edgeIdx int
}

// NewMulticutEdgeGlobal constructs a message propagating edge index edgeIdx
// (this MulticutEdge's position in the owning MulticutGlobal's edge list)
// from a MulticutEdge to a MulticutGlobal.
func NewMulticutEdgeGlobal(mode Mode, edgeIdx int) *MulticutEdgeGlobal {
	return &MulticutEdgeGlobal{mode: mode, edgeIdx: edgeIdx}
}

func (m *MulticutEdgeGlobal) Kind() Kind               { return KindMulticutEdgeGlobal }
func (m *MulticutEdgeGlobal) Mode() Mode               { return m.mode }
func (m *MulticutEdgeGlobal) Capabilities() Capability { return 0 }

func (m *MulticutEdgeGlobal) SendToRight(left, right factor.Factor, omega costs.Cost) {}

func (m *MulticutEdgeGlobal) ReceiveFromRight(left, right factor.Factor) {}

func (m *MulticutEdgeGlobal) ReceiveRestrictedFromRight(left, right factor.Factor) {}

// ComputeRightFromLeftPrimal copies the decided edge's cut/not-cut primal
// into MulticutGlobal's slot for this edge.
func (m *MulticutEdgeGlobal) ComputeRightFromLeftPrimal(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	g := right.(*factor.MulticutGlobal)
	cut, ok := e.GetPrimal()
	if !ok {
		return
	}
	g.SetPrimalEdge(m.edgeIdx, cut)
}
