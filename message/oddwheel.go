package message

import (
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
)

// TripletOddWheel couples a spoke MulticutEdge (center-to-rim) to one rim
// variable of an adjacent OddWheel factor, grounded on spec.md §4.6's
// odd-wheel search: the rim variable is "is this rim node cut off from the
// center", exactly the MulticutEdge it was discovered from, so the wiring
// mirrors MulticutEdgeTriplet's scalar-left/table-right shape with
// OddWheel.MinMarginalVar/RepamVar in place of MulticutTriplet's
// per-axis accessors.
type TripletOddWheel struct {
	mode   Mode
	rimVar int
}

// NewTripletOddWheel constructs a message coupling a spoke MulticutEdge to
// rim variable rimVar of an adjacent OddWheel.
func NewTripletOddWheel(mode Mode, rimVar int) *TripletOddWheel {
	return &TripletOddWheel{mode: mode, rimVar: rimVar}
}

func (m *TripletOddWheel) Kind() Kind { return KindTripletOddWheel }
func (m *TripletOddWheel) Mode() Mode { return m.mode }
func (m *TripletOddWheel) Capabilities() Capability {
	return CanSend | CanReceive | CanRestrictedReceive
}

func (m *TripletOddWheel) SendToRight(left, right factor.Factor, omega costs.Cost) {
	e := left.(*factor.MulticutEdge)
	w := right.(*factor.OddWheel)

	delta := omega * e.Theta()
	w.RepamVar(m.rimVar, true, delta)
	e.Repam(-delta)
}

func (m *TripletOddWheel) ReceiveFromRight(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	w := right.(*factor.OddWheel)

	cutMarg := w.MinMarginalVar(m.rimVar, true)
	notCutMarg := w.MinMarginalVar(m.rimVar, false)
	delta := cutMarg - notCutMarg

	e.Repam(delta)
	w.RepamVar(m.rimVar, true, -delta)
}

// ReceiveRestrictedFromRight is ReceiveFromRight with both marginals
// restricted to the odd wheel's still-live rim states, the scalar-left
// analogue of UnaryPairwiseLeft.ReceiveRestrictedFromRight.
func (m *TripletOddWheel) ReceiveRestrictedFromRight(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	w := right.(*factor.OddWheel)

	cutMarg := w.MinMarginalVarRestricted(m.rimVar, true)
	notCutMarg := w.MinMarginalVarRestricted(m.rimVar, false)
	delta := cutMarg - notCutMarg

	e.Repam(delta)
	w.RepamVar(m.rimVar, true, -delta)
}

func (m *TripletOddWheel) ComputeRightFromLeftPrimal(left, right factor.Factor) {
	e := left.(*factor.MulticutEdge)
	w := right.(*factor.OddWheel)
	cut, ok := e.GetPrimal()
	if !ok {
		return
	}
	w.SetPrimalVar(m.rimVar, cut)
}
