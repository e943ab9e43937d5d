package message

import (
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
)

// UnaryTomography couples a binary UnarySimplex to one variable of a
// TomographyCounting factor, the counting-factor analogue of
// UnaryPairwiseLeft/Right: the same send/receive/restricted-receive/
// propagate-primal shape, but against TomographyCounting's per-variable
// RepamVar/MinMarginalVar/SetPrimalVar accessors instead of a pairwise
// table's row/column ones.
type UnaryTomography struct {
	mode   Mode
	varIdx int
}

// NewUnaryTomography constructs a message coupling a unary factor to
// variable varIdx of a TomographyCounting factor.
func NewUnaryTomography(mode Mode, varIdx int) *UnaryTomography {
	return &UnaryTomography{mode: mode, varIdx: varIdx}
}

func (m *UnaryTomography) Kind() Kind { return KindUnaryTomography }
func (m *UnaryTomography) Mode() Mode { return m.mode }
func (m *UnaryTomography) Capabilities() Capability {
	return CanSend | CanReceive | CanRestrictedReceive
}

func (m *UnaryTomography) SendToRight(left, right factor.Factor, omega costs.Cost) {
	u := left.(*factor.UnarySimplex)
	t := right.(*factor.TomographyCounting)

	d0 := u.Cost().At(0) * omega
	d1 := u.Cost().At(1) * omega
	t.RepamVar(m.varIdx, d0, d1)

	delta := costs.NewVector(2)
	delta.Set(0, -d0)
	delta.Set(1, -d1)
	u.Repam(delta)
}

func (m *UnaryTomography) ReceiveFromRight(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	t := right.(*factor.TomographyCounting)

	mm0, mm1 := t.MinMarginalVar(m.varIdx)

	delta := costs.NewVector(2)
	delta.Set(0, mm0)
	delta.Set(1, mm1)
	u.Repam(delta)

	t.RepamVar(m.varIdx, -mm0, -mm1)
}

// ReceiveRestrictedFromRight is ReceiveFromRight with the marginal
// restricted to labelings consistent with every other already-decided
// variable, via TomographyCounting.MinMarginalVarRestricted.
func (m *UnaryTomography) ReceiveRestrictedFromRight(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	t := right.(*factor.TomographyCounting)

	mm0, mm1 := t.MinMarginalVarRestricted(m.varIdx)

	delta := costs.NewVector(2)
	delta.Set(0, mm0)
	delta.Set(1, mm1)
	u.Repam(delta)

	t.RepamVar(m.varIdx, -mm0, -mm1)
}

func (m *UnaryTomography) ComputeRightFromLeftPrimal(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	t := right.(*factor.TomographyCounting)
	label, ok := u.GetPrimal()
	if !ok {
		return
	}
	t.SetPrimalVar(m.varIdx, label == 1)
}
