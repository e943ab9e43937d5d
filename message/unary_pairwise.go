package message

import (
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
)

// UnaryPairwiseLeft couples a UnarySimplex to a PairwiseSimplex's first
// axis (rows). After receive+repam, the pairwise factor's row minima are
// zero (spec.md §8 testable property #3).
type UnaryPairwiseLeft struct {
	mode Mode
}

// NewUnaryPairwiseLeft constructs a left-axis unary-pairwise message.
func NewUnaryPairwiseLeft(mode Mode) *UnaryPairwiseLeft { return &UnaryPairwiseLeft{mode: mode} }

func (m *UnaryPairwiseLeft) Kind() Kind { return KindUnaryPairwiseLeft }
func (m *UnaryPairwiseLeft) Mode() Mode { return m.mode }
func (m *UnaryPairwiseLeft) Capabilities() Capability {
	return CanSend | CanReceive | CanRestrictedReceive
}

func (m *UnaryPairwiseLeft) SendToRight(left, right factor.Factor, omega costs.Cost) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)

	delta := costs.NewVector(u.Size())
	costs.Scaled{V: u.Cost(), Omega: omega}.Materialize(delta)

	p.Cost().AddVector1(delta)

	neg := costs.NewVector(u.Size())
	costs.Negated{V: delta}.Materialize(neg)
	u.Repam(neg)
}

func (m *UnaryPairwiseLeft) ReceiveFromRight(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)

	delta := costs.NewVector(u.Size())
	p.MinMarginal1(delta)

	u.Repam(delta)

	neg := costs.NewVector(u.Size())
	costs.Negated{V: delta}.Materialize(neg)
	p.Cost().AddVector1(neg)
}

// ReceiveRestrictedFromRight is ReceiveFromRight with the reduction
// restricted to entries of p not yet ruled out by the rounding sub-pass
// (spec.md §4.5's restricted receive): entries another message has already
// marked PrimalFalse are treated as forbidden rather than folded into the
// row minimum.
func (m *UnaryPairwiseLeft) ReceiveRestrictedFromRight(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)

	delta := costs.NewVector(u.Size())
	p.MinMarginal1Restricted(delta)

	u.Repam(delta)

	neg := costs.NewVector(u.Size())
	costs.Negated{V: delta}.Materialize(neg)
	p.Cost().AddVector1(neg)
}

func (m *UnaryPairwiseLeft) ComputeRightFromLeftPrimal(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)
	label, ok := u.GetPrimal()
	if !ok {
		return
	}
	p.SetPrimalFirst(label)
}

// UnaryPairwiseRight couples a UnarySimplex to a PairwiseSimplex's second
// axis (columns), the mirror image of UnaryPairwiseLeft.
type UnaryPairwiseRight struct {
	mode Mode
}

// NewUnaryPairwiseRight constructs a right-axis unary-pairwise message.
func NewUnaryPairwiseRight(mode Mode) *UnaryPairwiseRight { return &UnaryPairwiseRight{mode: mode} }

func (m *UnaryPairwiseRight) Kind() Kind { return KindUnaryPairwiseRight }
func (m *UnaryPairwiseRight) Mode() Mode { return m.mode }
func (m *UnaryPairwiseRight) Capabilities() Capability {
	return CanSend | CanReceive | CanRestrictedReceive
}

func (m *UnaryPairwiseRight) SendToRight(left, right factor.Factor, omega costs.Cost) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)

	delta := costs.NewVector(u.Size())
	costs.Scaled{V: u.Cost(), Omega: omega}.Materialize(delta)

	p.Cost().AddVector2(delta)

	neg := costs.NewVector(u.Size())
	costs.Negated{V: delta}.Materialize(neg)
	u.Repam(neg)
}

func (m *UnaryPairwiseRight) ReceiveFromRight(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)

	delta := costs.NewVector(u.Size())
	p.MinMarginal2(delta)

	u.Repam(delta)

	neg := costs.NewVector(u.Size())
	costs.Negated{V: delta}.Materialize(neg)
	p.Cost().AddVector2(neg)
}

// ReceiveRestrictedFromRight mirrors UnaryPairwiseLeft's restricted receive
// along the second axis.
func (m *UnaryPairwiseRight) ReceiveRestrictedFromRight(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)

	delta := costs.NewVector(u.Size())
	p.MinMarginal2Restricted(delta)

	u.Repam(delta)

	neg := costs.NewVector(u.Size())
	costs.Negated{V: delta}.Materialize(neg)
	p.Cost().AddVector2(neg)
}

func (m *UnaryPairwiseRight) ComputeRightFromLeftPrimal(left, right factor.Factor) {
	u := left.(*factor.UnarySimplex)
	p := right.(*factor.PairwiseSimplex)
	label, ok := u.GetPrimal()
	if !ok {
		return
	}
	p.SetPrimalSecond(label)
}
