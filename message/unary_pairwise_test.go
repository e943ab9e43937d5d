package message

import (
	"testing"

	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaryPairwiseLeftReceiveZeroesRowMinima(t *testing.T) {
	u := factor.NewUnarySimplex(2)
	p := factor.NewPairwiseSimplex(2, 3)
	p.Cost().Set(0, 0, 5)
	p.Cost().Set(0, 1, 1)
	p.Cost().Set(0, 2, 3)
	p.Cost().Set(1, 0, 2)
	p.Cost().Set(1, 1, 4)
	p.Cost().Set(1, 2, 0)

	m := NewUnaryPairwiseLeft(SRMP)
	m.ReceiveFromRight(u, p)

	rowMin := costs.NewVector(2)
	p.MinMarginal1(rowMin)
	assert.Equal(t, costs.Cost(0), rowMin.At(0))
	assert.Equal(t, costs.Cost(0), rowMin.At(1))

	// The min-marginal mass now lives in the unary factor.
	assert.Equal(t, costs.Cost(1), u.Cost().At(0))
	assert.Equal(t, costs.Cost(0), u.Cost().At(1))
}

func TestUnaryPairwiseLeftReceiveRestrictedExcludesRuledOutColumn(t *testing.T) {
	u := factor.NewUnarySimplex(2)
	p := factor.NewPairwiseSimplex(2, 3)
	p.Cost().Set(0, 0, 5)
	p.Cost().Set(0, 1, 1)
	p.Cost().Set(0, 2, 3)
	p.Cost().Set(1, 0, 2)
	p.Cost().Set(1, 1, 4)
	p.Cost().Set(1, 2, 0)

	// Rule out columns 0 and 2 as if UnaryPairwiseRight already decided
	// the second variable is label 1: the restricted row minima must skip
	// column 2 even though it holds the unrestricted minimum for row 1
	// (cost 0).
	p.SetPrimalSecond(1)

	m := NewUnaryPairwiseLeft(SRMP)
	m.ReceiveRestrictedFromRight(u, p)

	assert.Equal(t, costs.Cost(1), u.Cost().At(0))
	assert.Equal(t, costs.Cost(4), u.Cost().At(1))
}

func TestUnaryPairwiseLeftComputeRightFromLeftPrimal(t *testing.T) {
	u := factor.NewUnarySimplex(2)
	p := factor.NewPairwiseSimplex(2, 2)
	u.SetPrimal(1)

	m := NewUnaryPairwiseLeft(SRMP)
	m.ComputeRightFromLeftPrimal(u, p)

	assert.False(t, p.PrimalDecided())
	_, col, ok := p.GetPrimal()
	_ = col
	assert.False(t, ok) // row fixed, column still unknown: not fully decided
}

func TestUnaryPairwiseRightReceiveZeroesColMinima(t *testing.T) {
	u := factor.NewUnarySimplex(3)
	p := factor.NewPairwiseSimplex(2, 3)
	p.Cost().Set(0, 0, 5)
	p.Cost().Set(0, 1, 1)
	p.Cost().Set(0, 2, 3)
	p.Cost().Set(1, 0, 2)
	p.Cost().Set(1, 1, 4)
	p.Cost().Set(1, 2, 0)

	m := NewUnaryPairwiseRight(SRMP)
	m.ReceiveFromRight(u, p)

	colMin := costs.NewVector(3)
	p.MinMarginal2(colMin)
	assert.Equal(t, costs.Cost(0), colMin.At(0))
	assert.Equal(t, costs.Cost(0), colMin.At(1))
	assert.Equal(t, costs.Cost(0), colMin.At(2))
}

func TestUnaryPairwiseLeftSendToRightPreservesSum(t *testing.T) {
	u := factor.NewUnarySimplex(2)
	u.Cost().Set(0, 4)
	u.Cost().Set(1, 6)
	p := factor.NewPairwiseSimplex(2, 2)

	before := u.LowerBound() + p.LowerBound()

	m := NewUnaryPairwiseLeft(SRMP)
	m.SendToRight(u, p, 1.0)

	after := u.LowerBound() + p.LowerBound()
	require.InDelta(t, float64(before), float64(after), 1e-9)
}
