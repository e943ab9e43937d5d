package factor

import (
	"bytes"
	"testing"

	"github.com/dualbca/dualbca/costs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairwiseMinMarginals(t *testing.T) {
	p := NewPairwiseSimplex(2, 3)
	vals := [][]costs.Cost{{5, 1, 9}, {2, 7, 0}}
	for i := range vals {
		for j := range vals[i] {
			p.Cost().Set(i, j, vals[i][j])
		}
	}

	m1 := costs.NewVector(2)
	p.MinMarginal1(m1)
	assert.Equal(t, costs.Cost(1), m1.At(0))
	assert.Equal(t, costs.Cost(0), m1.At(1))

	m2 := costs.NewVector(3)
	p.MinMarginal2(m2)
	assert.Equal(t, costs.Cost(2), m2.At(0))
	assert.Equal(t, costs.Cost(1), m2.At(1))
	assert.Equal(t, costs.Cost(0), m2.At(2))
}

func TestPairwiseMinMarginalsRestrictedExcludesRuledOutColumn(t *testing.T) {
	p := NewPairwiseSimplex(2, 3)
	vals := [][]costs.Cost{{5, 1, 9}, {2, 7, 0}}
	for i := range vals {
		for j := range vals[i] {
			p.Cost().Set(i, j, vals[i][j])
		}
	}

	// Unrestricted, row 0's min is at column 1 (cost 1) and row 1's at
	// column 2 (cost 0). Fix the second variable to label 1, as if some
	// other message had already decided it (this rules out columns 0 and
	// 2), and confirm the restricted reduction is forced away from them.
	p.SetPrimalSecond(1)
	assert.Equal(t, PrimalFalse, p.primal[p.flatten(0, 0)])
	assert.Equal(t, PrimalFalse, p.primal[p.flatten(0, 2)])

	m1 := costs.NewVector(2)
	p.MinMarginal1Restricted(m1)
	assert.Equal(t, costs.Cost(1), m1.At(0))
	assert.Equal(t, costs.Cost(7), m1.At(1))

	m2 := costs.NewVector(3)
	p.MinMarginal2Restricted(m2)
	assert.True(t, m2.At(0).IsPosInf())
	assert.Equal(t, costs.Cost(1), m2.At(1))
	assert.True(t, m2.At(2).IsPosInf())
}

func TestPairwisePrimalRoundTrip(t *testing.T) {
	p := NewPairwiseSimplex(2, 2)
	assert.False(t, p.PrimalDecided())
	p.SetPrimal(1, 0)
	assert.True(t, p.PrimalDecided())
	i, j, ok := p.GetPrimal()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 0, j)
}

func TestPairwiseEvaluatePrimalUndecided(t *testing.T) {
	p := NewPairwiseSimplex(2, 2)
	assert.True(t, p.EvaluatePrimal().IsPosInf())
}

func TestPairwiseSerializeDualRoundTrip(t *testing.T) {
	p := NewPairwiseSimplex(2, 2)
	p.Cost().Set(0, 1, 3.5)
	p.Cost().Set(1, 0, -2)

	var buf bytes.Buffer
	require.NoError(t, p.SerializeDual(&buf))

	q := NewPairwiseSimplex(2, 2)
	require.NoError(t, q.DeserializeDual(&buf))
	assert.Equal(t, p.Cost().At(0, 1), q.Cost().At(0, 1))
	assert.Equal(t, p.Cost().At(1, 0), q.Cost().At(1, 0))
}
