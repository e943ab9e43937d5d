package factor

import (
	"testing"

	"github.com/dualbca/dualbca/costs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripletMinMarginal12(t *testing.T) {
	tr := NewTripletSimplex(2, 2, 2)
	tr.Cost().Set(0, 0, 0, 5)
	tr.Cost().Set(0, 0, 1, 1)
	tr.Cost().Set(1, 1, 0, 9)
	tr.Cost().Set(1, 1, 1, 2)

	m12 := costs.NewMatrix(2, 2)
	tr.MinMarginal12(m12)
	assert.Equal(t, costs.Cost(1), m12.At(0, 0))
	assert.Equal(t, costs.Cost(2), m12.At(1, 1))
}

func TestTripletPrimalRoundTrip(t *testing.T) {
	tr := NewTripletSimplex(2, 2, 2)
	tr.SetPrimal(1, 0, 1)
	i, j, k, ok := tr.GetPrimal()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 0, j)
	assert.Equal(t, 1, k)
	assert.True(t, tr.PrimalDecided())
}
