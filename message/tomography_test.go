package message

import (
	"testing"

	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaryTomographySendToRightZeroesUnaryAtFullWeight(t *testing.T) {
	u := factor.NewUnarySimplex(2)
	u.Cost().Set(0, 3)
	u.Cost().Set(1, 7)
	tc := factor.NewTomographyCounting(2, 1)
	tc.RepamVar(1, 0, 0)

	before := u.LowerBound() + tc.LowerBound()

	m := NewUnaryTomography(SRMP, 0)
	m.SendToRight(u, tc, 1.0)

	assert.Equal(t, costs.Cost(0), u.Cost().At(0))
	assert.Equal(t, costs.Cost(0), u.Cost().At(1))

	after := u.LowerBound() + tc.LowerBound()
	require.InDelta(t, float64(before), float64(after), 1e-9)
}

func TestUnaryTomographyReceiveFromRightPreservesSum(t *testing.T) {
	tc := factor.NewTomographyCounting(3, 2)
	tc.RepamVar(0, 0, 3)
	tc.RepamVar(1, 1, 0)
	tc.RepamVar(2, 2, 1)
	u := factor.NewUnarySimplex(2)

	before := u.LowerBound() + tc.LowerBound()

	m := NewUnaryTomography(SRMP, 1)
	m.ReceiveFromRight(u, tc)

	after := u.LowerBound() + tc.LowerBound()
	require.InDelta(t, float64(before), float64(after), 1e-9)
}

func TestUnaryTomographyComputeRightFromLeftPrimal(t *testing.T) {
	u := factor.NewUnarySimplex(2)
	u.SetPrimal(1)
	tc := factor.NewTomographyCounting(2, 1)

	m := NewUnaryTomography(SRMP, 0)
	m.ComputeRightFromLeftPrimal(u, tc)

	on, ok := tc.GetPrimalVar(0)
	require.True(t, ok)
	assert.True(t, on)
}
