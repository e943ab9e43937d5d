package factor

import (
	"testing"

	"github.com/dualbca/dualbca/costs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTomographyCountingLowerBoundRespectsCardinality(t *testing.T) {
	// 3 binary variables, all biased toward 0 at cost 0, toward 1 at cost 1,
	// constrained to exactly 2 ones: the cheapest feasible labeling picks
	// the two cheapest "on" variables, cost 1+1+0 = 2.
	tc := NewTomographyCounting(3, 2)
	for i := 0; i < 3; i++ {
		tc.RepamVar(i, 0, 1)
	}
	assert.Equal(t, costs.Cost(2), tc.LowerBound())
}

func TestTomographyCountingLowerBoundInfeasibleSum(t *testing.T) {
	tc := NewTomographyCounting(2, 5)
	assert.True(t, tc.LowerBound().IsPosInf())
}

func TestTomographyCountingPropagatePrimalForcesLastVar(t *testing.T) {
	tc := NewTomographyCounting(4, 3)
	tc.SetPrimalVar(0, true)
	tc.SetPrimalVar(1, true)
	tc.SetPrimalVar(2, true)
	assert.False(t, tc.PrimalDecided())

	changed := tc.PropagatePrimal()
	assert.True(t, changed)
	on, ok := tc.GetPrimalVar(3)
	require.True(t, ok)
	assert.False(t, on)
	assert.True(t, tc.PrimalDecided())
}

func TestTomographyCountingEvaluatePrimalRejectsWrongSum(t *testing.T) {
	tc := NewTomographyCounting(3, 2)
	tc.SetPrimalVar(0, true)
	tc.SetPrimalVar(1, false)
	tc.SetPrimalVar(2, false)
	assert.True(t, tc.EvaluatePrimal().IsPosInf())
}

func TestTomographyCountingMinMarginalVarMatchesBruteForce(t *testing.T) {
	// 3 binary variables, targetSum 2, distinct costs per variable/label.
	tc := NewTomographyCounting(3, 2)
	tc.RepamVar(0, 0, 3)
	tc.RepamVar(1, 1, 0)
	tc.RepamVar(2, 2, 1)

	costOf := func(x0, x1, x2 int) costs.Cost {
		cs := [3][2]costs.Cost{{0, 3}, {1, 0}, {2, 1}}
		return cs[0][x0] + cs[1][x1] + cs[2][x2]
	}
	bruteForceFixing := func(fixedIdx, fixedVal int) costs.Cost {
		best := costs.PosInf
		x := [3]int{}
		for x[0] = 0; x[0] < 2; x[0]++ {
			for x[1] = 0; x[1] < 2; x[1]++ {
				for x[2] = 0; x[2] < 2; x[2]++ {
					if x[fixedIdx] != fixedVal {
						continue
					}
					if x[0]+x[1]+x[2] != 2 {
						continue
					}
					if c := costOf(x[0], x[1], x[2]); c < best {
						best = c
					}
				}
			}
		}
		return best
	}

	for i := 0; i < 3; i++ {
		mm0, mm1 := tc.MinMarginalVar(i)
		assert.Equal(t, bruteForceFixing(i, 0), mm0)
		assert.Equal(t, bruteForceFixing(i, 1), mm1)
	}
}

func TestTomographyCountingMinMarginalVarRestrictedRespectsDecidedNeighbor(t *testing.T) {
	// 3 binary variables, targetSum 1. Var 0 and 1 are cheap off (cost 0
	// off / 5 on); var 2 is cheap on (cost 5 off / 0 on), so the
	// unconstrained-neighbor optimum always routes the single "one"
	// through var 2.
	tc := NewTomographyCounting(3, 1)
	tc.RepamVar(0, 0, 5)
	tc.RepamVar(1, 0, 5)
	tc.RepamVar(2, 5, 0)

	mm0, mm1 := tc.MinMarginalVar(0)
	assert.Equal(t, costs.Cost(0), mm0)
	assert.Equal(t, costs.Cost(10), mm1)

	// Now fix var 2 off, as if another message already decided it — the
	// restricted reduction must route the one "on" slot through var 1
	// instead (var 1 on 5 + var 2 off 5 = 10), rather than still assuming
	// var 2 is free.
	tc.SetPrimalVar(2, false)
	mm0, mm1 = tc.MinMarginalVarRestricted(0)
	assert.Equal(t, costs.Cost(10), mm0)
	assert.Equal(t, costs.Cost(10), mm1)
}

func TestTomographyCountingGlobalMinCostIgnoresCardinality(t *testing.T) {
	tc := NewTomographyCounting(2, 2)
	tc.RepamVar(0, 0, 5)
	tc.RepamVar(1, 0, 5)
	// Unconstrained optimum picks "off" for both, cost 0, even though that
	// violates the sum=2 constraint.
	assert.Equal(t, costs.Cost(0), tc.GlobalMinCost())
}
