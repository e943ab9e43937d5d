package costs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	// 1) Transient -Inf must become +Inf.
	assert.True(t, math.IsInf(float64(Normalize(NegInf)), 1))
	// 2) +Inf passes through unchanged.
	assert.Equal(t, PosInf, Normalize(PosInf))
	// 3) Finite values pass through unchanged.
	assert.Equal(t, Cost(3.5), Normalize(Cost(3.5)))
}

func TestPaddedLen(t *testing.T) {
	cases := map[int]int{1: 8, 7: 8, 8: 8, 9: 16, 16: 16, 17: 24}
	for n, want := range cases {
		assert.Equal(t, want, paddedLen(n), "n=%d", n)
	}
}

func TestCheckFiniteDebug(t *testing.T) {
	Debug = true
	defer func() { Debug = false }()
	assert.Panics(t, func() { checkFinite(Cost(math.NaN())) })
}
