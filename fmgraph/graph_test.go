package fmgraph

import (
	"testing"

	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeOrdersByMessageEdges(t *testing.T) {
	g := New()
	u1 := g.AddFactor(factor.NewUnarySimplex(2))
	u2 := g.AddFactor(factor.NewUnarySimplex(2))
	p := g.AddFactor(factor.NewPairwiseSimplex(2, 2))

	g.AddMessage(message.NewUnaryPairwiseLeft(message.SRMP), u1, p, message.KindUnaryPairwiseLeft)
	g.AddMessage(message.NewUnaryPairwiseRight(message.SRMP), u2, p, message.KindUnaryPairwiseRight)

	require.NoError(t, g.Finalize())
	order, err := g.Order()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[int]int, 3)
	for i, h := range order {
		pos[h] = i
	}
	assert.Less(t, pos[u1], pos[p])
	assert.Less(t, pos[u2], pos[p])
}

func TestFinalizeDetectsCycle(t *testing.T) {
	g := New()
	a := g.AddFactor(factor.NewUnarySimplex(2))
	b := g.AddFactor(factor.NewUnarySimplex(2))
	g.AddFactorRelation(a, b)
	g.AddFactorRelation(b, a)

	err := g.Finalize()
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestOrderBeforeFinalizeErrors(t *testing.T) {
	g := New()
	g.AddFactor(factor.NewUnarySimplex(2))
	_, err := g.Order()
	assert.ErrorIs(t, err, ErrUnfinalized)
}

func TestOutgoingIncomingMessages(t *testing.T) {
	g := New()
	u := g.AddFactor(factor.NewUnarySimplex(2))
	p := g.AddFactor(factor.NewPairwiseSimplex(2, 2))
	idx := g.AddMessage(message.NewUnaryPairwiseLeft(message.SRMP), u, p, message.KindUnaryPairwiseLeft)

	assert.Equal(t, []int{idx}, g.OutgoingMessages(u))
	assert.Equal(t, []int{idx}, g.IncomingMessages(p))
	assert.Empty(t, g.IncomingMessages(u))
	assert.Empty(t, g.OutgoingMessages(p))
}

func TestMarkTree(t *testing.T) {
	g := New()
	u := g.AddFactor(factor.NewUnarySimplex(2))
	p := g.AddFactor(factor.NewPairwiseSimplex(2, 2))
	idx := g.AddMessage(message.NewUnaryPairwiseLeft(message.SRMP), u, p, message.KindUnaryPairwiseLeft)

	assert.False(t, g.IsTreeMessage(idx))
	g.MarkTree(idx, true)
	assert.True(t, g.IsTreeMessage(idx))
}
