package costs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorMinAndTwoMin(t *testing.T) {
	v := NewVector(4)
	v.Set(0, 3)
	v.Set(1, 1)
	v.Set(2, 4)
	v.Set(3, 1)

	assert.Equal(t, Cost(1), v.Min())
	first, second := v.TwoMin()
	assert.Equal(t, Cost(1), first)
	assert.Equal(t, Cost(1), second)
}

func TestVectorPaddingNeutral(t *testing.T) {
	// Size 1 pads to 8 cells; padding must be +Inf and never win Min.
	v := NewVector(1)
	v.Set(0, -5)
	assert.Equal(t, Cost(-5), v.Min())
}

func TestVectorAddAtNormalizes(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 3)
	v.AddAt(0, -PosInf)
	assert.Equal(t, PosInf, v.At(0))
}

func TestVectorSerializeRoundTrip(t *testing.T) {
	v := NewVector(3)
	v.Set(0, 1.5)
	v.Set(1, PosInf)
	v.Set(2, -2.25)

	var buf bytes.Buffer
	require.NoError(t, v.SerializeDual(&buf))

	out := NewVector(3)
	require.NoError(t, out.DeserializeDual(&buf))
	assert.Equal(t, v.At(0), out.At(0))
	assert.Equal(t, v.At(1), out.At(1))
	assert.Equal(t, v.At(2), out.At(2))

	// Serialize -> deserialize -> serialize yields identical bytes.
	var buf2 bytes.Buffer
	require.NoError(t, out.SerializeDual(&buf2))
	firstBytes := v
	var buf3 bytes.Buffer
	require.NoError(t, firstBytes.SerializeDual(&buf3))
	assert.Equal(t, buf3.Bytes(), buf2.Bytes())
}
