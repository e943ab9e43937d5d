package costs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensor3MinMarginals(t *testing.T) {
	// 2x2x2 tensor, values = i*4 + j*2 + k.
	ten := NewTensor3(2, 2, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				ten.Set(i, j, k, Cost(i*4+j*2+k))
			}
		}
	}

	m12 := NewMatrix(2, 2)
	ten.MinMarginal12(m12)
	// min over k for each (i,j) is the value at k=0.
	assert.Equal(t, Cost(0), m12.At(0, 0))
	assert.Equal(t, Cost(4), m12.At(1, 0))

	m13 := NewMatrix(2, 2)
	ten.MinMarginal13(m13)
	// min over j for each (i,k) is the value at j=0.
	assert.Equal(t, Cost(0), m13.At(0, 0))
	assert.Equal(t, Cost(1), m13.At(0, 1))

	m23 := NewMatrix(2, 2)
	ten.MinMarginal23(m23)
	assert.Equal(t, Cost(0), m23.At(0, 0))

	assert.Equal(t, Cost(0), ten.Min())
}

func TestTensor3SerializeRoundTrip(t *testing.T) {
	ten := NewTensor3(2, 2, 2)
	ten.Set(0, 0, 0, 0)
	ten.Set(1, 0, 0, 1)
	var buf bytes.Buffer
	require.NoError(t, ten.SerializeDual(&buf))
	out := NewTensor3(2, 2, 2)
	require.NoError(t, out.DeserializeDual(&buf))
	assert.Equal(t, ten.At(0, 0, 0), out.At(0, 0, 0))
}
