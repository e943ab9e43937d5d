package costs

import (
	"encoding/binary"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a fixed-capacity, aligned 1-D cost table: the storage for a
// unary factor, or a message's scratch buffer. size is the number of live
// entries; data is padded to paddedLen(size) with +Inf so that Min/TwoMin
// never need to special-case the tail.
type Vector struct {
	size int
	data []Cost
}

// NewVector allocates a Vector of n live entries, all zero, with +Inf
// padding. n must be >= 1.
func NewVector(n int) *Vector {
	if n < 1 {
		panic("costs: Vector size must be >= 1")
	}
	data := make([]Cost, paddedLen(n))
	for i := n; i < len(data); i++ {
		data[i] = PosInf
	}
	return &Vector{size: n, data: data}
}

// Size returns the number of live entries.
func (v *Vector) Size() int { return v.size }

// At returns the i-th entry. Out-of-range access is a programming error:
// undefined in release builds, asserted in Debug.
func (v *Vector) At(i int) Cost {
	if Debug && (i < 0 || i >= v.size) {
		panic("costs: Vector index out of range")
	}
	return v.data[i]
}

// Set writes the i-th entry.
func (v *Vector) Set(i int, c Cost) {
	checkFinite(c)
	if Debug && (i < 0 || i >= v.size) {
		panic("costs: Vector index out of range")
	}
	v.data[i] = c
}

// AddAt adds delta to the i-th entry, normalizing a transient -Inf.
func (v *Vector) AddAt(i int, delta Cost) {
	v.Set(i, Normalize(v.data[i]+delta))
}

// live returns the non-padding entries as []float64 for gonum consumption.
func (v *Vector) live() []float64 {
	return costsToFloat64(v.data[:v.size])
}

// Min returns the minimum over all live cells. The padded region is +Inf
// and therefore neutral, so reducing over the whole backing slice would
// also be correct; Min reduces only the live prefix to keep the result
// independent of the padding policy.
func (v *Vector) Min() Cost {
	return Cost(floats.Min(v.live()))
}

// TwoMin returns the two smallest values among the live cells, in
// ascending order. Required by uniform weighting, which needs both the
// minimum and the runner-up to compute a reparametrization that leaves the
// minimum at exactly zero.
func (v *Vector) TwoMin() (first, second Cost) {
	f, s := PosInf, PosInf
	for _, c := range v.data[:v.size] {
		switch {
		case c < f:
			s = f
			f = c
		case c < s:
			s = c
		}
	}
	return f, s
}

// CopyFrom overwrites v's live entries with src's. Panics if sizes differ.
func (v *Vector) CopyFrom(src *Vector) {
	if v.size != src.size {
		panic("costs: Vector.CopyFrom size mismatch")
	}
	copy(v.data[:v.size], src.data[:src.size])
}

// AddVector adds src componentwise into v, normalizing each entry.
func (v *Vector) AddVector(src *Vector) {
	if v.size != src.size {
		panic("costs: Vector.AddVector size mismatch")
	}
	for i := 0; i < v.size; i++ {
		v.data[i] = Normalize(v.data[i] + src.data[i])
	}
}

// SerializeDual writes the size live entries, row-major (trivially linear
// for a vector), little-endian IEEE-754 double, per the checkpoint layout
// of spec.md §6.
func (v *Vector) SerializeDual(w io.Writer) error {
	buf := make([]byte, 8*v.size)
	for i := 0; i < v.size; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(float64(v.data[i])))
	}
	_, err := w.Write(buf)
	return err
}

// DeserializeDual reads size little-endian doubles into v's live entries.
func (v *Vector) DeserializeDual(r io.Reader) error {
	buf := make([]byte, 8*v.size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := 0; i < v.size; i++ {
		v.data[i] = Cost(math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:])))
	}
	return nil
}

// costsToFloat64 converts a []Cost to []float64 for gonum/floats calls.
func costsToFloat64(c []Cost) []float64 {
	if len(c) == 0 {
		return nil
	}
	out := make([]float64, len(c))
	for i, x := range c {
		out[i] = float64(x)
	}
	return out
}
