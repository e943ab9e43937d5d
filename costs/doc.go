// Package costs provides the aligned numeric containers that back every
// factor's tabular cost storage: a scalar Cost type with an explicit +Inf
// sentinel, and Vector/Matrix/Tensor3 containers with min-reductions and
// lightweight non-owning scaled/negated views.
//
// Vector pads its backing storage to a multiple of minPad cells with +Inf,
// so that a min-reduction over the padded region is always correct without
// special-casing the tail — the Go analogue of the source's SIMD-width
// padding. Matrix and Tensor3 store exactly their cells, unpadded.
//
// NaN must never appear in a cost table. When costs.Debug is true, each
// container's Set asserts this; the bulk add helpers, Matrix/Tensor3
// AddAt and DeserializeDual do not check. With Debug false the check is
// skipped for speed, matching the debug/release asymmetry of the original
// engine.
package costs

// Debug enables the NaN assertion in Vector/Matrix/Tensor3 Set.
// TestCheckFiniteDebug turns it on; production callers leave it false for
// speed, since the NaN check walks no extra memory but still costs a
// branch per write.
var Debug = false
