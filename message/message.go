// Package message implements the closed set of message variants of
// spec.md §4.3: reparametrizing edges between a left and a right factor.
// A message owns no cost buffer of its own — its only state is a small
// mode/kind tag — all cost lives in the two adjacent factors, per
// spec.md §3's "messages own only their endpoint handles and small
// constant data" invariant.
//
// Each concrete variant (UnaryPairwiseLeft, UnaryPairwiseRight,
// PairwiseTriplet12/13/23) is grounded on
// _examples/original_source/include/messages/simplex_marginalization_message.hxx
// and knows exactly which two concrete factor.Factor implementations it
// connects; it type-asserts down to them internally rather than working
// through a generic numeric interface, matching spec.md §9's redesign note
// that dispatch is static per message kind.
package message

import (
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
)

// Kind tags which of the closed set of message variants a Message is.
type Kind int

const (
	KindUnaryPairwiseLeft Kind = iota
	KindUnaryPairwiseRight
	KindPairwiseTriplet12
	KindPairwiseTriplet13
	KindPairwiseTriplet23
	KindMulticutEdgeTriplet
	KindTripletOddWheel
	KindUnaryTomography
	KindMulticutEdgeGlobal
)

func (k Kind) String() string {
	switch k {
	case KindUnaryPairwiseLeft:
		return "unary_pairwise_left"
	case KindUnaryPairwiseRight:
		return "unary_pairwise_right"
	case KindPairwiseTriplet12:
		return "pairwise_triplet_12"
	case KindPairwiseTriplet13:
		return "pairwise_triplet_13"
	case KindPairwiseTriplet23:
		return "pairwise_triplet_23"
	case KindMulticutEdgeTriplet:
		return "multicut_edge_triplet"
	case KindTripletOddWheel:
		return "triplet_odd_wheel"
	case KindUnaryTomography:
		return "unary_tomography"
	case KindMulticutEdgeGlobal:
		return "multicut_edge_global"
	default:
		return "unknown"
	}
}

// Mode names the sending schedule a message is tagged with: SRMP's
// sequential reweighted passing (strictly monotone dual ascent under
// anisotropic weights) or MPLP's symmetric receive-average-send schedule
// (weakly monotone). Each message stores its Mode and reports it via
// Mode(); the scheduler's sweeps do not branch on it, so SRMP- and
// MPLP-tagged messages are swept by the same schedule.
type Mode int

const (
	SRMP Mode = iota
	MPLP
)

func (m Mode) String() string {
	if m == MPLP {
		return "mplp"
	}
	return "srmp"
}

// Capability is a bitset of the operations a message variant supports,
// replacing the source's throw-on-unsupported-operation pattern
// (spec.md §9): the scheduler checks capabilities before calling rather
// than calling and recovering.
type Capability uint8

const (
	CanSend Capability = 1 << iota
	CanReceive
	CanRestrictedReceive
)

// Has reports whether every bit of want is set in c.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Message is the common contract every message variant satisfies. All
// four methods take the two endpoint factors as the generic factor.Factor
// interface; each concrete variant asserts them down to the specific pair
// of concrete types it was constructed to connect.
type Message interface {
	Kind() Kind
	Mode() Mode
	Capabilities() Capability

	// SendToRight is the forward-sweep step: compute this message's
	// current contribution from left (scaled by omega), add it into
	// right, and subtract it from left — preserving the dual bound.
	SendToRight(left, right factor.Factor, omega costs.Cost)

	// ReceiveFromRight is the backward-sweep step: compute this message's
	// min-marginal contribution from right, add it into left, and
	// subtract it from right.
	ReceiveFromRight(left, right factor.Factor)

	// ReceiveRestrictedFromRight is ReceiveFromRight restricted to the
	// rounding sub-pass: only entries consistent with already-decided
	// primal labels participate. Valid only if Capabilities() has
	// CanRestrictedReceive; the scheduler must check before calling.
	ReceiveRestrictedFromRight(left, right factor.Factor)

	// ComputeRightFromLeftPrimal propagates a decided left primal label
	// into a partial commitment on right, once left.PrimalDecided().
	ComputeRightFromLeftPrimal(left, right factor.Factor)
}
