package scheduler

import (
	"github.com/dualbca/dualbca/config"
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/fmgraph"
	"github.com/dualbca/dualbca/message"
)

// outgoingWeights computes ω(f, m) for every outgoing message of factor f,
// aligned index-for-index with fmgraph.Graph.OutgoingMessages(f). Messages
// lacking CanSend get weight zero and are skipped by the sweep, per
// spec.md §9's capability-boolean redesign note.
//
// Anisotropic: k_f is the count of outgoing messages that can send;
// weight is 1/k_f for each, distributing f's mass uniformly among forward
// neighbors (spec.md §4.5).
//
// Uniform: weight is 1/(forward_count+backward_count) for every sendable
// neighbor, accounting symmetrically for both incidences.
func outgoingWeights(g *fmgraph.Graph, f int, mode config.ReparamMode) []costs.Cost {
	out := g.OutgoingMessages(f)
	weights := make([]costs.Cost, len(out))
	canSend := make([]bool, len(out))
	k := 0
	for i, idx := range out {
		_, _, _, msg := g.Message(idx)
		if msg.Capabilities().Has(message.CanSend) {
			canSend[i] = true
			k++
		}
	}
	if k == 0 {
		return weights
	}

	var denom int
	switch mode {
	case config.Uniform:
		denom = len(out) + len(g.IncomingMessages(f))
	default: // config.Anisotropic
		denom = k
	}
	if denom == 0 {
		return weights
	}
	w := costs.Cost(1.0 / float64(denom))
	for i, ok := range canSend {
		if ok {
			weights[i] = w
		}
	}
	return weights
}
