// Command dualbca-demo wires one of the domain package's constructors into
// a scheduler.Scheduler (and, when tightening is requested, a tighten.Engine)
// and runs it to completion, printing the dual bound and rounded primal
// it finds. It is not a general-purpose CLI: argument parsing is the tiny
// flag-package set config itself deliberately stays out of, for
// demonstration purposes only (SPEC_FULL.md's "External interfaces"
// section).
//
// Command-line flags
//   - -domain string (default "ising"): which domain.* constructor to run —
//     "ising" (S1/S2-style pairwise MRF), "multicut" (S3/S4-style), or
//     "tomography" (S5-style sum-constrained binary chain).
//   - -max-iter int (default 50): caps forward+backward sweep pairs.
//   - -tighten: enables the cutting-plane engine every iteration.
//   - -mode string (default "srmp"): message.Mode tag, "srmp" or "mplp",
//     given to the messages the tightening engine adds; the scheduler's
//     sweeps run the same schedule for either tag.
//   - -verbose: logs one event per sweep and tightening pass to stderr.
//
// Usage examples
//   - go run ./cmd/dualbca-demo -domain ising -tighten
//   - go run ./cmd/dualbca-demo -domain tomography -max-iter 10
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dualbca/dualbca/bcalog"
	"github.com/dualbca/dualbca/config"
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/domain"
	"github.com/dualbca/dualbca/fmgraph"
	"github.com/dualbca/dualbca/message"
	"github.com/dualbca/dualbca/scheduler"
	"github.com/dualbca/dualbca/tighten"
	"github.com/rs/zerolog"
)

func main() {
	domainName := flag.String("domain", "ising", "domain to build: ising, multicut, or tomography")
	maxIter := flag.Int("max-iter", 50, "cap on forward+backward sweep pairs")
	tightenOn := flag.Bool("tighten", false, "enable cutting-plane tightening every iteration")
	modeName := flag.String("mode", "srmp", "message schedule: srmp or mplp")
	verbose := flag.Bool("verbose", false, "log one event per sweep and tighten pass")
	flag.Parse()

	msgMode := message.SRMP
	if *modeName == "mplp" {
		msgMode = message.MPLP
	}

	g, tightener, err := buildDomain(*domainName, msgMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dualbca-demo:", err)
		os.Exit(1)
	}

	cfg := config.New(config.WithMaxIter(*maxIter), config.WithPrimalInterval(1))
	if *tightenOn && tightener != nil {
		cfg = config.New(config.WithMaxIter(*maxIter), config.WithPrimalInterval(1), config.WithTighten(0, 1))
	} else {
		tightener = nil
	}

	s := scheduler.New(g, cfg, tightener)
	if *verbose {
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		s.Log = bcalog.New(zl)
	}

	status, err := s.Run(context.Background(), scheduler.NewStandardVisitor(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, "dualbca-demo:", err)
		os.Exit(1)
	}

	fmt.Printf("domain=%s iterations=%d lower_bound=%.4f has_primal=%v primal_cost=%.4f\n",
		*domainName, status.Iteration, float64(status.LowerBound), status.HasPrimal, float64(status.PrimalCost))
}

// buildDomain constructs one of the three fixed demo instances spec.md §8's
// S1-S5 scenarios exercise, plus (for ising/multicut) the tighten.Engine
// that can tighten it.
func buildDomain(name string, msgMode message.Mode) (*fmgraph.Graph, scheduler.Tightener, error) {
	switch name {
	case "ising":
		unary := [][2]costs.Cost{{0, 0}, {0, 0}, {0, 0}}
		pairwise := map[[2]int]costs.Cost{
			{0, 1}: 1, {1, 2}: 1, {0, 2}: 1,
		}
		g, edgeFactor, err := domain.Ising(3, unary, pairwise)
		if err != nil {
			return nil, nil, err
		}
		return g, tighten.NewMRFEngine(g, []int{2, 2, 2}, edgeFactor, msgMode), nil

	case "multicut":
		edges := map[[2]int]costs.Cost{
			{0, 1}: -4, {0, 2}: 1, {1, 2}: 1, {0, 3}: 1, {1, 3}: 1, {2, 3}: 1,
		}
		g, edgeFactor, err := domain.Multicut(4, edges)
		if err != nil {
			return nil, nil, err
		}
		return g, tighten.NewMulticutEngine(g, 4, edgeFactor, msgMode), nil

	case "tomography":
		n := 8
		unary := make([][2]costs.Cost, n)
		for i := range unary {
			unary[i] = [2]costs.Cost{0, 2}
		}
		g, err := domain.TomographyChain(n, 3, unary)
		if err != nil {
			return nil, nil, err
		}
		return g, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown domain %q (want ising, multicut, or tomography)", name)
	}
}
