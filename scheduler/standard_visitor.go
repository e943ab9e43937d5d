package scheduler

import (
	"runtime"
	"time"

	"github.com/dualbca/dualbca/config"
	"github.com/dualbca/dualbca/costs"
)

// StandardVisitor is the default Visitor, grounded on
// _examples/original_source/include/visitors/standard_visitor.hxx: it
// stops on wall-clock timeout, a resident-memory cap, primal equalling
// dual, or the dual bound improving by less than MinDualImprovement
// averaged over MinDualImprovementWindow iterations. It does not count
// iterations against MaxIter; Scheduler.Run enforces that cap itself.
// It also requests a tightening pass once every TightenInterval
// iterations starting at TightenIteration, when TightenEnabled.
type StandardVisitor struct {
	cfg   config.Options
	start time.Time

	window      []costs.Cost
	prevDualSet bool
	prevDual    costs.Cost
}

// NewStandardVisitor constructs a StandardVisitor from cfg, starting its
// wall-clock timer now.
func NewStandardVisitor(cfg config.Options) *StandardVisitor {
	return &StandardVisitor{cfg: cfg, start: time.Now()}
}

func (v *StandardVisitor) Visit(status Status) Control {
	elapsed := time.Since(v.start)

	if status.HasPrimal && status.PrimalCost <= status.LowerBound {
		return Control{End: true}
	}

	if v.cfg.TimeoutMS > 0 && elapsed.Milliseconds() >= v.cfg.TimeoutMS {
		return Control{End: true}
	}

	if v.cfg.MaxMemoryMB > 0 {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		usedMB := int(mem.Sys / (1024 * 1024))
		if usedMB > v.cfg.MaxMemoryMB {
			return Control{End: true}
		}
	}

	end := false
	if v.cfg.MinDualImprovement > 0 && v.cfg.MinDualImprovementWindow > 0 {
		if v.prevDualSet {
			v.window = append(v.window, status.LowerBound-v.prevDual)
			if len(v.window) > v.cfg.MinDualImprovementWindow {
				v.window = v.window[len(v.window)-v.cfg.MinDualImprovementWindow:]
			}
			if len(v.window) == v.cfg.MinDualImprovementWindow {
				var sum costs.Cost
				for _, d := range v.window {
					sum += d
				}
				avg := float64(sum) / float64(len(v.window))
				if avg < v.cfg.MinDualImprovement {
					end = true
				}
			}
		}
		v.prevDual = status.LowerBound
		v.prevDualSet = true
	}

	tighten := false
	if v.cfg.TightenEnabled && status.Iteration >= v.cfg.TightenIteration {
		offset := status.Iteration - v.cfg.TightenIteration
		if v.cfg.TightenInterval > 0 && offset%v.cfg.TightenInterval == 0 {
			tighten = true
		}
	}

	return Control{Tighten: tighten, End: end}
}
