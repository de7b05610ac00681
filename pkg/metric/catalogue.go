package metric

import (
	"fmt"
	"time"

	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/ethpandaops/regressoor/pkg/gctrace"
)

// DefaultRegistry returns the fixed metric catalogue. The registration order
// below is load-bearing: comparisons match metrics positionally between
// baseline and candidate.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Definition{
		Name:      "duration_msec",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return float64(i.Duration) / float64(time.Millisecond)
		},
	})

	r.Register(Definition{
		Name:      "pause_msec_max",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.Pauses().MaxMSec
		},
	})

	r.Register(Definition{
		Name:      "pause_msec_mean",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.Pauses().MeanMSec
		},
	})

	for gen := 0; gen <= 2; gen++ {
		gen := gen

		r.Register(Definition{
			Name:      fmt.Sprintf("gen%d_pause_msec_max", gen),
			Unit:      UnitTime,
			Direction: LowerIsBetter,
			Extract: func(i *artifact.Iteration) float64 {
				return i.ProcessTrace.GenerationPauses(gen).MaxMSec
			},
		})

		r.Register(Definition{
			Name:      fmt.Sprintf("gen%d_pause_msec_mean", gen),
			Unit:      UnitTime,
			Direction: LowerIsBetter,
			Extract: func(i *artifact.Iteration) float64 {
				return i.ProcessTrace.GenerationPauses(gen).MeanMSec
			},
		})
	}

	r.Register(Definition{
		Name:      "full_blocking_pause_msec_max",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.FullPauses(gctrace.KindBlocking).MaxMSec
		},
	})

	r.Register(Definition{
		Name:      "full_blocking_pause_msec_mean",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.FullPauses(gctrace.KindBlocking).MeanMSec
		},
	})

	r.Register(Definition{
		Name:      "full_background_pause_msec_max",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.FullPauses(gctrace.KindBackground).MaxMSec
		},
	})

	r.Register(Definition{
		Name:      "full_background_pause_msec_mean",
		Unit:      UnitTime,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.FullPauses(gctrace.KindBackground).MeanMSec
		},
	})

	for gen := 0; gen <= 2; gen++ {
		gen := gen

		r.Register(Definition{
			Name:      fmt.Sprintf("gen%d_count", gen),
			Unit:      UnitCount,
			Direction: LowerIsBetter,
			Extract: func(i *artifact.Iteration) float64 {
				return float64(i.ProcessTrace.CollectionCount(gen))
			},
		})
	}

	r.Register(Definition{
		Name:      "fragmentation_mb_mean",
		Unit:      UnitSize,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.MeanFragmentationMB()
		},
	})

	r.Register(Definition{
		Name:      "heap_size_mb_mean",
		Unit:      UnitSize,
		Direction: LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return i.ProcessTrace.MeanHeapSizeMB()
		},
	})

	for _, mechanism := range []string{
		gctrace.MechanismCompact,
		gctrace.MechanismSweep,
		gctrace.MechanismConcurrent,
	} {
		mechanism := mechanism

		r.Register(Definition{
			Name:      mechanism + "_count",
			Unit:      UnitCount,
			Direction: LowerIsBetter,
			Extract: func(i *artifact.Iteration) float64 {
				return float64(i.ProcessTrace.MechanismCount(mechanism))
			},
		})
	}

	return r
}
