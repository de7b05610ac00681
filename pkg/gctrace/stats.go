package gctrace

// PauseStats aggregates the pause durations of a set of GC events.
type PauseStats struct {
	Count    int
	MaxMSec  float64
	MeanMSec float64
}

// eventFilter selects a subset of a process trace's events.
type eventFilter func(*Event) bool

// pauseStats computes pause statistics over the events matching the filter.
// A nil filter matches every event.
func (p *ProcessTrace) pauseStats(filter eventFilter) PauseStats {
	var stats PauseStats

	var total float64

	for i := range p.Events {
		e := &p.Events[i]
		if filter != nil && !filter(e) {
			continue
		}

		stats.Count++
		total += e.PauseMSec

		if e.PauseMSec > stats.MaxMSec {
			stats.MaxMSec = e.PauseMSec
		}
	}

	if stats.Count > 0 {
		stats.MeanMSec = total / float64(stats.Count)
	}

	return stats
}

// Pauses returns pause statistics over all GC events of the process.
func (p *ProcessTrace) Pauses() PauseStats {
	return p.pauseStats(nil)
}

// GenerationPauses returns pause statistics for collections of the given
// generation.
func (p *ProcessTrace) GenerationPauses(gen int) PauseStats {
	return p.pauseStats(func(e *Event) bool {
		return e.Generation == gen
	})
}

// FullPauses returns pause statistics for full (oldest generation)
// collections of the given kind, KindBlocking or KindBackground.
func (p *ProcessTrace) FullPauses(kind string) PauseStats {
	return p.pauseStats(func(e *Event) bool {
		return e.IsFull() && e.Kind == kind
	})
}

// CollectionCount returns the number of collections of the given generation.
// Note that a generation N collection also collects every younger generation;
// counts follow the runtime's accounting, not a cumulative one.
func (p *ProcessTrace) CollectionCount(gen int) int {
	var n int

	for i := range p.Events {
		if p.Events[i].Generation == gen {
			n++
		}
	}

	return n
}

// MechanismCount returns the number of collections that used the given
// mechanism.
func (p *ProcessTrace) MechanismCount(mechanism string) int {
	var n int

	for i := range p.Events {
		if p.Events[i].HasMechanism(mechanism) {
			n++
		}
	}

	return n
}

// MeanHeapSizeMB returns the mean heap size after collection across all
// events, in megabytes.
func (p *ProcessTrace) MeanHeapSizeMB() float64 {
	return p.meanOf(func(e *Event) float64 { return e.HeapSizeMB })
}

// MeanFragmentationMB returns the mean fragmentation across all events, in
// megabytes.
func (p *ProcessTrace) MeanFragmentationMB() float64 {
	return p.meanOf(func(e *Event) float64 { return e.FragmentationMB })
}

// meanOf averages a per-event value over all events.
func (p *ProcessTrace) meanOf(value func(*Event) float64) float64 {
	if len(p.Events) == 0 {
		return 0
	}

	var total float64
	for i := range p.Events {
		total += value(&p.Events[i])
	}

	return total / float64(len(p.Events))
}
