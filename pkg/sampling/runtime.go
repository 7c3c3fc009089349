package sampling

import (
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// RuntimeSampler reads Go-runtime counters: heap, stack, GC, goroutines.
// Reading runtime.MemStats stops the world briefly; in avoid-locking mode the
// sampler serves the last cached reading instead, degrading to stale values
// rather than stalling a diagnostic path.
type RuntimeSampler struct {
	logger zerolog.Logger
	cached atomic.Pointer[runtime.MemStats]

	colHeapUsed *vitals.Column
	colHeapComm *vitals.Column
	colHeapObjs *vitals.Column
	colStack    *vitals.Column
	colGC       *vitals.Column
	colGor      *vitals.Column
}

// NewRuntimeSampler returns a sampler for the hosting Go runtime.
func NewRuntimeSampler(logger zerolog.Logger) *RuntimeSampler {
	return &RuntimeSampler{logger: logger}
}

func (rs *RuntimeSampler) Name() string { return "runtime" }

func (rs *RuntimeSampler) Define(r *vitals.Registry) {
	rs.colHeapUsed = r.Define(vitals.Column{
		Category: "heap", Name: "used",
		Description: "heap space in use",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, true)
	rs.colHeapComm = r.Define(vitals.Column{
		Category: "heap", Name: "comm",
		Description: "heap space obtained from the OS",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, true)
	rs.colHeapObjs = r.Define(vitals.Column{
		Category: "heap", Name: "objs",
		Description: "live heap objects",
		Kind:        vitals.KindValue,
	}, true)
	rs.colStack = r.Define(vitals.Column{
		Category: "rt", Name: "stack",
		Description: "stack memory obtained from the OS",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, true)
	rs.colGC = r.Define(vitals.Column{
		Category: "rt", Name: "gc",
		Description:  "completed GC cycles",
		Kind:         vitals.KindDelta,
		OnlyPositive: true,
	}, true)
	rs.colGor = r.Define(vitals.Column{
		Category: "rt", Name: "gor",
		Description: "goroutines",
		Kind:        vitals.KindValue, Extremum: vitals.ExtremumMax,
	}, true)
}

func (rs *RuntimeSampler) Sample(s *vitals.Sample, ctx vitals.SampleContext) {
	var ms *runtime.MemStats
	if ctx.AvoidLocking {
		// Best effort: stale numbers beat a stop-the-world on a path that
		// may already be wedged. First-ever call has nothing cached.
		ms = rs.cached.Load()
	} else {
		ms = new(runtime.MemStats)
		runtime.ReadMemStats(ms)
		rs.cached.Store(ms)
	}

	if ms != nil {
		s.SetValue(rs.colHeapUsed.Index(), ms.HeapAlloc)
		s.SetValue(rs.colHeapComm.Index(), ms.HeapSys)
		s.SetValue(rs.colHeapObjs.Index(), ms.HeapObjects)
		s.SetValue(rs.colStack.Index(), ms.StackSys)
		s.SetValue(rs.colGC.Index(), uint64(ms.NumGC))
	}
	s.SetValue(rs.colGor.Index(), uint64(runtime.NumGoroutine()))
}

// Cached returns the last full MemStats reading, or nil before the first
// normal tick. The high-memory report uses it for its detail section.
func (rs *RuntimeSampler) Cached() *runtime.MemStats {
	return rs.cached.Load()
}
