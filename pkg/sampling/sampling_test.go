package sampling

import (
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/vitals"
)

func newTestEngine(samplers ...vitals.Sampler) *vitals.Engine {
	e := vitals.New(vitals.Options{HistorySize: 8})
	for _, s := range samplers {
		e.RegisterSampler(s)
	}
	e.Freeze()
	return e
}

func TestRuntimeSamplerFillsHeapColumns(t *testing.T) {
	rs := NewRuntimeSampler(zerolog.Nop())
	e := newTestEngine(rs)

	s := e.SampleNow(false)
	if s == nil {
		t.Fatal("SampleNow returned nil")
	}
	for _, col := range []*vitals.Column{rs.colHeapUsed, rs.colHeapComm, rs.colGor} {
		if !vitals.IsValid(s.Value(col.Index())) {
			t.Errorf("%s not filled", col.QualifiedName())
		}
	}
	if s.Value(rs.colHeapUsed.Index()) == 0 {
		t.Error("heap-used of a running process cannot be zero")
	}
	if rs.Cached() == nil {
		t.Error("a normal tick must refresh the cached MemStats")
	}
}

func TestRuntimeSamplerAvoidLockingServesCache(t *testing.T) {
	rs := NewRuntimeSampler(zerolog.Nop())
	e := newTestEngine(rs)

	// Before any normal tick there is nothing cached: heap slots stay
	// Invalid, only the always-safe goroutine count is filled.
	s := e.SampleNow(true)
	if vitals.IsValid(s.Value(rs.colHeapUsed.Index())) {
		t.Error("avoid-locking sample before any cache must leave heap-used Invalid")
	}
	if !vitals.IsValid(s.Value(rs.colGor.Index())) {
		t.Error("goroutine count is safe and should be filled")
	}

	e.SampleNow(false) // primes the cache
	s = e.SampleNow(true)
	if !vitals.IsValid(s.Value(rs.colHeapUsed.Index())) {
		t.Error("avoid-locking sample should serve the cached heap reading")
	}
}

func TestPlatformSamplerBestEffort(t *testing.T) {
	ps := NewPlatformSampler(zerolog.Nop())
	e := newTestEngine(ps)

	s := e.SampleNow(false)
	if s == nil {
		t.Fatal("SampleNow returned nil")
	}
	// System-wide memory is readable on every supported platform.
	if !vitals.IsValid(s.Value(ps.colAvail.Index())) {
		t.Error("system-avail not filled")
	}
	// procfs-backed columns are either active and filled, or inactive.
	if ps.colFDs.Active() {
		if !vitals.IsValid(s.Value(ps.colFDs.Index())) {
			t.Error("fds column active but not filled")
		}
	} else if runtime.GOOS == "linux" {
		t.Error("fds column should be active on linux")
	}
}

func TestGPUSamplerInactiveWithoutDriver(t *testing.T) {
	g := NewGPUSampler(zerolog.Nop())
	e := newTestEngine(g)

	// Works both with and without a GPU: inactive columns still appear in
	// the legend, active ones must be filled.
	s := e.SampleNow(false)
	if !g.available {
		if g.colUsed.Active() {
			t.Error("gpu columns must be inactive without NVML")
		}
		legend := e.Registry().Legend().Render()
		if legend == "" {
			t.Fatal("legend empty")
		}
		return
	}
	if !vitals.IsValid(s.Value(g.colUsed.Index())) {
		t.Error("gpu-used active but not filled")
	}
}
