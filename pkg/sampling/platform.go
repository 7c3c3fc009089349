// Package sampling provides the capability providers that fill vitals
// samples: OS-level process metrics, Go-runtime counters, and optional GPU
// device memory.
package sampling

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/sapmachine/vitals/pkg/probing"
	"github.com/sapmachine/vitals/pkg/vitals"
)

const (
	procFDDir  = "/proc/self/fd"
	procStatus = "/proc/self/status"
)

// PlatformSampler reads OS-visible process and system metrics. Counters the
// platform cannot provide stay at the Invalid sentinel and their columns are
// defined inactive, so they document their own absence in the legend.
type PlatformSampler struct {
	proc   *process.Process
	logger zerolog.Logger

	colAvail *vitals.Column
	colSwap  *vitals.Column
	colVirt  *vitals.Column
	colRSS   *vitals.Column
	colCPU   *vitals.Column
	colThr   *vitals.Column
	colFDs   *vitals.Column
	colCtxSw *vitals.Column
}

// NewPlatformSampler targets the current process.
func NewPlatformSampler(logger zerolog.Logger) *PlatformSampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Still usable: system-wide counters do not need the handle.
		logger.Debug().Err(err).Msg("no process handle, per-process counters unavailable")
	}
	return &PlatformSampler{proc: p, logger: logger}
}

func (p *PlatformSampler) Name() string { return "platform" }

// Define registers the platform columns. procfs-backed counters are active
// only where procfs exists; they still appear in the legend elsewhere.
func (p *PlatformSampler) Define(r *vitals.Registry) {
	hasProc := probing.Exists(procStatus)

	p.colAvail = r.Define(vitals.Column{
		Category: "system", Name: "avail",
		Description: "memory available without swapping",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMin,
	}, true)
	p.colSwap = r.Define(vitals.Column{
		Category: "system", Name: "swap",
		Description: "swap space in use, system-wide",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, true)

	p.colVirt = r.Define(vitals.Column{
		Category: "process", Name: "virt",
		Description: "virtual memory size",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, p.proc != nil)
	p.colRSS = r.Define(vitals.Column{
		Category: "process", Name: "rss",
		Description: "resident set size",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, p.proc != nil)
	p.colCPU = r.Define(vitals.Column{
		Category: "process", Name: "cpu",
		Description:  "cpu time used, milliseconds",
		Kind:         vitals.KindDelta,
		OnlyPositive: true,
	}, p.proc != nil)
	p.colThr = r.Define(vitals.Column{
		Category: "process", Name: "thr",
		Description: "number of OS threads",
		Kind:        vitals.KindValue, Extremum: vitals.ExtremumMax,
	}, p.proc != nil)
	p.colFDs = r.Define(vitals.Column{
		Category: "process", Name: "fds",
		Description: "open file descriptors",
		Kind:        vitals.KindValue, Extremum: vitals.ExtremumMax,
	}, hasProc)
	p.colCtxSw = r.Define(vitals.Column{
		Category: "process", Name: "ctxsw",
		Description:  "context switches",
		Kind:         vitals.KindDelta,
		OnlyPositive: true,
	}, hasProc)

	if !hasProc {
		r.Legend().AddFootnote("fds and ctxsw need procfs and are unavailable on this OS")
	}
}

// Sample fills the platform slots. Any counter that cannot be read is left at
// Invalid; that is expected, never an error.
func (p *PlatformSampler) Sample(s *vitals.Sample, _ vitals.SampleContext) {
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		s.SetValue(p.colAvail.Index(), vm.Available)
	}
	if sw, err := mem.SwapMemory(); err == nil && sw != nil {
		s.SetValue(p.colSwap.Index(), sw.Used)
	}

	if p.proc != nil {
		if mi, err := p.proc.MemoryInfo(); err == nil && mi != nil {
			s.SetValue(p.colVirt.Index(), mi.VMS)
			s.SetValue(p.colRSS.Index(), mi.RSS)
		}
		if times, err := p.proc.Times(); err == nil && times != nil {
			ms := uint64((times.User + times.System) * 1000)
			s.SetValue(p.colCPU.Index(), ms)
		}
		if n, err := p.proc.NumThreads(); err == nil {
			s.SetValue(p.colThr.Index(), uint64(n))
		}
	}

	if p.colFDs.Active() {
		if n := probing.CountEntries(procFDDir); n >= 0 {
			s.SetValue(p.colFDs.Index(), uint64(n))
		}
	}
	if p.colCtxSw.Active() {
		status := probing.FileKV(procStatus, ":")
		vol, okV := probing.FieldUint(status["voluntary_ctxt_switches"])
		invol, okI := probing.FieldUint(status["nonvoluntary_ctxt_switches"])
		if okV && okI {
			s.SetValue(p.colCtxSw.Index(), vol+invol)
		}
	}
}
