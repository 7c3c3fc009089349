package sampling

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// GPUSampler reads device memory of the first NVIDIA GPU via NVML. On hosts
// without a usable driver its columns are defined inactive: they stay in the
// legend as documentation but never appear in the table.
type GPUSampler struct {
	logger    zerolog.Logger
	available bool
	device    nvml.Device

	colUsed  *vitals.Column
	colTotal *vitals.Column
}

// NewGPUSampler probes NVML once. It never fails; absence of a GPU is a
// platform property, not an error.
func NewGPUSampler(logger zerolog.Logger) *GPUSampler {
	g := &GPUSampler{logger: logger}
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		logger.Debug().Str("nvml", nvml.ErrorString(ret)).Msg("NVML unavailable, gpu columns inactive")
		return g
	}
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS || count == 0 {
		logger.Debug().Msg("no NVML devices, gpu columns inactive")
		return g
	}
	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		return g
	}
	g.device = device
	g.available = true
	return g
}

func (g *GPUSampler) Name() string { return "gpu" }

func (g *GPUSampler) Define(r *vitals.Registry) {
	g.colUsed = r.Define(vitals.Column{
		Category: "gpu", Name: "used",
		Description: "device memory in use",
		Kind:        vitals.KindMemorySize, Extremum: vitals.ExtremumMax,
	}, g.available)
	g.colTotal = r.Define(vitals.Column{
		Category: "gpu", Name: "total",
		Description: "device memory installed",
		Kind:        vitals.KindMemorySize,
	}, g.available)
	if !g.available {
		r.Legend().AddFootnote("gpu counters need an NVML-capable NVIDIA driver")
	}
}

func (g *GPUSampler) Sample(s *vitals.Sample, _ vitals.SampleContext) {
	if !g.available {
		return
	}
	info, ret := g.device.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return
	}
	s.SetValue(g.colUsed.Index(), info.Used)
	s.SetValue(g.colTotal.Index(), info.Total)
}

// Close shuts NVML down.
func (g *GPUSampler) Close() error {
	if g.available {
		nvml.Shutdown()
	}
	return nil
}
