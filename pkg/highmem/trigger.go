// Package highmem fires a one-shot comprehensive diagnostic dump when the
// process crosses a configured memory threshold. The dump is written in
// strict priority order with a flush after every section, so an abort midway
// still leaves the most valuable data behind.
package highmem

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/reporting"
	"github.com/sapmachine/vitals/pkg/vitals"
)

// Config is the threshold surface the host exposes.
type Config struct {
	// Threshold in bytes; 0 disables the trigger.
	Threshold uint64
	// TriggerMetric is the qualified column name watched against the
	// threshold. Defaults to process-rss.
	TriggerMetric string
	// DumpToFile writes the report to sapmachine_highmemory_<pid>.log.
	DumpToFile bool
	// PrintToDiag writes the report to the diagnostic stream.
	PrintToDiag bool
	// Dir is the dump file directory; empty means the working directory.
	Dir string
	// RuntimeDetail includes the runtime memory detail section.
	RuntimeDetail bool
}

// DefaultTriggerMetric is watched when the config names none.
const DefaultTriggerMetric = "process-rss"

// Trigger watches samples and fires at most once per process.
type Trigger struct {
	cfg    Config
	src    reporting.Source
	column *vitals.Column
	diag   io.Writer
	logger zerolog.Logger
	fired  atomic.Bool

	// memStats supplies the runtime detail section; nil prints a
	// disabled notice.
	memStats RuntimeDetailFunc
}

// RuntimeDetailFunc returns the latest runtime memory statistics, or nil
// when none are available.
type RuntimeDetailFunc func() *RuntimeDetail

// RuntimeDetail is the runtime memory breakdown printed in section three.
type RuntimeDetail struct {
	HeapAlloc    uint64
	HeapSys      uint64
	HeapObjects  uint64
	StackSys     uint64
	Sys          uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// New builds a trigger over the engine. diag is the diagnostic stream,
// usually stderr; nil defaults to stderr.
func New(cfg Config, src reporting.Source, diag io.Writer, detail RuntimeDetailFunc, logger zerolog.Logger) *Trigger {
	if diag == nil {
		diag = os.Stderr
	}
	if cfg.TriggerMetric == "" {
		cfg.TriggerMetric = DefaultTriggerMetric
	}
	t := &Trigger{
		cfg:      cfg,
		src:      src,
		diag:     diag,
		logger:   logger,
		memStats: detail,
	}
	t.column = src.Registry().ColumnByName(cfg.TriggerMetric)
	if t.column == nil && cfg.Threshold > 0 {
		logger.Warn().Str("metric", cfg.TriggerMetric).Msg("trigger metric unknown, high-memory report disabled")
	}
	return t
}

// Enabled reports whether the trigger can ever fire.
func (t *Trigger) Enabled() bool {
	return t.cfg.Threshold > 0 && t.column != nil && t.column.Active() &&
		(t.cfg.DumpToFile || t.cfg.PrintToDiag)
}

// Fired reports whether the report has been produced.
func (t *Trigger) Fired() bool {
	return t.fired.Load()
}

// Check inspects one sample and fires when the watched metric crosses the
// threshold. Safe to call from multiple threads: the compare-and-swap keeps
// the report one-shot without a lock.
func (t *Trigger) Check(s *vitals.Sample) bool {
	if s == nil || !t.Enabled() {
		return false
	}
	v := s.Value(t.column.Index())
	if !vitals.IsValid(v) || v < t.cfg.Threshold {
		return false
	}
	return t.Fire(v)
}

// Fire produces the report once. Concurrent callers race on a single
// check-and-set; losing callers return false.
func (t *Trigger) Fire(observed uint64) bool {
	if !t.fired.CompareAndSwap(false, true) {
		return false
	}
	t.logger.Warn().
		Uint64("observed", observed).
		Uint64("threshold", t.cfg.Threshold).
		Msg("memory threshold crossed, producing high-memory report")
	t.produce(observed)
	return true
}

func (t *Trigger) produce(observed uint64) {
	if t.cfg.DumpToFile {
		path := dumpPath(t.cfg.Dir)
		f, err := os.Create(path)
		if err != nil {
			// Never fatal: note the failure on the diagnostic stream
			// and write the report there instead.
			if _, werr := io.WriteString(t.diag, "cannot open high-memory dump file "+path+": "+err.Error()+"\n"); werr != nil {
				return
			}
			t.writeReport(t.diag, observed)
		} else {
			t.writeReport(f, observed)
			f.Close()
			t.logger.Info().Str("path", path).Msg("high-memory report written")
		}
	}
	if t.cfg.PrintToDiag {
		t.writeReport(t.diag, observed)
	}
}
