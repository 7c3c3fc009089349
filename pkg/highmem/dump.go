package highmem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/sapmachine/vitals/pkg/reporting"
)

func dumpPath(dir string) string {
	name := "sapmachine_highmemory_" + strconv.Itoa(os.Getpid()) + ".log"
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// flusher lets the report push each finished section out, so a later
// panic or kill still leaves the earlier sections on disk.
type flusher interface {
	Sync() error
}

func flush(w io.Writer) {
	if f, ok := w.(flusher); ok {
		f.Sync()
	}
}

// writeReport emits the report sections in decreasing order of value:
// header, sampled vitals, runtime memory detail, build information, OS
// summary. Errors in one section never suppress the next.
func (t *Trigger) writeReport(w io.Writer, observed uint64) {
	t.writeHeader(w, observed)
	flush(w)

	t.writeVitals(w)
	flush(w)

	t.writeRuntimeDetail(w)
	flush(w)

	writeBuildInfo(w)
	flush(w)

	writeOSInfo(w)
	flush(w)
}

func (t *Trigger) writeHeader(w io.Writer, observed uint64) {
	fmt.Fprintf(w, "High memory report, generated %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Metric %s at %d bytes crossed threshold of %d bytes (pid %d)\n\n",
		t.cfg.TriggerMetric, observed, t.cfg.Threshold, os.Getpid())
}

func (t *Trigger) writeVitals(w io.Writer) {
	fmt.Fprintln(w, "--- vitals ---")
	opts := reporting.Defaults()
	opts.SampleNow = true
	opts.NoLegend = true
	if err := reporting.WriteReport(w, t.src, opts); err != nil {
		fmt.Fprintf(w, "vitals report failed: %v\n", err)
	}
	fmt.Fprintln(w)
}

func (t *Trigger) writeRuntimeDetail(w io.Writer) {
	fmt.Fprintln(w, "--- runtime memory ---")
	if !t.cfg.RuntimeDetail {
		fmt.Fprintln(w, "(runtime detail disabled)")
		fmt.Fprintln(w)
		return
	}
	var d *RuntimeDetail
	if t.memStats != nil {
		d = t.memStats()
	}
	if d == nil {
		fmt.Fprintln(w, "(no runtime statistics captured yet)")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "heap alloc:     %d\n", d.HeapAlloc)
	fmt.Fprintf(w, "heap sys:       %d\n", d.HeapSys)
	fmt.Fprintf(w, "heap objects:   %d\n", d.HeapObjects)
	fmt.Fprintf(w, "stack sys:      %d\n", d.StackSys)
	fmt.Fprintf(w, "total sys:      %d\n", d.Sys)
	fmt.Fprintf(w, "gc cycles:      %d\n", d.NumGC)
	fmt.Fprintf(w, "gc pause total: %s\n", time.Duration(d.PauseTotalNs))
	fmt.Fprintln(w)
}

func writeBuildInfo(w io.Writer) {
	fmt.Fprintln(w, "--- build ---")
	fmt.Fprintf(w, "go version: %s\n", runtime.Version())
	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(w, "module:     %s\n", info.Main.Path)
		if info.Main.Version != "" {
			fmt.Fprintf(w, "version:    %s\n", info.Main.Version)
		}
	}
	fmt.Fprintf(w, "arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(w)
}
