//go:build linux

package highmem

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/sapmachine/vitals/pkg/probing"
)

func writeOSInfo(w io.Writer) {
	fmt.Fprintln(w, "--- operating system ---")

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		fmt.Fprintf(w, "kernel:    %s %s %s\n",
			utsString(uts.Sysname), utsString(uts.Release), utsString(uts.Machine))
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		unit := uint64(si.Unit)
		if unit == 0 {
			unit = 1
		}
		fmt.Fprintf(w, "uptime:    %ds\n", si.Uptime)
		fmt.Fprintf(w, "total ram: %d\n", uint64(si.Totalram)*unit)
		fmt.Fprintf(w, "free ram:  %d\n", uint64(si.Freeram)*unit)
		fmt.Fprintf(w, "swap free: %d\n", uint64(si.Freeswap)*unit)
	}

	if load, ok := probing.File("/proc/loadavg"); ok {
		fmt.Fprintf(w, "loadavg:   %s\n", strings.TrimSpace(load))
	}
	if kv := probing.FileKV("/proc/self/status", ":"); len(kv) > 0 {
		for _, key := range []string{"VmPeak", "VmHWM", "Threads"} {
			if v, ok := kv[key]; ok {
				fmt.Fprintf(w, "%-10s %s\n", strings.ToLower(key)+":", v)
			}
		}
	}
	fmt.Fprintf(w, "cpus:      %d\n", runtime.NumCPU())
}

func utsString(b [65]byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
