//go:build !linux

package highmem

import (
	"fmt"
	"io"
	"runtime"
)

func writeOSInfo(w io.Writer) {
	fmt.Fprintln(w, "--- operating system ---")
	fmt.Fprintf(w, "os:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "cpus: %d\n", runtime.NumCPU())
}
