// Package probing holds small helpers for reading procfs-style files. Every
// helper is quiet: an unreadable path yields a zero value, never an error,
// because a missing counter is an expected condition for the samplers built
// on top.
package probing

import (
	"os"
	"strconv"
	"strings"
)

// File reads a file and returns its trimmed content, with ok=false when the
// path cannot be read.
func File(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// FileLines reads a file and splits it into lines.
func FileLines(path string) []string {
	content, ok := File(path)
	if !ok || content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// FileKV parses a key-value file like /proc/self/status.
func FileKV(path, sep string) map[string]string {
	kv := make(map[string]string)
	for _, line := range FileLines(path) {
		if before, after, found := strings.Cut(line, sep); found {
			kv[strings.TrimSpace(before)] = strings.TrimSpace(after)
		}
	}
	return kv
}

// ParseInt64 is a quiet parser; malformed input yields 0.
func ParseInt64(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}

// FieldUint parses the first whitespace-separated field of s as an unsigned
// integer. Lines like "voluntary_ctxt_switches:\t123" reduce to their number
// this way after FileKV.
func FieldUint(s string) (uint64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CountEntries returns the number of entries in a directory, or -1 when the
// directory cannot be read. Used for /proc/self/fd.
func CountEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return -1
	}
	return len(entries)
}

// Exists checks whether a path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
