// Package reporting renders vitals sample history as an aligned table, a CSV
// stream, a single-snapshot listing, or an HTML chart page.
package reporting

import (
	"strconv"
	"strings"
)

// Scale selects the byte-unit granularity for memory columns.
type Scale int

const (
	ScaleAuto Scale = iota
	ScaleBytes
	ScaleK
	ScaleM
	ScaleG
)

// PrintOptions is the typed configuration the report engine consumes. All
// fields default to the zero value; malformed external input is normalized,
// never rejected.
type PrintOptions struct {
	Scale     Scale
	Raw       bool // suppress human scaling entirely
	Reverse   bool // newest-first instead of chronological
	CSV       bool // comma-separated instead of tabular
	NoLegend  bool // suppress header block and trailing legend
	SampleNow bool // force one fresh sample before selecting the window
	// MaxSamples caps emitted rows; <= 0 means all retained samples.
	MaxSamples int
	// MaxDeltaAge suppresses a delta entirely once the previous valid
	// reading is older than this many ticks; 0 annotates but never
	// suppresses.
	MaxDeltaAge int
}

// Defaults returns the option set used when the caller supplies nothing.
func Defaults() PrintOptions {
	return PrintOptions{}
}

// Normalized folds misconfiguration into safe defaults.
func (o PrintOptions) Normalized() PrintOptions {
	if o.MaxSamples < 0 {
		o.MaxSamples = 0
	}
	if o.MaxDeltaAge < 0 {
		o.MaxDeltaAge = 0
	}
	return o
}

// ParseOptions interprets diagnostic-command style arguments:
// scale={1,k,m,g,auto}, raw, reverse, csv, no_legend, now, max=<N>.
// Unknown or malformed arguments are ignored; this is a best-effort
// diagnostic surface, not a validated API.
func ParseOptions(args []string) PrintOptions {
	return ParseOptionsInto(Defaults(), args)
}

// ParseOptionsInto layers the same argument syntax over an existing baseline,
// so per-request parameters can override a configured default set.
func ParseOptionsInto(o PrintOptions, args []string) PrintOptions {
	for _, arg := range args {
		arg = strings.ToLower(strings.TrimSpace(arg))
		switch {
		case arg == "raw":
			o.Raw = true
		case arg == "csv":
			o.CSV = true
		case arg == "reverse":
			o.Reverse = true
		case arg == "no_legend":
			o.NoLegend = true
		case arg == "now" || arg == "sample_now":
			o.SampleNow = true
		case strings.HasPrefix(arg, "scale="):
			o.Scale = parseScale(strings.TrimPrefix(arg, "scale="))
		case strings.HasPrefix(arg, "max="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "max=")); err == nil {
				o.MaxSamples = n
			}
		}
	}
	return o.Normalized()
}

func parseScale(s string) Scale {
	switch s {
	case "1":
		return ScaleBytes
	case "k":
		return ScaleK
	case "m":
		return ScaleM
	case "g":
		return ScaleG
	default:
		return ScaleAuto
	}
}
