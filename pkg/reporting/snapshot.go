package reporting

import (
	"bufio"
	"fmt"
	"io"
)

// WriteSnapshot renders the newest sample as one "name: value" line per
// column, for quick single-shot inspection. Deltas are computed against the
// retained history, so counters still read sensibly.
func WriteSnapshot(w io.Writer, src Source, o PrintOptions) error {
	o = o.Normalized()
	if o.SampleNow {
		src.SampleNow(false)
	}
	window := src.Window(0)
	if len(window) == 0 {
		_, err := fmt.Fprintln(w, "no samples taken yet")
		return err
	}

	cols := src.Registry().Columns()
	bw := bufio.NewWriter(w)

	row := len(window) - 1
	nameWidth := 0
	for _, c := range cols {
		if n := len(c.QualifiedName()); n > nameWidth {
			nameWidth = n
		}
	}

	fmt.Fprintf(bw, "vitals at %s\n", window[row].Timestamp().Format("2006-01-02 15:04:05"))
	for _, c := range cols {
		out := formatCell(c, resolveCell(window, row, c.Index()), o)
		if out == "" {
			out = "-"
		}
		fmt.Fprintf(bw, "  %-*s %s\n", nameWidth+1, c.QualifiedName()+":", out)
	}
	if !o.NoLegend {
		fmt.Fprintln(bw)
		fmt.Fprint(bw, src.Registry().Legend().Render())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Legend writes the full column legend, independent of any sample.
func Legend(w io.Writer, src Source) error {
	_, err := io.WriteString(w, src.Registry().Legend().Render())
	return err
}

// CSVHeader returns the qualified names of the active columns in order, the
// exact header row of CSV mode. Exporters reuse it as their schema.
func CSVHeader(src Source) []string {
	cols := src.Registry().Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.QualifiedName()
	}
	return out
}
