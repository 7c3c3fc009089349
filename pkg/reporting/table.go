package reporting

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// Source is the slice of engine behavior the renderers need. *vitals.Engine
// satisfies it; tests substitute scripted engines.
type Source interface {
	SampleNow(avoidLocking bool) *vitals.Sample
	Window(max int) []*vitals.Sample
	Registry() *vitals.Registry
}

const (
	timeFormat        = "15:04:05"
	repeatHeaderEvery = 30
)

// WriteReport renders the configured window of sample history to w, as a
// table or CSV per the options. An unwritable w is the caller's problem; the
// first write failure is returned, nothing is retried.
func WriteReport(w io.Writer, src Source, o PrintOptions) error {
	o = o.Normalized()
	if o.SampleNow {
		src.SampleNow(false)
	}
	window := src.Window(o.MaxSamples)
	cols := src.Registry().Columns()

	if o.CSV {
		return writeCSV(w, cols, window, o.Reverse)
	}
	return writeTable(w, src.Registry(), cols, window, o)
}

// writeCSV emits one header row of qualified column names and one row of
// literal values per sample, newest-first when reversed. No scaling, no
// padding, no legend.
func writeCSV(w io.Writer, cols []*vitals.Column, window []*vitals.Sample, reverse bool) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.QualifiedName()
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(cols))
	for n := range window {
		s := window[n]
		if reverse {
			s = window[len(window)-1-n]
		}
		for i, c := range cols {
			row[i] = rawValue(s.Value(c.Index()))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTable(w io.Writer, reg *vitals.Registry, cols []*vitals.Column, window []*vitals.Sample, o PrintOptions) error {
	bw := bufio.NewWriter(w)

	// Render every cell first: widths and extremum markers depend on the
	// whole window.
	extrema := windowExtrema(cols, window)
	cells := make([][]string, len(window))
	for i := range window {
		cells[i] = make([]string, len(cols))
		for j, c := range cols {
			in := resolveCell(window, i, c.Index())
			out := formatCell(c, in, o)
			if out != "" && markExtremum(c, in.cur, extrema[j]) {
				out += extremumMark
			}
			cells[i][j] = out
		}
	}

	widths := make([]int, len(cols))
	for j, c := range cols {
		widths[j] = len(c.Name)
		for i := range cells {
			if len(cells[i][j]) > widths[j] {
				widths[j] = len(cells[i][j])
			}
		}
	}

	// Display order: chronological, or newest-first when reversed. Deltas
	// were already computed chronologically above.
	order := make([]int, len(window))
	for i := range order {
		if o.Reverse {
			order[i] = len(window) - 1 - i
		} else {
			order[i] = i
		}
	}

	for n, i := range order {
		if !o.NoLegend && n%repeatHeaderEvery == 0 {
			writeBanner(bw, cols, widths)
		}
		fmt.Fprintf(bw, "%-*s", len(timeFormat), window[i].Timestamp().Format(timeFormat))
		for j := range cols {
			fmt.Fprintf(bw, " %*s", widths[j], cells[i][j])
		}
		fmt.Fprintln(bw)
	}

	if !o.NoLegend {
		fmt.Fprintln(bw)
		fmt.Fprint(bw, reg.Legend().Render())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

// writeBanner emits the category line, the optional header sub-line, and the
// column name line.
func writeBanner(w io.Writer, cols []*vitals.Column, widths []int) {
	writeGroupLine(w, cols, widths, func(c *vitals.Column) string { return c.Category })
	for _, c := range cols {
		if c.Header != "" {
			writeGroupLine(w, cols, widths, func(c *vitals.Column) string { return c.Header })
			break
		}
	}
	fmt.Fprintf(w, "%-*s", len(timeFormat), "time")
	for j, c := range cols {
		fmt.Fprintf(w, " %*s", widths[j], c.Name)
	}
	fmt.Fprintln(w)
}

// writeGroupLine draws one banner line where consecutive columns sharing a
// label are spanned by a single dashed cell.
func writeGroupLine(w io.Writer, cols []*vitals.Column, widths []int, label func(*vitals.Column) string) {
	fmt.Fprintf(w, "%-*s", len(timeFormat), "")
	for j := 0; j < len(cols); {
		group := label(cols[j])
		span := widths[j]
		k := j + 1
		for k < len(cols) && label(cols[k]) == group {
			span += 1 + widths[k]
			k++
		}
		fmt.Fprintf(w, " %s", dashSpan(group, span))
		j = k
	}
	fmt.Fprintln(w)
}

func dashSpan(label string, width int) string {
	if label == "" {
		return strings.Repeat(" ", width)
	}
	if len(label)+2 > width {
		if len(label) > width {
			label = label[:width]
		}
		return fmt.Sprintf("%*s", width, label)
	}
	dashes := width - len(label)
	left := dashes / 2
	return strings.Repeat("-", left) + label + strings.Repeat("-", dashes-left)
}

// windowExtrema finds each column's tracked extremum among the valid values
// of the window. Invalid values never win. Columns without an extremum
// policy yield Invalid.
func windowExtrema(cols []*vitals.Column, window []*vitals.Sample) []Value {
	out := make([]Value, len(cols))
	for j, c := range cols {
		out[j] = vitals.Invalid
		if c.Extremum == vitals.ExtremumNone {
			continue
		}
		for _, s := range window {
			v := s.Value(c.Index())
			if !vitals.IsValid(v) {
				continue
			}
			if !vitals.IsValid(out[j]) {
				out[j] = v
				continue
			}
			if c.Extremum == vitals.ExtremumMax && v > out[j] {
				out[j] = v
			}
			if c.Extremum == vitals.ExtremumMin && v < out[j] {
				out[j] = v
			}
		}
	}
	return out
}

func markExtremum(c *vitals.Column, v, extremum Value) bool {
	return c.Extremum != vitals.ExtremumNone &&
		vitals.IsValid(v) && vitals.IsValid(extremum) && v == extremum
}
