package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// scenarioSampler replays a fixed matrix of values, one row per tick.
type scenarioSampler struct {
	define func(r *vitals.Registry) []*vitals.Column
	cols   []*vitals.Column
	rows   [][]vitals.Value
	tick   int
}

func (s *scenarioSampler) Name() string { return "scenario" }

func (s *scenarioSampler) Define(r *vitals.Registry) {
	s.cols = s.define(r)
}

func (s *scenarioSampler) Sample(dst *vitals.Sample, _ vitals.SampleContext) {
	if s.tick >= len(s.rows) {
		return
	}
	for i, v := range s.rows[s.tick] {
		dst.SetValue(s.cols[i].Index(), v)
	}
	s.tick++
}

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		out := t
		t = t.Add(step)
		return out
	}
}

// scenarioEngine builds the three-column setup used by several tests:
// heap-used (memory size), heap-committed (memory size, max), sample-count
// (delta), with samples (100, 200, invalid) and (150, 200, 5).
func scenarioEngine(t *testing.T) *vitals.Engine {
	t.Helper()
	s := &scenarioSampler{
		define: func(r *vitals.Registry) []*vitals.Column {
			return []*vitals.Column{
				r.Define(vitals.Column{Category: "heap", Name: "used", Kind: vitals.KindMemorySize}, true),
				r.Define(vitals.Column{Category: "heap", Name: "committed", Kind: vitals.KindMemorySize, Extremum: vitals.ExtremumMax}, true),
				r.Define(vitals.Column{Category: "sample", Name: "count", Kind: vitals.KindDelta}, true),
			}
		},
		rows: [][]vitals.Value{
			{100, 200, vitals.Invalid},
			{150, 200, 5},
		},
	}
	e := vitals.New(vitals.Options{
		HistorySize: 8,
		Now:         fixedClock(time.Unix(0, 0).UTC(), time.Second),
	})
	e.RegisterSampler(s)
	e.Freeze()
	e.SampleNow(false)
	e.SampleNow(false)
	return e
}

func dataLines(out string) []string {
	var rows []string
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "time") {
			continue
		}
		// Legend lines are indented or start a category heading.
		if strings.HasPrefix(line, " ") || strings.HasPrefix(trimmed, "--") {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}

func TestTableScenario(t *testing.T) {
	e := scenarioEngine(t)
	var buf bytes.Buffer
	if err := WriteReport(&buf, e, PrintOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	rows := dataLines(out)
	if len(rows) != 2 {
		t.Fatalf("want 2 data rows, got %d:\n%s", len(rows), out)
	}

	// heap-used grows 100 -> 150; 150 is its high-water mark (memory-size
	// columns track max by default).
	if !strings.Contains(rows[0], "100") {
		t.Errorf("first row missing heap-used 100: %q", rows[0])
	}
	if !strings.Contains(rows[1], "150"+extremumMark) {
		t.Errorf("second row should mark heap-used high-water 150: %q", rows[1])
	}

	// heap-committed is flat at 200 and marked as the running max both rows.
	for i, row := range rows {
		if !strings.Contains(row, "200"+extremumMark) {
			t.Errorf("row %d missing marked heap-committed 200: %q", i, row)
		}
	}

	// sample-count: blank at t=0 (no prior), "5" at t=1.
	if strings.Contains(rows[0], "5") {
		t.Errorf("first row should have a blank sample-count cell: %q", rows[0])
	}
	if !strings.HasSuffix(strings.TrimRight(rows[1], " "), "5") {
		t.Errorf("second row should end with sample-count 5: %q", rows[1])
	}

	// Header block and legend present by default.
	if !strings.Contains(out, "--heap--") {
		t.Errorf("legend heading missing:\n%s", out)
	}
	if !strings.Contains(out, "time") {
		t.Errorf("banner missing:\n%s", out)
	}
}

func TestCSVScenario(t *testing.T) {
	e := scenarioEngine(t)
	var buf bytes.Buffer
	if err := WriteReport(&buf, e, PrintOptions{CSV: true}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "heap-used,heap-committed,sample-count" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "100,200," {
		t.Errorf("row 1 = %q, want %q", lines[1], "100,200,")
	}
	if lines[2] != "150,200,5" {
		t.Errorf("row 2 = %q, want %q", lines[2], "150,200,5")
	}

	// Round-trip property: every row has exactly as many fields as the
	// header.
	want := len(strings.Split(lines[0], ","))
	for i, line := range lines[1:] {
		if got := len(strings.Split(line, ",")); got != want {
			t.Errorf("row %d has %d fields, want %d", i+1, got, want)
		}
	}
}

func TestCSVReverseOrdersNewestFirst(t *testing.T) {
	s := &scenarioSampler{
		define: func(r *vitals.Registry) []*vitals.Column {
			return []*vitals.Column{
				r.Define(vitals.Column{Category: "a", Name: "x", Kind: vitals.KindValue}, true),
			}
		},
		rows: [][]vitals.Value{{1}, {2}, {3}},
	}
	e := vitals.New(vitals.Options{HistorySize: 8, Now: fixedClock(time.Unix(0, 0).UTC(), time.Second)})
	e.RegisterSampler(s)
	e.Freeze()
	for i := 0; i < 3; i++ {
		e.SampleNow(false)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, e, PrintOptions{CSV: true, Reverse: true}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"a-x", "3", "2", "1"}
	if len(lines) != len(want) {
		t.Fatalf("want %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRenderIdempotence(t *testing.T) {
	e := scenarioEngine(t)
	for _, o := range []PrintOptions{{}, {CSV: true}, {Reverse: true}, {Raw: true, NoLegend: true}} {
		var a, b bytes.Buffer
		if err := WriteReport(&a, e, o); err != nil {
			t.Fatal(err)
		}
		if err := WriteReport(&b, e, o); err != nil {
			t.Fatal(err)
		}
		if a.String() != b.String() {
			t.Errorf("rendering %+v twice differs", o)
		}
	}
}

func TestBlankOnInvalid(t *testing.T) {
	s := &scenarioSampler{
		define: func(r *vitals.Registry) []*vitals.Column {
			return []*vitals.Column{
				r.Define(vitals.Column{Category: "a", Name: "x", Kind: vitals.KindValue}, true),
				r.Define(vitals.Column{Category: "a", Name: "y", Kind: vitals.KindMemorySize}, true),
			}
		},
		rows: [][]vitals.Value{{vitals.Invalid, vitals.Invalid}},
	}
	e := vitals.New(vitals.Options{HistorySize: 4, Now: fixedClock(time.Unix(0, 0).UTC(), time.Second)})
	e.RegisterSampler(s)
	e.Freeze()
	e.SampleNow(false)

	var table bytes.Buffer
	if err := WriteReport(&table, e, PrintOptions{NoLegend: true}); err != nil {
		t.Fatal(err)
	}
	rows := dataLines(table.String())
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	if cells := strings.Fields(rows[0]); len(cells) != 1 { // only the timestamp survives
		t.Errorf("all-invalid row should be blank cells, got %q", rows[0])
	}

	var csvOut bytes.Buffer
	if err := WriteReport(&csvOut, e, PrintOptions{CSV: true}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	if lines[1] != "," {
		t.Errorf("all-invalid CSV row = %q, want %q", lines[1], ",")
	}
}

func TestReverseAndMaxSamples(t *testing.T) {
	s := &scenarioSampler{
		define: func(r *vitals.Registry) []*vitals.Column {
			return []*vitals.Column{
				r.Define(vitals.Column{Category: "a", Name: "x", Kind: vitals.KindValue}, true),
			}
		},
		rows: [][]vitals.Value{{1}, {2}, {3}, {4}},
	}
	e := vitals.New(vitals.Options{HistorySize: 8, Now: fixedClock(time.Unix(0, 0).UTC(), time.Second)})
	e.RegisterSampler(s)
	e.Freeze()
	for i := 0; i < 4; i++ {
		e.SampleNow(false)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, e, PrintOptions{NoLegend: true, MaxSamples: 2, Reverse: true}); err != nil {
		t.Fatal(err)
	}
	rows := dataLines(buf.String())
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if !strings.HasSuffix(strings.TrimRight(rows[0], " "), "4") {
		t.Errorf("reverse order should put the newest sample first: %q", rows[0])
	}
	if !strings.HasSuffix(strings.TrimRight(rows[1], " "), "3") {
		t.Errorf("second reversed row should be the older sample: %q", rows[1])
	}
}

func TestSampleNowForcesFreshSample(t *testing.T) {
	s := &scenarioSampler{
		define: func(r *vitals.Registry) []*vitals.Column {
			return []*vitals.Column{
				r.Define(vitals.Column{Category: "a", Name: "x", Kind: vitals.KindValue}, true),
			}
		},
		rows: [][]vitals.Value{{7}},
	}
	e := vitals.New(vitals.Options{HistorySize: 4, Now: fixedClock(time.Unix(0, 0).UTC(), time.Second)})
	e.RegisterSampler(s)
	e.Freeze()

	var buf bytes.Buffer
	if err := WriteReport(&buf, e, PrintOptions{SampleNow: true, NoLegend: true}); err != nil {
		t.Fatal(err)
	}
	rows := dataLines(buf.String())
	if len(rows) != 1 || !strings.Contains(rows[0], "7") {
		t.Errorf("sample_now should have produced one fresh row, got %q", rows)
	}
}
