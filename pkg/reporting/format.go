package reporting

import (
	"fmt"
	"strconv"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// staleMark annotates a delta computed against a reading older than the
// immediately preceding sample.
const staleMark = "~"

// extremumMark flags a cell holding the column's tracked extremum within the
// rendered window.
const extremumMark = "*"

// cellInput is a resolved reading for one column of one row: the current
// value plus the previous valid reading for delta computation.
type cellInput struct {
	cur Value
	// prev is the last valid reading of this column before the row, the
	// implicit zero baseline when the column has never produced a valid
	// reading before, or Invalid when no earlier sample exists at all.
	prev Value
	// age counts intervening samples that were skipped between prev and
	// the row; 0 means prev is the immediately preceding sample.
	age int
}

// Value aliases the core reading type for brevity inside the renderer.
type Value = vitals.Value

// formatCell renders one cell according to the column kind. Invalid readings
// render blank so "not sampled" never shows up as a number.
func formatCell(c *vitals.Column, in cellInput, o PrintOptions) string {
	switch c.Kind {
	case vitals.KindValue:
		if !vitals.IsValid(in.cur) {
			return ""
		}
		return strconv.FormatUint(in.cur, 10)
	case vitals.KindMemorySize:
		return formatMemory(in.cur, o)
	case vitals.KindDelta, vitals.KindDeltaMemorySize:
		return formatDelta(c, in, o)
	default:
		return ""
	}
}

func formatDelta(c *vitals.Column, in cellInput, o PrintOptions) string {
	if !vitals.IsValid(in.cur) || !vitals.IsValid(in.prev) {
		return ""
	}
	if o.MaxDeltaAge > 0 && in.age > o.MaxDeltaAge {
		return ""
	}
	negative := in.cur < in.prev
	if negative && c.OnlyPositive {
		return ""
	}
	var magnitude Value
	if negative {
		magnitude = in.prev - in.cur
	} else {
		magnitude = in.cur - in.prev
	}

	var out string
	if c.Kind == vitals.KindDeltaMemorySize {
		out = formatMemory(magnitude, o)
	} else {
		out = strconv.FormatUint(magnitude, 10)
	}
	if negative {
		out = "-" + out
	}
	if in.age > 0 {
		out += staleMark
	}
	return out
}

// formatMemory renders a byte count. Auto scaling picks the largest unit in
// which the value is at least one; raw or scale=1 prints the plain integer;
// a fixed scale divides with rounding, the unit being implied by the request.
func formatMemory(v Value, o PrintOptions) string {
	if !vitals.IsValid(v) {
		return ""
	}
	if o.Raw || o.Scale == ScaleBytes {
		return strconv.FormatUint(v, 10)
	}

	const (
		k = uint64(1) << 10
		m = uint64(1) << 20
		g = uint64(1) << 30
	)

	if o.Scale != ScaleAuto {
		unit := k
		switch o.Scale {
		case ScaleM:
			unit = m
		case ScaleG:
			unit = g
		}
		return strconv.FormatUint((v+unit/2)/unit, 10)
	}

	switch {
	case v >= g:
		return scaled(v, g, "g")
	case v >= m:
		return scaled(v, m, "m")
	case v >= k:
		return scaled(v, k, "k")
	default:
		return strconv.FormatUint(v, 10)
	}
}

func scaled(v, unit uint64, suffix string) string {
	q := float64(v) / float64(unit)
	if q >= 100 || v%unit == 0 {
		return fmt.Sprintf("%.0f%s", q, suffix)
	}
	return fmt.Sprintf("%.1f%s", q, suffix)
}

// rawValue is the CSV representation: the literal stored reading with no
// scaling, delta computation, or padding. Invalid renders as an empty field.
func rawValue(v Value) string {
	if !vitals.IsValid(v) {
		return ""
	}
	return strconv.FormatUint(v, 10)
}

// resolveCell walks backwards through the window to find the previous valid
// reading for delta columns. A column that has earlier samples but no valid
// earlier reading gets a zero baseline, so its first reading renders as-is
// instead of hiding until the second tick.
func resolveCell(window []*vitals.Sample, row, colIndex int) cellInput {
	in := cellInput{
		cur:  window[row].Value(colIndex),
		prev: vitals.Invalid,
	}
	if row == 0 {
		return in
	}
	for j := row - 1; j >= 0; j-- {
		if v := window[j].Value(colIndex); vitals.IsValid(v) {
			in.prev = v
			in.age = row - j - 1
			return in
		}
	}
	in.prev = 0
	return in
}
