package vitals

import "strings"

// ColumnKind selects how a column renders its value against the previous
// sample. The set is closed; rendering dispatches on it with a single switch.
type ColumnKind int

const (
	// KindValue renders the raw integer.
	KindValue ColumnKind = iota
	// KindDelta renders current minus previous.
	KindDelta
	// KindMemorySize renders a byte count, auto-scaled to B/K/M/G.
	KindMemorySize
	// KindDeltaMemorySize renders the delta of a byte count, scaled.
	KindDeltaMemorySize
)

// Extremum is the per-column highlight policy for notable samples.
type Extremum int

const (
	// ExtremumDefault resolves at definition time: memory-size columns
	// track their high-water mark, everything else tracks nothing.
	ExtremumDefault Extremum = iota
	ExtremumNone
	ExtremumMin
	ExtremumMax
)

// Column describes one metric: where it appears (category, optional header
// sub-group), what it is called, and how it renders. Columns are immutable
// once defined; the index assigned at definition time matches the value's
// position in every sample for the process lifetime.
type Column struct {
	Category    string
	Header      string
	Name        string
	Description string
	Kind        ColumnKind
	Extremum    Extremum

	// OnlyPositive suppresses negative deltas, so resets and counter wraps
	// do not masquerade as meaningful readings.
	OnlyPositive bool

	index  int
	active bool
}

// Index returns the column's slot in every sample. Only meaningful for
// active columns.
func (c *Column) Index() int {
	return c.index
}

// Active reports whether the column is populated on this platform. Inactive
// columns appear in the legend but never in the table.
func (c *Column) Active() bool {
	return c.active
}

// QualifiedName is the stable external identifier: category and name,
// lower-cased and hyphen-joined. It is the CSV header field for the column.
func (c *Column) QualifiedName() string {
	return strings.ToLower(c.Category) + "-" + strings.ToLower(c.Name)
}
