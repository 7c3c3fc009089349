package vitals

// Registry is the append-only set of all defined columns. It is built during
// a single definition pass at startup, frozen, and read without locking
// afterwards. Active columns receive stable indexes in definition order;
// inactive ones are still recorded so the legend documents every metric the
// subsystem knows about, supported here or not.
type Registry struct {
	active  []*Column
	defined []*Column
	byName  map[string]*Column
	legend  *Legend
	frozen  bool
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Column),
		legend: newLegend(),
	}
}

// Define registers a column. Active columns get the next sample slot index.
// Defining after Freeze, or re-defining an existing qualified name, is a
// programming error; both are ignored rather than escalated, since this is a
// diagnostic facility that must not take the process down.
func (r *Registry) Define(c Column, active bool) *Column {
	if r.frozen {
		return nil
	}
	col := &c
	if _, dup := r.byName[col.QualifiedName()]; dup {
		return nil
	}
	if col.Extremum == ExtremumDefault {
		if col.Kind == KindMemorySize {
			col.Extremum = ExtremumMax
		} else {
			col.Extremum = ExtremumNone
		}
	}
	col.active = active
	if active {
		col.index = len(r.active)
		r.active = append(r.active, col)
	} else {
		col.index = -1
	}
	r.defined = append(r.defined, col)
	r.byName[col.QualifiedName()] = col
	r.legend.addColumn(col)
	return col
}

// Freeze ends the definition pass. Afterwards the registry is immutable and
// safe for unsynchronized concurrent reads.
func (r *Registry) Freeze() {
	r.frozen = true
	r.legend.freeze()
}

// Frozen reports whether the definition pass has ended.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Columns returns the active columns in definition order. Callers must not
// mutate the slice.
func (r *Registry) Columns() []*Column {
	return r.active
}

// Defined returns every column, active or not, in definition order.
func (r *Registry) Defined() []*Column {
	return r.defined
}

// Len returns the number of active columns, which is also the slot count of
// every sample.
func (r *Registry) Len() int {
	return len(r.active)
}

// ColumnByName looks a column up by its qualified name, returning nil when
// unknown.
func (r *Registry) ColumnByName(qualified string) *Column {
	return r.byName[qualified]
}

// Legend returns the legend built in lock-step with column definition.
func (r *Registry) Legend() *Legend {
	return r.legend
}
