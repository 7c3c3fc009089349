package vitals

import "time"

// Sample is one timestamped snapshot of all active metric values. The value
// slice is sized once from the frozen registry's column count; slots start at
// Invalid so a half-filled sample still renders sensibly. A sample is mutated
// only by the sampler that produced it; once appended to the history it is
// read-only.
type Sample struct {
	values []Value
	taken  time.Time
}

// NewSample allocates a sample with columns slots, all Invalid.
func NewSample(columns int) *Sample {
	if columns < 0 {
		columns = 0
	}
	s := &Sample{values: make([]Value, columns)}
	s.Reset()
	return s
}

// Reset marks every value Invalid and clears the timestamp.
func (s *Sample) Reset() {
	for i := range s.values {
		s.values[i] = Invalid
	}
	s.taken = time.Time{}
}

// SetValue stores v at index. Out-of-range indexes are ignored; a sampler
// writing past the registered column count is a bug, but this facility trades
// strictness for availability.
func (s *Sample) SetValue(index int, v Value) {
	if index < 0 || index >= len(s.values) {
		return
	}
	s.values[index] = v
}

// Value returns the reading at index, or Invalid when out of range.
func (s *Sample) Value(index int) Value {
	if index < 0 || index >= len(s.values) {
		return Invalid
	}
	return s.values[index]
}

// SetTimestamp records when the sample was taken.
func (s *Sample) SetTimestamp(t time.Time) {
	s.taken = t
}

// Timestamp returns when the sample was taken.
func (s *Sample) Timestamp() time.Time {
	return s.taken
}

// Len returns the number of value slots.
func (s *Sample) Len() int {
	return len(s.values)
}
