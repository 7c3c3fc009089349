// Package vitals implements the core sampling model: the column schema,
// timestamped samples, the bounded sample history, and the engine that
// drives registered samplers.
package vitals

import "math"

// Value is one sampled metric reading.
type Value = uint64

// Invalid marks a slot whose metric could not be read. It lets readers
// distinguish "not sampled" from a genuine zero.
const Invalid Value = math.MaxUint64

// IsValid reports whether v holds a real reading.
func IsValid(v Value) bool {
	return v != Invalid
}
