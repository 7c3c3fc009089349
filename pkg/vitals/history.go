package vitals

// DefaultHistorySize bounds the sample ring when the caller does not choose.
const DefaultHistorySize = 360

// History is the bounded ring owning all retained samples. The oldest sample
// is discarded on overflow. Only the engine mutates it, under the engine
// lock; readers get a copied window so rendering stays stable while sampling
// races ahead.
type History struct {
	ring  []*Sample
	next  int
	count int
}

// NewHistory returns a ring holding at most capacity samples. A
// non-positive capacity is normalized to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{ring: make([]*Sample, capacity)}
}

// Add appends s, discarding the oldest sample when full.
func (h *History) Add(s *Sample) {
	h.ring[h.next] = s
	h.next = (h.next + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return h.count
}

// Capacity returns the maximum number of retained samples.
func (h *History) Capacity() int {
	return len(h.ring)
}

// Window copies out up to max of the newest samples in chronological order.
// max <= 0 means all retained samples.
func (h *History) Window(max int) []*Sample {
	n := h.count
	if max > 0 && max < n {
		n = max
	}
	out := make([]*Sample, n)
	// next points one past the newest entry.
	for i := 0; i < n; i++ {
		idx := (h.next - n + i + len(h.ring)*2) % len(h.ring)
		out[i] = h.ring[idx]
	}
	return out
}

// Newest returns the most recent sample, or nil when empty.
func (h *History) Newest() *Sample {
	if h.count == 0 {
		return nil
	}
	idx := (h.next - 1 + len(h.ring)) % len(h.ring)
	return h.ring[idx]
}
