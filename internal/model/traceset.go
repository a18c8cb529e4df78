package model

// TraceSet groups parsed events by heap, preserving the order in which
// each heap first appears in the log. Per-heap event slices stay in
// log order.
type TraceSet struct {
	Order []string
	Heaps map[string][]Event
	Lines int
}

// NewTraceSet returns an empty TraceSet.
func NewTraceSet() *TraceSet {
	return &TraceSet{Heaps: make(map[string][]Event)}
}

// Add appends an event to its heap, registering the heap on first sight.
func (ts *TraceSet) Add(ev Event) {
	if _, ok := ts.Heaps[ev.HeapID]; !ok {
		ts.Order = append(ts.Order, ev.HeapID)
	}
	ts.Heaps[ev.HeapID] = append(ts.Heaps[ev.HeapID], ev)
}

// Events returns the total number of retained events across all heaps.
func (ts *TraceSet) Events() int {
	n := 0
	for _, evs := range ts.Heaps {
		n += len(evs)
	}
	return n
}
