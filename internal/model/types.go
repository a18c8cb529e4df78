package model

// EventKind is the heap operation recorded on a trace line.
type EventKind string

const (
	KindAlloc EventKind = "ALLO"
	KindFree  EventKind = "FREE"
)

// Event is one parsed trace line: an allocation or a release observed
// on a device heap. Timestamps are raw clock ticks, sizes are bytes.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp uint64    `json:"timestamp"`
	HeapID    string    `json:"heap_id"`
	Address   string    `json:"address"`
	Size      uint64    `json:"size"`
}

// Origin records how an interval was produced by the matching engine.
type Origin string

const (
	// OriginMatched pairs an allocation with a release of the same
	// address and size observed at or after the allocation.
	OriginMatched Origin = "matched"
	// OriginLeftoverAlloc is an allocation with no release; its end is
	// pinned to the session horizon.
	OriginLeftoverAlloc Origin = "leftover_alloc"
	// OriginLeftoverFree is a release with no allocation; its start is
	// pinned to time zero.
	OriginLeftoverFree Origin = "leftover_free"
)

// Interval is the lifetime of one block: half-open occupancy from
// AllocTime to FreeTime at a fixed address and size.
type Interval struct {
	Address   string `json:"address"`
	AllocTime uint64 `json:"alloc_time"`
	FreeTime  uint64 `json:"free_time"`
	Size      uint64 `json:"size"`
	Origin    Origin `json:"origin"`
}

// Duration returns the interval length in ticks. It saturates at zero
// when FreeTime precedes AllocTime, which only happens for an
// allocation recorded after the session horizon.
func (iv Interval) Duration() uint64 {
	if iv.FreeTime < iv.AllocTime {
		return 0
	}
	return iv.FreeTime - iv.AllocTime
}

// Sample is one step of the occupancy timeline: total live bytes on
// the heap from Time onward. Bytes is signed so release-before-alloc
// anomalies pass through visibly instead of underflowing.
type Sample struct {
	Time  uint64 `json:"time"`
	Bytes int64  `json:"bytes"`
}

// Bar is one row of the lifetime view: block number (1-based, in
// ascending start order), start tick, duration in ticks, and address.
type Bar struct {
	Row      int    `json:"row"`
	Start    uint64 `json:"start"`
	Duration uint64 `json:"duration"`
	Address  string `json:"address"`
}
