package heapwatch

import (
	"github.com/ppiankov/heapwatch/internal/analyze"
	"github.com/ppiankov/heapwatch/internal/model"
)

// Origin records how an interval was derived from the trace.
type Origin string

const (
	Matched       Origin = Origin(model.OriginMatched)
	LeftoverAlloc Origin = Origin(model.OriginLeftoverAlloc)
	LeftoverFree  Origin = Origin(model.OriginLeftoverFree)
)

// Sample is one point of an occupancy timeline.
type Sample struct {
	Time  uint64 // clock ticks
	Bytes int64
}

// Interval is one block's lifetime in clock ticks.
type Interval struct {
	Address   string
	AllocTime uint64
	FreeTime  uint64
	Size      uint64
	Origin    Origin
}

// Duration returns the interval length in ticks.
func (iv Interval) Duration() uint64 {
	if iv.FreeTime < iv.AllocTime {
		return 0
	}
	return iv.FreeTime - iv.AllocTime
}

// Heap is the analysis result for a single heap.
type Heap struct {
	ID             string
	Events         int
	Allocs         int
	Frees          int
	Matched        int
	LeftoverAllocs int
	LeftoverFrees  int
	PeakBytes      int64
	PeakTime       uint64 // clock ticks
	FinalBytes     int64
	FirstNegative  *Sample // nil unless occupancy ever went below zero
	BeyondHorizon  int     // events timestamped past the session horizon
	Intervals      []Interval
	Timeline       []Sample
	Selected       []Interval // intervals matching the WithWhere filter
}

// Report is the result of one analysis run, heaps in the order the
// trace first mentions them.
type Report struct {
	RunID   string
	Source  string
	ClockHz uint64
	Horizon uint64 // clock ticks
	Lines   int
	Heaps   []Heap
}

// Heap returns the result for one heap, or nil if the trace never
// touched it.
func (r *Report) Heap(id string) *Heap {
	for i := range r.Heaps {
		if r.Heaps[i].ID == id {
			return &r.Heaps[i]
		}
	}
	return nil
}

// Seconds converts a tick count to seconds on the report's clock.
func (r *Report) Seconds(ticks uint64) float64 {
	return float64(ticks) / float64(r.ClockHz)
}

// toReport maps an internal analysis report to the SDK form.
func toReport(rep *analyze.Report) *Report {
	out := &Report{
		RunID:   rep.RunID,
		Source:  rep.Source,
		ClockHz: rep.ClockHz,
		Horizon: rep.Horizon,
		Lines:   rep.Lines,
		Heaps:   make([]Heap, len(rep.Heaps)),
	}
	for i := range rep.Heaps {
		out.Heaps[i] = toHeap(&rep.Heaps[i])
	}
	return out
}

func toHeap(hr *analyze.HeapReport) Heap {
	h := Heap{
		ID:             hr.HeapID,
		Events:         hr.Events,
		Allocs:         hr.Allocs,
		Frees:          hr.Frees,
		Matched:        hr.Matched,
		LeftoverAllocs: len(hr.LeftoverAllocs),
		LeftoverFrees:  len(hr.LeftoverFrees),
		PeakBytes:      hr.PeakBytes,
		PeakTime:       hr.PeakTime,
		FinalBytes:     hr.FinalBytes,
		BeyondHorizon:  hr.BeyondHorizon,
		Intervals:      toIntervals(hr.Intervals),
		Timeline:       toSamples(hr.Timeline),
		Selected:       toIntervals(hr.Selected),
	}
	if hr.FirstNegative != nil {
		h.FirstNegative = &Sample{Time: hr.FirstNegative.Time, Bytes: hr.FirstNegative.Bytes}
	}
	return h
}

func toIntervals(ivs []model.Interval) []Interval {
	if ivs == nil {
		return nil
	}
	out := make([]Interval, len(ivs))
	for i, iv := range ivs {
		out[i] = Interval{
			Address:   iv.Address,
			AllocTime: iv.AllocTime,
			FreeTime:  iv.FreeTime,
			Size:      iv.Size,
			Origin:    Origin(iv.Origin),
		}
	}
	return out
}

func toSamples(samples []model.Sample) []Sample {
	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = Sample{Time: s.Time, Bytes: s.Bytes}
	}
	return out
}
