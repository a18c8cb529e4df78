// Package analyze runs the full per-heap pipeline over a parsed trace
// set and aggregates the results into a report.
package analyze

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/heapwatch/internal/lifetime"
	"github.com/ppiankov/heapwatch/internal/match"
	"github.com/ppiankov/heapwatch/internal/model"
	"github.com/ppiankov/heapwatch/internal/query"
	"github.com/ppiankov/heapwatch/internal/timeline"
)

// TimestampFormat is the layout used for report timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Params configures one analysis run.
type Params struct {
	// Source names the trace input, for report headers only.
	Source string
	// ClockHz converts ticks to seconds in formatters and filters.
	ClockHz uint64
	// Horizon is the session end in ticks.
	Horizon uint64
	// Where optionally selects intervals for the report listing.
	Where *query.Filter
}

// HeapReport holds the summary and derived views for a single heap.
// The full views feed exporters and checks; serialized reports carry
// counts, leftovers, and selections instead.
type HeapReport struct {
	HeapID         string           `json:"heap_id"`
	Events         int              `json:"events"`
	Allocs         int              `json:"allocs"`
	Frees          int              `json:"frees"`
	Matched        int              `json:"matched"`
	LeftoverAllocs []model.Event    `json:"leftover_allocs,omitempty"`
	LeftoverFrees  []model.Event    `json:"leftover_frees,omitempty"`
	PeakBytes      int64            `json:"peak_bytes"`
	PeakTime       uint64           `json:"peak_time"`
	FinalBytes     int64            `json:"final_bytes"`
	FirstNegative  *model.Sample    `json:"first_negative,omitempty"`
	BeyondHorizon  int              `json:"beyond_horizon,omitempty"`
	Selected       []model.Interval `json:"selected,omitempty"`

	Intervals []model.Interval `json:"-"`
	Timeline  []model.Sample   `json:"-"`
	Bars      []model.Bar      `json:"-"`
}

// Report is the output of one analysis run, heaps in first-appearance
// order.
type Report struct {
	RunID       string       `json:"run_id"`
	GeneratedAt string       `json:"generated_at"`
	Source      string       `json:"source"`
	ClockHz     uint64       `json:"clock_hz"`
	Horizon     uint64       `json:"horizon_ticks"`
	Filter      string       `json:"filter,omitempty"`
	Lines       int          `json:"lines"`
	Heaps       []HeapReport `json:"heaps"`
}

// Heap returns the report for one heap, or nil if the trace never
// touched it.
func (r *Report) Heap(id string) *HeapReport {
	for i := range r.Heaps {
		if r.Heaps[i].HeapID == id {
			return &r.Heaps[i]
		}
	}
	return nil
}

// Run analyzes every heap in the trace set. Heaps are independent, so
// they run concurrently; results keep first-appearance order.
func Run(ts *model.TraceSet, p Params) (*Report, error) {
	rep := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(TimestampFormat),
		Source:      p.Source,
		ClockHz:     p.ClockHz,
		Horizon:     p.Horizon,
		Lines:       ts.Lines,
		Heaps:       make([]HeapReport, len(ts.Order)),
	}
	if p.Where != nil {
		rep.Filter = p.Where.String()
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range ts.Order {
		g.Go(func() error {
			hr, err := analyzeHeap(id, ts.Heaps[id], p)
			if err != nil {
				return err
			}
			rep.Heaps[i] = hr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}

func analyzeHeap(id string, events []model.Event, p Params) (HeapReport, error) {
	res := match.Heap(events, p.Horizon)
	samples := timeline.Build(events, p.Horizon)

	hr := HeapReport{
		HeapID:         id,
		Events:         len(events),
		Matched:        res.Matched(),
		LeftoverAllocs: res.LeftoverAllocs,
		LeftoverFrees:  res.LeftoverFrees,
		Intervals:      res.Intervals,
		Timeline:       samples,
		Bars:           lifetime.Bars(res.Intervals),
	}
	for _, ev := range events {
		switch ev.Kind {
		case model.KindAlloc:
			hr.Allocs++
		case model.KindFree:
			hr.Frees++
		}
		if ev.Timestamp > p.Horizon {
			hr.BeyondHorizon++
		}
	}

	peak := timeline.Peak(samples)
	hr.PeakBytes = peak.Bytes
	hr.PeakTime = peak.Time
	hr.FinalBytes = timeline.Final(samples).Bytes
	hr.FirstNegative = timeline.FirstNegative(samples)

	if p.Where != nil {
		for _, iv := range res.Intervals {
			ok, err := p.Where.Match(id, iv, p.ClockHz)
			if err != nil {
				return HeapReport{}, fmt.Errorf("heap %s: %w", id, err)
			}
			if ok {
				hr.Selected = append(hr.Selected, iv)
			}
		}
	}

	return hr, nil
}
