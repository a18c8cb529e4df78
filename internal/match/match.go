// Package match pairs allocation events with release events to
// produce block lifetime intervals.
//
// Pairing is greedy in log order: each allocation takes the first
// remaining release with the same address and size whose timestamp is
// not before the allocation's. "First" means release log order, not
// closest in time. Releases skipped over for being too early stay
// available for later allocations. Unpaired allocations are extended
// to the session horizon; unpaired releases are backfilled from time
// zero.
package match

import (
	"sort"

	"github.com/ppiankov/heapwatch/internal/model"
)

// Result holds the intervals for one heap plus the events the pairing
// scan could not place.
type Result struct {
	Intervals      []model.Interval
	LeftoverAllocs []model.Event
	LeftoverFrees  []model.Event
}

// Matched returns the number of alloc/release pairs.
func (r *Result) Matched() int {
	return len(r.Intervals) - len(r.LeftoverAllocs) - len(r.LeftoverFrees)
}

// blockKey identifies a pairable block: a release only pairs with an
// allocation at the same address and size.
type blockKey struct {
	address string
	size    uint64
}

// Heap pairs the events of a single heap. Events must be in log order.
// horizon is the session end in ticks and closes unpaired allocations.
// Intervals come back stable-sorted by start time: equal starts keep
// construction order (pairs first, then leftover allocations, then
// leftover releases, each in log order).
func Heap(events []model.Event, horizon uint64) *Result {
	var allocs, frees []model.Event
	for _, ev := range events {
		switch ev.Kind {
		case model.KindAlloc:
			allocs = append(allocs, ev)
		case model.KindFree:
			frees = append(frees, ev)
		}
	}

	// Release indices per block, queued in log order. An entry skipped
	// for preceding its candidate allocation stays queued.
	pending := make(map[blockKey][]int, len(frees))
	for i, fr := range frees {
		k := blockKey{fr.Address, fr.Size}
		pending[k] = append(pending[k], i)
	}

	taken := make([]bool, len(frees))
	res := &Result{}

	for _, al := range allocs {
		k := blockKey{al.Address, al.Size}
		queue := pending[k]
		hit := -1
		for qi, fi := range queue {
			if frees[fi].Timestamp >= al.Timestamp {
				hit = qi
				break
			}
		}
		if hit < 0 {
			res.LeftoverAllocs = append(res.LeftoverAllocs, al)
			continue
		}
		fi := queue[hit]
		pending[k] = append(queue[:hit], queue[hit+1:]...)
		taken[fi] = true
		res.Intervals = append(res.Intervals, model.Interval{
			Address:   al.Address,
			AllocTime: al.Timestamp,
			FreeTime:  frees[fi].Timestamp,
			Size:      al.Size,
			Origin:    model.OriginMatched,
		})
	}

	for _, al := range res.LeftoverAllocs {
		res.Intervals = append(res.Intervals, model.Interval{
			Address:   al.Address,
			AllocTime: al.Timestamp,
			FreeTime:  horizon,
			Size:      al.Size,
			Origin:    model.OriginLeftoverAlloc,
		})
	}
	for i, fr := range frees {
		if taken[i] {
			continue
		}
		res.LeftoverFrees = append(res.LeftoverFrees, fr)
		res.Intervals = append(res.Intervals, model.Interval{
			Address:   fr.Address,
			AllocTime: 0,
			FreeTime:  fr.Timestamp,
			Size:      fr.Size,
			Origin:    model.OriginLeftoverFree,
		})
	}

	sort.SliceStable(res.Intervals, func(i, j int) bool {
		return res.Intervals[i].AllocTime < res.Intervals[j].AllocTime
	})

	return res
}
