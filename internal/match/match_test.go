package match

import (
	"testing"

	"github.com/ppiankov/heapwatch/internal/model"
)

func alloc(ts uint64, addr string, size uint64) model.Event {
	return model.Event{Kind: model.KindAlloc, Timestamp: ts, HeapID: "h1", Address: addr, Size: size}
}

func free(ts uint64, addr string, size uint64) model.Event {
	return model.Event{Kind: model.KindFree, Timestamp: ts, HeapID: "h1", Address: addr, Size: size}
}

func TestHeapPairsAllocWithFree(t *testing.T) {
	events := []model.Event{
		alloc(10, "0xA", 4),
		alloc(20, "0xB", 8),
		free(30, "0xA", 4),
		free(40, "0xB", 8),
	}
	res := Heap(events, 1000)

	if res.Matched() != 2 {
		t.Fatalf("expected 2 pairs, got %d", res.Matched())
	}
	if len(res.LeftoverAllocs) != 0 || len(res.LeftoverFrees) != 0 {
		t.Errorf("expected no leftovers, got %d allocs %d frees",
			len(res.LeftoverAllocs), len(res.LeftoverFrees))
	}
	want := []model.Interval{
		{Address: "0xA", AllocTime: 10, FreeTime: 30, Size: 4, Origin: model.OriginMatched},
		{Address: "0xB", AllocTime: 20, FreeTime: 40, Size: 8, Origin: model.OriginMatched},
	}
	if len(res.Intervals) != len(want) {
		t.Fatalf("expected %d intervals, got %d", len(want), len(res.Intervals))
	}
	for i, iv := range res.Intervals {
		if iv != want[i] {
			t.Errorf("interval %d: expected %+v, got %+v", i, want[i], iv)
		}
	}
}

func TestHeapAddressReuse(t *testing.T) {
	events := []model.Event{
		alloc(10, "0xA", 4),
		free(20, "0xA", 4),
		alloc(30, "0xA", 4),
		free(40, "0xA", 4),
	}
	res := Heap(events, 1000)

	if res.Matched() != 2 {
		t.Fatalf("expected 2 pairs, got %d", res.Matched())
	}
	if res.Intervals[0].FreeTime != 20 || res.Intervals[1].FreeTime != 40 {
		t.Errorf("expected ends 20 and 40, got %d and %d",
			res.Intervals[0].FreeTime, res.Intervals[1].FreeTime)
	}
}

func TestHeapSkipsEarlierFree(t *testing.T) {
	// The release at t=5 precedes the allocation and must stay
	// unpaired; the allocation takes the release at t=30.
	events := []model.Event{
		free(5, "0xA", 4),
		alloc(10, "0xA", 4),
		free(30, "0xA", 4),
	}
	res := Heap(events, 1000)

	if res.Matched() != 1 {
		t.Fatalf("expected 1 pair, got %d", res.Matched())
	}
	if len(res.LeftoverFrees) != 1 || res.LeftoverFrees[0].Timestamp != 5 {
		t.Fatalf("expected leftover release at t=5, got %+v", res.LeftoverFrees)
	}
	want := []model.Interval{
		{Address: "0xA", AllocTime: 0, FreeTime: 5, Size: 4, Origin: model.OriginLeftoverFree},
		{Address: "0xA", AllocTime: 10, FreeTime: 30, Size: 4, Origin: model.OriginMatched},
	}
	for i, iv := range res.Intervals {
		if iv != want[i] {
			t.Errorf("interval %d: expected %+v, got %+v", i, want[i], iv)
		}
	}
}

func TestHeapLogOrderWinsOverCloserTime(t *testing.T) {
	// Both releases are eligible; the one logged first wins even
	// though the later-logged one is closer in time.
	events := []model.Event{
		alloc(10, "0xA", 4),
		free(30, "0xA", 4),
		free(15, "0xA", 4),
	}
	res := Heap(events, 1000)

	if res.Matched() != 1 {
		t.Fatalf("expected 1 pair, got %d", res.Matched())
	}
	matched := res.Intervals[1]
	if matched.FreeTime != 30 {
		t.Errorf("expected pair with release at t=30, got t=%d", matched.FreeTime)
	}
	if len(res.LeftoverFrees) != 1 || res.LeftoverFrees[0].Timestamp != 15 {
		t.Errorf("expected leftover release at t=15, got %+v", res.LeftoverFrees)
	}
}

func TestHeapFirstAllocTakesSharedFree(t *testing.T) {
	events := []model.Event{
		alloc(10, "0xA", 4),
		alloc(20, "0xA", 4),
		free(30, "0xA", 4),
	}
	res := Heap(events, 1000)

	if res.Matched() != 1 {
		t.Fatalf("expected 1 pair, got %d", res.Matched())
	}
	want := []model.Interval{
		{Address: "0xA", AllocTime: 10, FreeTime: 30, Size: 4, Origin: model.OriginMatched},
		{Address: "0xA", AllocTime: 20, FreeTime: 1000, Size: 4, Origin: model.OriginLeftoverAlloc},
	}
	for i, iv := range res.Intervals {
		if iv != want[i] {
			t.Errorf("interval %d: expected %+v, got %+v", i, want[i], iv)
		}
	}
}

func TestHeapSizeMismatchNeverPairs(t *testing.T) {
	events := []model.Event{
		alloc(10, "0xA", 4),
		free(20, "0xA", 8),
	}
	res := Heap(events, 1000)

	if res.Matched() != 0 {
		t.Fatalf("expected no pairs, got %d", res.Matched())
	}
	want := []model.Interval{
		{Address: "0xA", AllocTime: 0, FreeTime: 20, Size: 8, Origin: model.OriginLeftoverFree},
		{Address: "0xA", AllocTime: 10, FreeTime: 1000, Size: 4, Origin: model.OriginLeftoverAlloc},
	}
	for i, iv := range res.Intervals {
		if iv != want[i] {
			t.Errorf("interval %d: expected %+v, got %+v", i, want[i], iv)
		}
	}
}

func TestHeapEqualTimestampsPair(t *testing.T) {
	events := []model.Event{
		alloc(10, "0xA", 4),
		free(10, "0xA", 4),
	}
	res := Heap(events, 1000)

	if res.Matched() != 1 {
		t.Fatalf("expected 1 pair, got %d", res.Matched())
	}
	if d := res.Intervals[0].Duration(); d != 0 {
		t.Errorf("expected zero duration, got %d", d)
	}
}

func TestHeapLeftoverFreesKeepLogOrder(t *testing.T) {
	events := []model.Event{
		free(20, "0xA", 4),
		free(10, "0xB", 4),
	}
	res := Heap(events, 1000)

	// Both backfilled intervals start at zero; log order must hold.
	if res.Intervals[0].Address != "0xA" || res.Intervals[1].Address != "0xB" {
		t.Errorf("expected [0xA 0xB], got [%s %s]",
			res.Intervals[0].Address, res.Intervals[1].Address)
	}
}

func TestHeapEmpty(t *testing.T) {
	res := Heap(nil, 1000)
	if len(res.Intervals) != 0 || res.Matched() != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestHeapIntervalsSortedByStart(t *testing.T) {
	events := []model.Event{
		alloc(40, "0xD", 4),
		free(50, "0xD", 4),
		alloc(10, "0xA", 4),
		free(20, "0xA", 4),
	}
	res := Heap(events, 1000)

	for i := 1; i < len(res.Intervals); i++ {
		if res.Intervals[i-1].AllocTime > res.Intervals[i].AllocTime {
			t.Fatalf("intervals out of order at %d: %+v", i, res.Intervals)
		}
	}
}
