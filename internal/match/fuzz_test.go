package match

import (
	"testing"

	"github.com/ppiankov/heapwatch/internal/model"
)

var fuzzAddrs = [...]string{"0xA", "0xB", "0xC", "0xD"}

// fuzzEvents decodes two bytes per event. Addresses and sizes come
// from tiny alphabets so pairings collide often.
func fuzzEvents(data []byte) []model.Event {
	var events []model.Event
	for i := 0; i+1 < len(data); i += 2 {
		kind := model.KindAlloc
		if data[i]&1 == 1 {
			kind = model.KindFree
		}
		events = append(events, model.Event{
			Kind:      kind,
			Timestamp: uint64(data[i+1]),
			HeapID:    "h1",
			Address:   fuzzAddrs[(data[i]>>1)&3],
			Size:      uint64((data[i] >> 3) & 3),
		})
	}
	return events
}

func FuzzHeap(f *testing.F) {
	f.Add([]byte{0x08, 10, 0x09, 30})
	f.Add([]byte{0x09, 5, 0x08, 10, 0x09, 30})
	f.Add([]byte{0x08, 10, 0x11, 20})
	f.Add([]byte{0x08})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		events := fuzzEvents(data)
		res := Heap(events, 1000)

		var allocs, frees int
		for _, ev := range events {
			if ev.Kind == model.KindAlloc {
				allocs++
			} else {
				frees++
			}
		}

		// Every event lands in exactly one interval: a pair consumes
		// one allocation and one release, a leftover consumes one
		// event.
		if got := 2*res.Matched() + len(res.LeftoverAllocs) + len(res.LeftoverFrees); got != allocs+frees {
			t.Errorf("accounted for %d events, want %d", got, allocs+frees)
		}

		for i, iv := range res.Intervals {
			if iv.Origin == model.OriginMatched && iv.FreeTime < iv.AllocTime {
				t.Errorf("interval %d ends before it starts: %+v", i, iv)
			}
			if i > 0 && res.Intervals[i-1].AllocTime > iv.AllocTime {
				t.Errorf("intervals out of order at %d: %+v", i, res.Intervals)
			}
		}
	})
}
