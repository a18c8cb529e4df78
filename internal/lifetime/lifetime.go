// Package lifetime lays out block intervals as numbered rows for the
// per-block lifetime view.
package lifetime

import "github.com/ppiankov/heapwatch/internal/model"

// Bars assigns each interval a 1-based row in the order given. Callers
// pass the matcher's start-sorted intervals, so rows ascend by start
// time.
func Bars(intervals []model.Interval) []model.Bar {
	bars := make([]model.Bar, len(intervals))
	for i, iv := range intervals {
		bars[i] = model.Bar{
			Row:      i + 1,
			Start:    iv.AllocTime,
			Duration: iv.Duration(),
			Address:  iv.Address,
		}
	}
	return bars
}
