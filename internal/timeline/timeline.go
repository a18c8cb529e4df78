// Package timeline folds heap events into an occupancy step function.
package timeline

import "github.com/ppiankov/heapwatch/internal/model"

// Build returns the occupancy samples for one heap's events in log
// order: a zero origin sample, one sample per event carrying the
// cumulative live bytes from that instant on, and a closing sample
// holding the last value at the session horizon. Releases the matcher
// would reject still subtract here, so lost allocations show up as
// negative occupancy instead of being papered over.
func Build(events []model.Event, horizon uint64) []model.Sample {
	samples := make([]model.Sample, 0, len(events)+2)
	samples = append(samples, model.Sample{Time: 0, Bytes: 0})

	var cur int64
	for _, ev := range events {
		switch ev.Kind {
		case model.KindAlloc:
			cur += int64(ev.Size)
		case model.KindFree:
			cur -= int64(ev.Size)
		}
		samples = append(samples, model.Sample{Time: ev.Timestamp, Bytes: cur})
	}

	samples = append(samples, model.Sample{Time: horizon, Bytes: cur})
	return samples
}

// Peak returns the sample with the highest occupancy, preferring the
// earliest on ties. The zero origin sample counts, so an all-release
// trace peaks at zero.
func Peak(samples []model.Sample) model.Sample {
	peak := samples[0]
	for _, s := range samples[1:] {
		if s.Bytes > peak.Bytes {
			peak = s
		}
	}
	return peak
}

// Final returns the closing sample.
func Final(samples []model.Sample) model.Sample {
	return samples[len(samples)-1]
}

// FirstNegative returns the earliest sample with occupancy below zero,
// or nil if occupancy never goes negative.
func FirstNegative(samples []model.Sample) *model.Sample {
	for i := range samples {
		if samples[i].Bytes < 0 {
			return &samples[i]
		}
	}
	return nil
}
