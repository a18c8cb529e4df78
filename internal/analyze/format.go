package analyze

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatText renders a report as a human-readable summary.
func FormatText(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s | %s UTC\n", r.RunID, readableTimestamp(r.GeneratedAt))
	fmt.Fprintf(&b, "Source: %s | %s lines | %d heaps | horizon %s @ %s\n",
		r.Source, humanize.Comma(int64(r.Lines)), len(r.Heaps),
		secondsLabel(r.Horizon, r.ClockHz), clockLabel(r.ClockHz))
	if r.Filter != "" {
		fmt.Fprintf(&b, "Filter: %s\n", r.Filter)
	}

	if len(r.Heaps) == 0 {
		b.WriteString(separator + "\n")
		b.WriteString("No heap events found.\n")
		return b.String()
	}

	for i := range r.Heaps {
		b.WriteString(separator + "\n")
		writeHeap(&b, &r.Heaps[i], r.ClockHz, r.Filter != "")
	}
	return b.String()
}

// FormatJSON renders a report as indented JSON.
func FormatJSON(r *Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

func writeHeap(b *strings.Builder, h *HeapReport, hz uint64, filtered bool) {
	fmt.Fprintf(b, "Heap %s\n", h.HeapID)
	fmt.Fprintf(b, "  events:           %s (%s alloc / %s free)\n",
		humanize.Comma(int64(h.Events)), humanize.Comma(int64(h.Allocs)), humanize.Comma(int64(h.Frees)))
	fmt.Fprintf(b, "  matched pairs:    %s\n", humanize.Comma(int64(h.Matched)))
	fmt.Fprintf(b, "  leftover allocs:  %d\n", len(h.LeftoverAllocs))
	fmt.Fprintf(b, "  leftover frees:   %d\n", len(h.LeftoverFrees))
	fmt.Fprintf(b, "  peak occupancy:   %s at %s\n", bytesLabel(h.PeakBytes), secondsLabel(h.PeakTime, hz))
	fmt.Fprintf(b, "  final occupancy:  %s\n", bytesLabel(h.FinalBytes))
	fmt.Fprintf(b, "  anomalies:        %s\n", anomaliesLabel(h, hz))

	if len(h.LeftoverAllocs) > 0 {
		b.WriteString("\n  allocations never released:\n")
		for _, ev := range h.LeftoverAllocs {
			fmt.Fprintf(b, "    %-12s %-14s %s\n",
				secondsLabel(ev.Timestamp, hz), ev.Address, humanize.IBytes(ev.Size))
		}
	}
	if len(h.LeftoverFrees) > 0 {
		b.WriteString("\n  releases never allocated:\n")
		for _, ev := range h.LeftoverFrees {
			fmt.Fprintf(b, "    %-12s %-14s %s\n",
				secondsLabel(ev.Timestamp, hz), ev.Address, humanize.IBytes(ev.Size))
		}
	}
	if filtered {
		fmt.Fprintf(b, "\n  selected intervals: %d\n", len(h.Selected))
		for _, iv := range h.Selected {
			fmt.Fprintf(b, "    %-12s → %-12s %-14s %-10s %s\n",
				secondsLabel(iv.AllocTime, hz), secondsLabel(iv.FreeTime, hz),
				iv.Address, humanize.IBytes(iv.Size), iv.Origin)
		}
	}
}

func anomaliesLabel(h *HeapReport, hz uint64) string {
	var parts []string
	if h.FirstNegative != nil {
		parts = append(parts, fmt.Sprintf("occupancy %s from %s",
			bytesLabel(h.FirstNegative.Bytes), secondsLabel(h.FirstNegative.Time, hz)))
	}
	if h.BeyondHorizon > 0 {
		parts = append(parts, fmt.Sprintf("%d events beyond horizon", h.BeyondHorizon))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func secondsLabel(ticks, hz uint64) string {
	return fmt.Sprintf("%.3fs", float64(ticks)/float64(hz))
}

func clockLabel(hz uint64) string {
	if hz >= 1000000 && hz%1000000 == 0 {
		return fmt.Sprintf("%d MHz", hz/1000000)
	}
	return fmt.Sprintf("%d Hz", hz)
}

// bytesLabel keeps negative occupancy visible instead of wrapping.
func bytesLabel(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

func readableTimestamp(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}
