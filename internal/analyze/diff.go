package analyze

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HeapDiff is one heap whose summary changed between two runs.
type HeapDiff struct {
	HeapID       string `json:"heap_id"`
	OldEvents    int    `json:"old_events"`
	NewEvents    int    `json:"new_events"`
	OldMatched   int    `json:"old_matched"`
	NewMatched   int    `json:"new_matched"`
	OldLeftovers int    `json:"old_leftovers"`
	NewLeftovers int    `json:"new_leftovers"`
	OldPeak      int64  `json:"old_peak"`
	NewPeak      int64  `json:"new_peak"`
	OldFinal     int64  `json:"old_final"`
	NewFinal     int64  `json:"new_final"`
}

// DiffResult compares two analysis runs heap by heap.
type DiffResult struct {
	OldSource string     `json:"old_source"`
	NewSource string     `json:"new_source"`
	Changes   []HeapDiff `json:"changes,omitempty"`
	OnlyOld   []string   `json:"only_old,omitempty"`
	OnlyNew   []string   `json:"only_new,omitempty"`
}

// Changed reports whether the two runs differ at all.
func (d *DiffResult) Changed() bool {
	return len(d.Changes) > 0 || len(d.OnlyOld) > 0 || len(d.OnlyNew) > 0
}

// Diff compares the per-heap summaries of two runs, typically a
// baseline capture against one from newer firmware.
func Diff(before, after *Report) *DiffResult {
	d := &DiffResult{
		OldSource: before.Source,
		NewSource: after.Source,
	}

	for i := range before.Heaps {
		oh := &before.Heaps[i]
		nh := after.Heap(oh.HeapID)
		if nh == nil {
			d.OnlyOld = append(d.OnlyOld, oh.HeapID)
			continue
		}
		hd := HeapDiff{
			HeapID:       oh.HeapID,
			OldEvents:    oh.Events,
			NewEvents:    nh.Events,
			OldMatched:   oh.Matched,
			NewMatched:   nh.Matched,
			OldLeftovers: len(oh.LeftoverAllocs) + len(oh.LeftoverFrees),
			NewLeftovers: len(nh.LeftoverAllocs) + len(nh.LeftoverFrees),
			OldPeak:      oh.PeakBytes,
			NewPeak:      nh.PeakBytes,
			OldFinal:     oh.FinalBytes,
			NewFinal:     nh.FinalBytes,
		}
		if hd.OldEvents != hd.NewEvents || hd.OldMatched != hd.NewMatched ||
			hd.OldLeftovers != hd.NewLeftovers || hd.OldPeak != hd.NewPeak ||
			hd.OldFinal != hd.NewFinal {
			d.Changes = append(d.Changes, hd)
		}
	}
	for i := range after.Heaps {
		if before.Heap(after.Heaps[i].HeapID) == nil {
			d.OnlyNew = append(d.OnlyNew, after.Heaps[i].HeapID)
		}
	}
	return d
}

// FormatDiffText renders a diff as human-readable text.
func FormatDiffText(d *DiffResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Comparing %s → %s\n", d.OldSource, d.NewSource)

	if !d.Changed() {
		b.WriteString("\nNo differences detected.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, hd := range d.Changes {
		var parts []string
		if hd.OldEvents != hd.NewEvents {
			parts = append(parts, fmt.Sprintf("events %d → %d", hd.OldEvents, hd.NewEvents))
		}
		if hd.OldMatched != hd.NewMatched {
			parts = append(parts, fmt.Sprintf("matched %d → %d", hd.OldMatched, hd.NewMatched))
		}
		if hd.OldLeftovers != hd.NewLeftovers {
			parts = append(parts, fmt.Sprintf("leftovers %d → %d", hd.OldLeftovers, hd.NewLeftovers))
		}
		if hd.OldPeak != hd.NewPeak {
			parts = append(parts, fmt.Sprintf("peak %s → %s", bytesLabel(hd.OldPeak), bytesLabel(hd.NewPeak)))
		}
		if hd.OldFinal != hd.NewFinal {
			parts = append(parts, fmt.Sprintf("final %s → %s", bytesLabel(hd.OldFinal), bytesLabel(hd.NewFinal)))
		}
		fmt.Fprintf(&b, "  CHANGED  heap %-14s %s\n", hd.HeapID, strings.Join(parts, ", "))
	}
	for _, id := range d.OnlyOld {
		fmt.Fprintf(&b, "  REMOVED  heap %s\n", id)
	}
	for _, id := range d.OnlyNew {
		fmt.Fprintf(&b, "  ADDED    heap %s\n", id)
	}

	fmt.Fprintf(&b, "\n%d heaps changed.\n", len(d.Changes)+len(d.OnlyOld)+len(d.OnlyNew))
	return b.String()
}

// FormatDiffJSON renders a diff as indented JSON.
func FormatDiffJSON(d *DiffResult) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diff result: %w", err)
	}
	return string(data), nil
}
