// Package export writes the derived views to per-heap files a
// plotting frontend can consume.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/heapwatch/internal/analyze"
)

// Formats accepted by Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Options selects where and how views are written.
type Options struct {
	Dir     string
	Format  string
	ClockHz uint64
}

// Write renders the timeline and lifetime views of every heap in the
// report into opts.Dir, returning the written paths. Times are kept
// in ticks and also converted to seconds at this boundary.
func Write(rep *analyze.Report, opts Options) ([]string, error) {
	switch opts.Format {
	case FormatCSV, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown export format %q", opts.Format)
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var paths []string
	used := make(map[string]bool, len(rep.Heaps))
	for i := range rep.Heaps {
		h := &rep.Heaps[i]
		atom := sanitize(h.HeapID)
		base := "heap_" + atom
		// Distinct ids can sanitize to the same atom; later ones get a
		// numeric suffix so no heap's files are overwritten.
		for n := 2; used[base]; n++ {
			base = fmt.Sprintf("heap_%s_%d", atom, n)
		}
		used[base] = true

		tp := filepath.Join(opts.Dir, base+"_timeline."+opts.Format)
		if err := writeTimeline(tp, rep, h, opts); err != nil {
			return nil, err
		}
		paths = append(paths, tp)

		lp := filepath.Join(opts.Dir, base+"_lifetime."+opts.Format)
		if err := writeLifetime(lp, rep, h, opts); err != nil {
			return nil, err
		}
		paths = append(paths, lp)
	}
	return paths, nil
}

func writeTimeline(path string, rep *analyze.Report, h *analyze.HeapReport, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create timeline file: %w", err)
	}
	defer f.Close()

	if opts.Format == FormatJSON {
		type sample struct {
			Ticks   uint64  `json:"ticks"`
			Seconds float64 `json:"seconds"`
			Bytes   int64   `json:"bytes"`
		}
		doc := struct {
			Source  string   `json:"source"`
			RunID   string   `json:"run_id"`
			Heap    string   `json:"heap"`
			ClockHz uint64   `json:"clock_hz"`
			Samples []sample `json:"samples"`
		}{rep.Source, rep.RunID, h.HeapID, opts.ClockHz, make([]sample, 0, len(h.Timeline))}
		for _, s := range h.Timeline {
			doc.Samples = append(doc.Samples, sample{s.Time, seconds(s.Time, opts.ClockHz), s.Bytes})
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode timeline: %w", err)
		}
		return nil
	}

	fmt.Fprintf(f, "# Source: %s\n", rep.Source)
	fmt.Fprintf(f, "# RunID: %s\n", rep.RunID)
	fmt.Fprintf(f, "# Heap: %s\n", h.HeapID)
	fmt.Fprintf(f, "# ClockHz: %d\n", opts.ClockHz)
	fmt.Fprintf(f, "Ticks,Seconds,Bytes\n")
	for _, s := range h.Timeline {
		fmt.Fprintf(f, "%d,%.6f,%d\n", s.Time, seconds(s.Time, opts.ClockHz), s.Bytes)
	}
	return nil
}

func writeLifetime(path string, rep *analyze.Report, h *analyze.HeapReport, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create lifetime file: %w", err)
	}
	defer f.Close()

	if opts.Format == FormatJSON {
		type bar struct {
			Row             int     `json:"row"`
			StartTicks      uint64  `json:"start_ticks"`
			StartSeconds    float64 `json:"start_seconds"`
			DurationTicks   uint64  `json:"duration_ticks"`
			DurationSeconds float64 `json:"duration_seconds"`
			Address         string  `json:"address"`
		}
		doc := struct {
			Source  string `json:"source"`
			RunID   string `json:"run_id"`
			Heap    string `json:"heap"`
			ClockHz uint64 `json:"clock_hz"`
			Bars    []bar  `json:"bars"`
		}{rep.Source, rep.RunID, h.HeapID, opts.ClockHz, make([]bar, 0, len(h.Bars))}
		for _, b := range h.Bars {
			doc.Bars = append(doc.Bars, bar{
				b.Row, b.Start, seconds(b.Start, opts.ClockHz),
				b.Duration, seconds(b.Duration, opts.ClockHz), b.Address,
			})
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode lifetime: %w", err)
		}
		return nil
	}

	fmt.Fprintf(f, "# Source: %s\n", rep.Source)
	fmt.Fprintf(f, "# RunID: %s\n", rep.RunID)
	fmt.Fprintf(f, "# Heap: %s\n", h.HeapID)
	fmt.Fprintf(f, "# ClockHz: %d\n", opts.ClockHz)
	fmt.Fprintf(f, "Row,StartTicks,StartSeconds,DurationTicks,DurationSeconds,Address\n")
	for _, b := range h.Bars {
		fmt.Fprintf(f, "%d,%d,%.6f,%d,%.6f,%s\n",
			b.Row, b.Start, seconds(b.Start, opts.ClockHz),
			b.Duration, seconds(b.Duration, opts.ClockHz), b.Address)
	}
	return nil
}

func seconds(ticks, hz uint64) float64 {
	return float64(ticks) / float64(hz)
}

// sanitize keeps heap ids safe as file name atoms.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
