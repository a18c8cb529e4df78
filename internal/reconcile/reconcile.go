// Package reconcile merges the repeated trace copies a device
// transmits into one trusted log by majority vote per line. The
// console link is lossy; retransmission plus voting recovers lines a
// single copy may have corrupted.
package reconcile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Result is a merged trace log.
type Result struct {
	Lines []string
	// Resolved counts lines where the copies disagreed but a majority
	// still held.
	Resolved int
	// Warning carries the capture-buffer advisory when the merged log
	// is close to the device capacity, empty otherwise.
	Warning string
}

// Merge votes line by line across copies. Every copy must have the
// same line count; a line with no majority value is fatal. capacity
// and warnRatio bound the advisory for near-full capture buffers.
func Merge(copies [][]string, capacity int, warnRatio float64) (*Result, error) {
	if len(copies) == 0 {
		return nil, fmt.Errorf("no copies to merge")
	}
	n := len(copies[0])
	for i, c := range copies[1:] {
		if len(c) != n {
			return nil, fmt.Errorf("copy %d has %d lines, want %d", i+2, len(c), n)
		}
	}

	res := &Result{Lines: make([]string, 0, n)}
	for i := 0; i < n; i++ {
		votes := make(map[string]int, len(copies))
		for _, c := range copies {
			votes[c[i]]++
		}

		winner, count := "", 0
		for _, c := range copies {
			if v := votes[c[i]]; v > count {
				winner, count = c[i], v
			}
		}
		if count*2 <= len(copies) {
			return nil, fmt.Errorf("line %d: no majority among copies: %s",
				i+1, quoteAll(copies, i))
		}
		if count < len(copies) {
			res.Resolved++
		}
		res.Lines = append(res.Lines, winner)
	}

	if float64(n) > float64(capacity)*warnRatio {
		res.Warning = fmt.Sprintf("capture holds %d lines, near the %d line device buffer; later operations may be missing", n, capacity)
	}
	return res, nil
}

// MergeFiles reads each copy from disk and merges them.
func MergeFiles(paths []string, capacity int, warnRatio float64) (*Result, error) {
	copies := make([][]string, len(paths))
	for i, path := range paths {
		lines, err := readLines(path)
		if err != nil {
			return nil, err
		}
		copies[i] = lines
	}
	return Merge(copies, capacity, warnRatio)
}

// WriteFile writes the merged log to path.
func (r *Result) WriteFile(path string) error {
	data := ""
	if len(r.Lines) > 0 {
		data = strings.Join(r.Lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("write merged log: %w", err)
	}
	return nil
}

func quoteAll(copies [][]string, i int) string {
	parts := make([]string, len(copies))
	for j, c := range copies {
		parts[j] = fmt.Sprintf("%q", c[i])
	}
	return strings.Join(parts, " / ")
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open copy: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read copy: %w", err)
	}
	return lines, nil
}
