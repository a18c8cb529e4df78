// Package capture prepares raw device console transcripts for
// analysis: stripping interleaved firmware noise and cutting the
// transcript into the repeated trace copies the device transmits.
package capture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Clean copies r to w, dropping every line that contains any of the
// noise substrings. Returns the number of dropped lines.
func Clean(r io.Reader, w io.Writer, noise []string) (int, error) {
	dropped := 0
	bw := bufio.NewWriter(w)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if containsAny(line, noise) {
			dropped++
			continue
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return dropped, fmt.Errorf("write cleaned line: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return dropped, fmt.Errorf("read transcript: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return dropped, fmt.Errorf("flush cleaned output: %w", err)
	}
	return dropped, nil
}

// CleanFile cleans inPath into outPath.
func CleanFile(inPath, outPath string, noise []string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open transcript: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create cleaned file: %w", err)
	}
	defer out.Close()

	return Clean(in, out, noise)
}

// Split cuts a cleaned transcript into its transmitted copies. Each
// copy starts after a line containing marker; the last copy ends at
// the single line containing one of the end markers. The transcript
// must hold exactly copies marker lines and exactly one end line.
func Split(lines []string, marker string, endMarkers []string, copies int) ([][]string, error) {
	var starts []int
	for i, line := range lines {
		if strings.Contains(line, marker) {
			starts = append(starts, i)
		}
	}
	if len(starts) != copies {
		return nil, fmt.Errorf("expected %d %q markers, got %d", copies, marker, len(starts))
	}

	ends := closingIndices(lines, endMarkers)
	if len(ends) != 1 {
		return nil, fmt.Errorf("expected exactly 1 end marker (%s), got %d",
			strings.Join(endMarkers, " or "), len(ends))
	}
	if ends[0] < starts[copies-1] {
		return nil, fmt.Errorf("end marker at line %d precedes the last %q marker at line %d",
			ends[0]+1, marker, starts[copies-1]+1)
	}

	out := make([][]string, copies)
	for i := range starts {
		from := starts[i] + 1
		to := ends[0]
		if i < copies-1 {
			to = starts[i+1]
		} else if to < from {
			// end marker on the same line as the last copy marker
			to = from
		}
		out[i] = lines[from:to]
	}
	return out, nil
}

// SplitFile splits inPath and writes each copy to
// <outDir>/<prefix><n>.txt, returning the written paths.
func SplitFile(inPath, outDir, prefix string, marker string, endMarkers []string, copies int) ([]string, error) {
	lines, err := readLines(inPath)
	if err != nil {
		return nil, err
	}

	segments, err := Split(lines, marker, endMarkers, copies)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", inPath, err)
	}

	paths := make([]string, len(segments))
	for i, segment := range segments {
		path := filepath.Join(outDir, fmt.Sprintf("%s%d.txt", prefix, i+1))
		data := ""
		if len(segment) > 0 {
			data = strings.Join(segment, "\n") + "\n"
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			return nil, fmt.Errorf("write copy %d: %w", i+1, err)
		}
		paths[i] = path
	}
	return paths, nil
}

// closingIndices finds the end-of-capture line. Markers are tried in
// order and the first one present anywhere wins, so older firmware
// wordings keep working.
func closingIndices(lines []string, endMarkers []string) []int {
	for _, marker := range endMarkers {
		var hits []int
		for i, line := range lines {
			if strings.Contains(line, marker) {
				hits = append(hits, i)
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}

func containsAny(line string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return lines, nil
}
