// Package parse reads raw capture logs into per-heap event traces.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ppiankov/heapwatch/internal/model"
)

// Trace lines carry five ;-separated fields:
// OPCODE;TIMESTAMP;HEAP_ID;ADDRESS;SIZE
const fieldCount = 5

// Line parses a single trace line. Surrounding whitespace is ignored;
// serial captures often carry stray CR or padding.
func Line(raw string) (model.Event, error) {
	fields := strings.Split(strings.TrimSpace(raw), ";")
	if len(fields) != fieldCount {
		return model.Event{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	kind := model.EventKind(fields[0])
	if kind != model.KindAlloc && kind != model.KindFree {
		return model.Event{}, fmt.Errorf("unknown operation %q", fields[0])
	}

	ts, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return model.Event{}, fmt.Errorf("bad timestamp %q", fields[1])
	}

	size, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return model.Event{}, fmt.Errorf("bad size %q", fields[4])
	}

	return model.Event{
		Kind:      kind,
		Timestamp: ts,
		HeapID:    fields[2],
		Address:   fields[3],
		Size:      size,
	}, nil
}

// Log scans a trace log and groups events by heap in first-appearance
// order. A non-empty heapFilter retains only that heap's events; every
// line is still validated. Any malformed line aborts the whole parse
// with its 1-based line number.
func Log(r io.Reader, heapFilter string) (*model.TraceSet, error) {
	ts := model.NewTraceSet()

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		ev, err := Line(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if heapFilter != "" && ev.HeapID != heapFilter {
			continue
		}
		ts.Add(ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace log: %w", err)
	}

	ts.Lines = line
	return ts, nil
}

// LogFile opens and parses a trace log from disk.
func LogFile(path, heapFilter string) (*model.TraceSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace log: %w", err)
	}
	defer f.Close()

	return Log(f, heapFilter)
}
