package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/heapwatch/internal/analyze"
	"github.com/ppiankov/heapwatch/internal/parse"
)

// Run evaluates all cases in a scenario. Each case parses and analyzes
// its own inline log (cases are independent). clockHz and horizon are
// the run defaults; scenario-level values override them.
func Run(s *Scenario, clockHz, horizon uint64) *RunResult {
	if s.ClockHz != 0 {
		clockHz = s.ClockHz
	}
	if s.Horizon != 0 {
		horizon = s.Horizon
	}

	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		cr := CaseResult{Index: i + 1, Name: c.Name}
		cr.Failures = runCase(&c, clockHz, horizon)
		if len(cr.Failures) == 0 {
			cr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}
	return result
}

func runCase(c *Case, clockHz, horizon uint64) []string {
	ts, err := parse.Log(strings.NewReader(strings.Join(c.Log, "\n")), "")
	if err != nil {
		if c.Expect.ParseError == nil {
			return []string{fmt.Sprintf("log does not parse: %v", err)}
		}
		if !strings.Contains(err.Error(), *c.Expect.ParseError) {
			return []string{fmt.Sprintf("expected parse error containing %q, got %v",
				*c.Expect.ParseError, err)}
		}
		return nil
	}
	if c.Expect.ParseError != nil {
		return []string{fmt.Sprintf("expected parse error containing %q, log parsed cleanly",
			*c.Expect.ParseError)}
	}

	rep, err := analyze.Run(ts, analyze.Params{Source: c.Name, ClockHz: clockHz, Horizon: horizon})
	if err != nil {
		return []string{fmt.Sprintf("analysis failed: %v", err)}
	}

	heapID := c.Heap
	if heapID == "" {
		if len(rep.Heaps) != 1 {
			return []string{fmt.Sprintf("log touches %d heaps, case must name one", len(rep.Heaps))}
		}
		heapID = rep.Heaps[0].HeapID
	}
	h := rep.Heap(heapID)
	if h == nil {
		return []string{fmt.Sprintf("heap %s not present in log", heapID)}
	}

	var failures []string
	check := func(field string, want, got any) {
		if want != got {
			failures = append(failures, fmt.Sprintf("expected %s=%v, got %v", field, want, got))
		}
	}
	if c.Expect.Matched != nil {
		check("matched", *c.Expect.Matched, h.Matched)
	}
	if c.Expect.LeftoverAllocs != nil {
		check("leftover_allocs", *c.Expect.LeftoverAllocs, len(h.LeftoverAllocs))
	}
	if c.Expect.LeftoverFrees != nil {
		check("leftover_frees", *c.Expect.LeftoverFrees, len(h.LeftoverFrees))
	}
	if c.Expect.PeakBytes != nil {
		check("peak_bytes", *c.Expect.PeakBytes, h.PeakBytes)
	}
	if c.Expect.FinalBytes != nil {
		check("final_bytes", *c.Expect.FinalBytes, h.FinalBytes)
	}

	if c.Expect.Intervals != nil {
		if len(c.Expect.Intervals) != len(h.Intervals) {
			failures = append(failures, fmt.Sprintf("expected %d intervals, got %d",
				len(c.Expect.Intervals), len(h.Intervals)))
		} else {
			for j, want := range c.Expect.Intervals {
				got := h.Intervals[j]
				if got.Address != want.Address || got.AllocTime != want.Alloc ||
					got.FreeTime != want.Free || got.Size != want.Size {
					failures = append(failures, fmt.Sprintf(
						"interval %d: expected (%s, %d, %d, %d), got (%s, %d, %d, %d)",
						j+1, want.Address, want.Alloc, want.Free, want.Size,
						got.Address, got.AllocTime, got.FreeTime, got.Size))
				}
			}
		}
	}
	return failures
}

// LoadAndRun loads a scenario YAML file and runs it.
func LoadAndRun(path string, clockHz, horizon uint64) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	result := Run(&s, clockHz, horizon)
	result.File = path
	return result, nil
}
