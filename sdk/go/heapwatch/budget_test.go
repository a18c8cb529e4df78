package heapwatch

import (
	"strings"
	"testing"
)

func requireBudgetError(t *testing.T, err error) *BudgetError {
	t.Helper()
	if err == nil {
		t.Fatal("expected budget violation, got nil error")
	}
	be, ok := err.(*BudgetError)
	if !ok {
		t.Fatalf("expected *BudgetError, got %T: %v", err, err)
	}
	return be
}

func analyzeInline(t *testing.T, trace string) *Report {
	t.Helper()
	c := newTestClient(t)
	rep, err := c.Analyze(strings.NewReader(trace), "inline")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return rep
}

func TestVerifyWithinBudget(t *testing.T) {
	rep := analyzeInline(t, pairedTrace)
	err := rep.Verify(
		MaxPeakBytes(12),
		MaxFinalBytes(0),
		MaxLeftoverAllocs(0),
		MaxLeftoverFrees(0),
		NoNegativeOccupancy(),
	)
	if err != nil {
		t.Fatalf("expected clean verify, got: %v", err)
	}
}

func TestVerifyNoLimits(t *testing.T) {
	rep := analyzeInline(t, leakyTrace)
	if err := rep.Verify(); err != nil {
		t.Fatalf("expected nil with no limits, got: %v", err)
	}
}

func TestVerifyPeakExceeded(t *testing.T) {
	rep := analyzeInline(t, pairedTrace)
	be := requireBudgetError(t, rep.Verify(MaxPeakBytes(11)))
	if len(be.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(be.Violations))
	}
	v := be.Violations[0]
	if v.HeapID != "HEAP1" || v.Limit != "peak_bytes" {
		t.Errorf("expected HEAP1 peak_bytes violation, got %s %s", v.HeapID, v.Limit)
	}
	if v.Allowed != 11 || v.Actual != 12 {
		t.Errorf("expected 12 exceeds 11, got %d exceeds %d", v.Actual, v.Allowed)
	}
}

func TestVerifyLeakCaught(t *testing.T) {
	rep := analyzeInline(t, leakyTrace)
	be := requireBudgetError(t, rep.Verify(MaxFinalBytes(0), MaxLeftoverAllocs(0)))
	if len(be.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(be.Violations))
	}
	seen := map[string]bool{}
	for _, v := range be.Violations {
		seen[v.Limit] = true
	}
	if !seen["final_bytes"] || !seen["leftover_allocs"] {
		t.Errorf("expected final_bytes and leftover_allocs violations, got %v", be.Violations)
	}
}

func TestVerifyNegativeOccupancy(t *testing.T) {
	rep := analyzeInline(t, "FREE;10;HEAP1;0xA;4\n")
	be := requireBudgetError(t, rep.Verify(NoNegativeOccupancy()))
	v := be.Violations[0]
	if v.Limit != "negative_occupancy" {
		t.Errorf("expected negative_occupancy violation, got %s", v.Limit)
	}
	if v.Actual != -4 {
		t.Errorf("expected actual -4, got %d", v.Actual)
	}
}

func TestBudgetErrorMessage(t *testing.T) {
	rep := analyzeInline(t, leakyTrace)
	err := rep.Verify(MaxPeakBytes(8))
	msg := err.Error()
	if !strings.Contains(msg, "heap HEAP1") || !strings.Contains(msg, "peak_bytes") {
		t.Errorf("expected message naming heap and limit, got: %s", msg)
	}
	if !strings.Contains(msg, "16 exceeds limit 8") {
		t.Errorf("expected message with numbers, got: %s", msg)
	}
}
