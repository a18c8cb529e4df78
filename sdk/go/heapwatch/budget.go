package heapwatch

import (
	"fmt"
	"strings"
)

// Limit is one budget constraint for Verify.
type Limit func(*budget)

type budget struct {
	peakBytes      *int64
	finalBytes     *int64
	leftoverAllocs *int
	leftoverFrees  *int
	noNegative     bool
}

// MaxPeakBytes caps the peak occupancy of every heap.
func MaxPeakBytes(n int64) Limit {
	return func(b *budget) { b.peakBytes = &n }
}

// MaxFinalBytes caps the occupancy remaining at the session horizon.
// MaxFinalBytes(0) asserts every allocation was released.
func MaxFinalBytes(n int64) Limit {
	return func(b *budget) { b.finalBytes = &n }
}

// MaxLeftoverAllocs caps allocations with no matching release.
func MaxLeftoverAllocs(n int) Limit {
	return func(b *budget) { b.leftoverAllocs = &n }
}

// MaxLeftoverFrees caps releases with no matching allocation.
func MaxLeftoverFrees(n int) Limit {
	return func(b *budget) { b.leftoverFrees = &n }
}

// NoNegativeOccupancy fails if any heap's occupancy ever drops below
// zero.
func NoNegativeOccupancy() Limit {
	return func(b *budget) { b.noNegative = true }
}

// Violation is one exceeded limit on one heap.
type Violation struct {
	HeapID  string
	Limit   string
	Allowed int64
	Actual  int64
}

func (v Violation) String() string {
	return fmt.Sprintf("heap %s: %s %d exceeds limit %d", v.HeapID, v.Limit, v.Actual, v.Allowed)
}

// BudgetError is returned by Verify when a report exceeds its limits.
type BudgetError struct {
	Violations []Violation
}

func (e *BudgetError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("heapwatch budget exceeded: %s", strings.Join(msgs, "; "))
}

// Verify checks every heap in the report against the given limits and
// returns a *BudgetError listing each violation, or nil if all heaps
// fit. No limits means nothing to check.
func (r *Report) Verify(limits ...Limit) error {
	var b budget
	for _, l := range limits {
		l(&b)
	}

	var violations []Violation
	for _, h := range r.Heaps {
		if b.peakBytes != nil && h.PeakBytes > *b.peakBytes {
			violations = append(violations, Violation{
				HeapID: h.ID, Limit: "peak_bytes",
				Allowed: *b.peakBytes, Actual: h.PeakBytes,
			})
		}
		if b.finalBytes != nil && h.FinalBytes > *b.finalBytes {
			violations = append(violations, Violation{
				HeapID: h.ID, Limit: "final_bytes",
				Allowed: *b.finalBytes, Actual: h.FinalBytes,
			})
		}
		if b.leftoverAllocs != nil && h.LeftoverAllocs > *b.leftoverAllocs {
			violations = append(violations, Violation{
				HeapID: h.ID, Limit: "leftover_allocs",
				Allowed: int64(*b.leftoverAllocs), Actual: int64(h.LeftoverAllocs),
			})
		}
		if b.leftoverFrees != nil && h.LeftoverFrees > *b.leftoverFrees {
			violations = append(violations, Violation{
				HeapID: h.ID, Limit: "leftover_frees",
				Allowed: int64(*b.leftoverFrees), Actual: int64(h.LeftoverFrees),
			})
		}
		if b.noNegative && h.FirstNegative != nil {
			violations = append(violations, Violation{
				HeapID: h.ID, Limit: "negative_occupancy",
				Allowed: 0, Actual: h.FirstNegative.Bytes,
			})
		}
	}

	if len(violations) > 0 {
		return &BudgetError{Violations: violations}
	}
	return nil
}
