// Package heapwatch provides in-process heap trace analysis for Go test
// harnesses and CI pipelines. It parses ALLO/FREE event logs captured
// from a device console, pairs allocations with their releases, builds
// occupancy timelines, and verifies the result against memory budgets.
//
// Usage:
//
//	hw, err := heapwatch.New(heapwatch.WithClockHz(600000000))
//	report, err := hw.AnalyzeFile("capture/heap_operations_combined.txt")
//	err = report.Verify(
//	    heapwatch.MaxPeakBytes(48*1024),
//	    heapwatch.MaxLeftoverAllocs(0),
//	)
//
// A failed Verify returns a *BudgetError listing every heap and limit
// that was exceeded, so a firmware change that regresses memory use
// fails the build with the numbers attached.
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/ppiankov/heapwatch/sdk/go/heapwatch.
package heapwatch
