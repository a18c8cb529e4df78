package analyze

import (
	"strings"
	"testing"
)

func runOn(t *testing.T, source string, lines ...string) *Report {
	t.Helper()
	ts := parseTrace(t, lines...)
	rep, err := Run(ts, Params{Source: source, ClockHz: 10, Horizon: 500})
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func TestDiffIdenticalRuns(t *testing.T) {
	lines := []string{
		"ALLO;10;h1;0xA;4",
		"FREE;30;h1;0xA;4",
	}
	d := Diff(runOn(t, "a.txt", lines...), runOn(t, "b.txt", lines...))

	if d.Changed() {
		t.Errorf("expected no changes, got %+v", d)
	}
	out := FormatDiffText(d)
	if !strings.Contains(out, "No differences detected.") {
		t.Errorf("expected no-differences notice, got:\n%s", out)
	}
}

func TestDiffDetectsChangedHeap(t *testing.T) {
	before := runOn(t, "a.txt",
		"ALLO;10;h1;0xA;4",
		"FREE;30;h1;0xA;4",
	)
	after := runOn(t, "b.txt",
		"ALLO;10;h1;0xA;4",
		"ALLO;20;h1;0xB;8",
		"FREE;30;h1;0xA;4",
	)

	d := Diff(before, after)
	if len(d.Changes) != 1 {
		t.Fatalf("expected 1 changed heap, got %d", len(d.Changes))
	}
	hd := d.Changes[0]
	if hd.OldEvents != 2 || hd.NewEvents != 3 {
		t.Errorf("expected events 2 → 3, got %d → %d", hd.OldEvents, hd.NewEvents)
	}
	if hd.OldLeftovers != 0 || hd.NewLeftovers != 1 {
		t.Errorf("expected leftovers 0 → 1, got %d → %d", hd.OldLeftovers, hd.NewLeftovers)
	}

	out := FormatDiffText(d)
	if !strings.Contains(out, "CHANGED") || !strings.Contains(out, "h1") {
		t.Errorf("expected changed heap row, got:\n%s", out)
	}
}

func TestDiffDetectsAddedAndRemovedHeaps(t *testing.T) {
	before := runOn(t, "a.txt", "ALLO;10;h1;0xA;4")
	after := runOn(t, "b.txt", "ALLO;10;h2;0xA;4")

	d := Diff(before, after)
	if len(d.OnlyOld) != 1 || d.OnlyOld[0] != "h1" {
		t.Errorf("expected h1 only in old run, got %v", d.OnlyOld)
	}
	if len(d.OnlyNew) != 1 || d.OnlyNew[0] != "h2" {
		t.Errorf("expected h2 only in new run, got %v", d.OnlyNew)
	}

	out := FormatDiffText(d)
	if !strings.Contains(out, "REMOVED") || !strings.Contains(out, "ADDED") {
		t.Errorf("expected added/removed rows, got:\n%s", out)
	}
}

func TestFormatDiffJSON(t *testing.T) {
	d := Diff(runOn(t, "a.txt", "ALLO;10;h1;0xA;4"), runOn(t, "b.txt", "ALLO;10;h1;0xA;4"))
	out, err := FormatDiffJSON(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\"old_source\": \"a.txt\"") {
		t.Errorf("expected sources in JSON, got:\n%s", out)
	}
}
