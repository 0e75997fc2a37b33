package progress

import (
	"math/rand"
	"testing"
)

func TestInitialize(t *testing.T) {
	tr := New(3)
	if tr.Len() != 3 {
		t.Fatalf("expected 3 slots, got %d", tr.Len())
	}
	for i := 0; i < 3; i++ {
		if tr.Count(i) != 0 {
			t.Fatalf("recipe %d: expected 0 completed, got %d", i, tr.Count(i))
		}
	}

	tr.Initialize(-2)
	if tr.Len() != 0 {
		t.Fatalf("expected negative count to yield 0 slots, got %d", tr.Len())
	}
}

func TestToggleInvolution(t *testing.T) {
	tr := New(2)

	for step := 0; step < 4; step++ {
		before := tr.IsComplete(1, step)
		tr.Toggle(1, step, 4)
		tr.Toggle(1, step, 4)
		if got := tr.IsComplete(1, step); got != before {
			t.Fatalf("step %d: double toggle changed membership %v -> %v", step, before, got)
		}
	}

	tr.Toggle(1, 2, 4)
	tr.Toggle(1, 2, 4)
	tr.Toggle(1, 2, 4)
	if !tr.IsComplete(1, 2) {
		t.Fatal("expected odd number of toggles to leave step complete")
	}
}

func TestToggleCrossing(t *testing.T) {
	tr := New(1)

	tests := []struct {
		step        int
		wantOn      bool
		wantCrossed bool
	}{
		{0, true, false},
		{1, true, false},
		{2, true, true},
		{1, false, false},
		{1, true, true},
		{0, false, false},
	}

	for i, tt := range tests {
		res := tr.Toggle(0, tt.step, 3)
		if !res.Applied {
			t.Fatalf("toggle %d: expected applied", i)
		}
		if res.Completed != tt.wantOn {
			t.Fatalf("toggle %d: expected completed=%v, got %v", i, tt.wantOn, res.Completed)
		}
		if res.Crossed != tt.wantCrossed {
			t.Fatalf("toggle %d: expected crossed=%v, got %v", i, tt.wantCrossed, res.Crossed)
		}
	}
}

func TestOutOfRangeIsNoop(t *testing.T) {
	tr := New(2)

	tests := []struct {
		name   string
		recipe int
		step   int
		total  int
	}{
		{"negative recipe", -1, 0, 3},
		{"recipe past end", 2, 0, 3},
		{"negative step", 0, -1, 3},
		{"step past end", 0, 3, 3},
		{"empty recipe", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tr.Toggle(tt.recipe, tt.step, tt.total)
			if res.Applied || res.Crossed || res.Completed {
				t.Fatalf("expected zero result, got %+v", res)
			}
			if tr.IsComplete(tt.recipe, tt.step) {
				t.Fatal("expected step to stay incomplete")
			}
			if tr.Count(tt.recipe) != 0 {
				t.Fatalf("expected count 0, got %d", tr.Count(tt.recipe))
			}
		})
	}
}

func TestNilTrackerDefaults(t *testing.T) {
	var tr *Tracker
	if tr.Len() != 0 || tr.Count(0) != 0 || tr.IsComplete(0, 0) {
		t.Fatal("nil tracker should report safe defaults")
	}
	if res := tr.Toggle(0, 0, 1); res.Applied {
		t.Fatal("nil tracker should not apply toggles")
	}
	if len(tr.Steps(0)) != 0 {
		t.Fatal("nil tracker should have no steps")
	}
}

func TestReinitializeIsolation(t *testing.T) {
	tr := New(5)
	tr.Toggle(0, 0, 4)
	tr.Toggle(0, 1, 4)
	tr.Toggle(2, 3, 4)
	tr.Toggle(4, 0, 2)

	tr.Initialize(3)

	for i := 0; i < 3; i++ {
		if tr.Count(i) != 0 {
			t.Fatalf("recipe %d: expected 0 after re-init, got %d", i, tr.Count(i))
		}
	}
	for _, i := range []int{3, 4} {
		if tr.Count(i) != 0 {
			t.Fatalf("recipe %d: expected safe default 0, got %d", i, tr.Count(i))
		}
		if tr.IsComplete(i, 0) {
			t.Fatalf("recipe %d: expected safe default false", i)
		}
	}
}

func TestCountWithinIgnoresStaleSteps(t *testing.T) {
	tr := New(1)
	for step := 0; step < 6; step++ {
		tr.Toggle(0, step, 6)
	}

	if got := tr.Count(0); got != 6 {
		t.Fatalf("expected raw count 6, got %d", got)
	}
	if got := tr.CountWithin(0, 5); got != 5 {
		t.Fatalf("expected 5 steps within a 5-step list, got %d", got)
	}
	if got := tr.CountWithin(0, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestStepsSorted(t *testing.T) {
	tr := New(1)
	for _, step := range []int{4, 0, 2} {
		tr.Toggle(0, step, 5)
	}
	got := tr.Steps(0)
	want := []int{0, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestReset(t *testing.T) {
	tr := New(2)
	tr.Toggle(0, 0, 2)
	tr.Toggle(1, 0, 2)

	if !tr.Reset(0) {
		t.Fatal("expected reset of known recipe to succeed")
	}
	if tr.Count(0) != 0 {
		t.Fatalf("expected 0 after reset, got %d", tr.Count(0))
	}
	if tr.Count(1) != 1 {
		t.Fatalf("expected other recipe untouched, got %d", tr.Count(1))
	}
	if tr.Reset(7) {
		t.Fatal("expected reset of unknown recipe to fail")
	}
}

func TestRatioBounds(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{2, 4, 0.5},
		{4, 4, 1},
		{9, 4, 1},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.completed, tt.total); got != tt.want {
			t.Fatalf("Ratio(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestRandomTogglesStayBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New(4)

	for i := 0; i < 2000; i++ {
		recipe := rng.Intn(6) - 1
		total := rng.Intn(7)
		step := rng.Intn(8) - 1
		tr.Toggle(recipe, step, total)

		r := Ratio(tr.CountWithin(recipe, total), total)
		if r < 0 || r > 1 {
			t.Fatalf("ratio out of bounds: %v", r)
		}
		if total == 0 && r != 0 {
			t.Fatalf("expected 0 ratio for empty recipe, got %v", r)
		}
	}
}
