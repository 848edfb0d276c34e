package app

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func planWith(runID string, n int) model.LastPlan {
	ps := make([]model.Placement, n)
	for i := range ps {
		ps[i] = model.Placement{X: float64(i), Length: 1, Width: 1, Height: 1}
	}
	return model.LastPlan{RunID: runID, Result: model.PlanResult{Placements: ps}}
}

func TestNewRunHistory(t *testing.T) {
	h := NewRunHistory()
	if h.maxRuns != defaultMaxRuns {
		t.Errorf("expected maxRuns %d, got %d", defaultMaxRuns, h.maxRuns)
	}
	if h.CanPrevious() {
		t.Error("new history should have no previous run")
	}
	if h.CanNext() {
		t.Error("new history should have no next run")
	}
}

func TestPushAndPrevious(t *testing.T) {
	h := NewRunHistory()
	h.Push(planWith("r1", 1))
	if h.CanPrevious() {
		t.Fatal("a single run has nothing before it")
	}

	h.Push(planWith("r2", 2))
	if !h.CanPrevious() {
		t.Fatal("should be able to go back after two pushes")
	}

	restored, ok := h.Previous()
	if !ok {
		t.Fatal("previous should succeed")
	}
	if restored.RunID != "r1" {
		t.Errorf("expected run r1, got %q", restored.RunID)
	}
	if !h.CanNext() {
		t.Error("should be able to go forward again")
	}
}

func TestPreviousNext(t *testing.T) {
	h := NewRunHistory()
	for _, id := range []string{"a", "b", "c"} {
		h.Push(planWith(id, 1))
	}

	h.Previous()
	h.Previous()
	if _, ok := h.Previous(); ok {
		t.Error("previous past the oldest run should fail")
	}

	next, ok := h.Next()
	if !ok || next.RunID != "b" {
		t.Errorf("expected run b, got %q (ok=%v)", next.RunID, ok)
	}
}

func TestPushMovesCursorToNewest(t *testing.T) {
	h := NewRunHistory()
	h.Push(planWith("a", 1))
	h.Push(planWith("b", 1))
	h.Previous()

	h.Push(planWith("c", 1))
	if h.CanNext() {
		t.Error("cursor should be at the newest run after push")
	}
	if h.Len() != 3 {
		t.Errorf("expected all 3 runs kept, got %d", h.Len())
	}
}

func TestMaxRuns(t *testing.T) {
	h := &RunHistory{cursor: -1, maxRuns: 3}

	for i := 0; i < 5; i++ {
		h.Push(planWith(string(rune('a'+i)), 1))
	}

	if h.Len() != 3 {
		t.Errorf("expected 3 runs, got %d", h.Len())
	}
	if h.Runs()[0].RunID != "c" {
		t.Errorf("expected oldest kept run c, got %q", h.Runs()[0].RunID)
	}
}

func TestNextEmpty(t *testing.T) {
	h := NewRunHistory()
	if _, ok := h.Next(); ok {
		t.Error("next on empty history should return false")
	}
	if _, ok := h.Previous(); ok {
		t.Error("previous on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewRunHistory()
	h.Push(planWith("a", 1))
	h.Push(planWith("b", 1))
	h.Previous()

	h.Clear()
	if h.CanPrevious() || h.CanNext() || h.Len() != 0 {
		t.Error("after clear, history should be empty")
	}
}

func TestReplace(t *testing.T) {
	h := NewRunHistory()
	h.Push(planWith("old", 1))

	h.Replace([]model.LastPlan{planWith("x", 1), planWith("y", 1)})
	if h.Len() != 2 || !h.CanPrevious() || h.CanNext() {
		t.Errorf("unexpected history after replace: len %d", h.Len())
	}

	h.Replace(nil)
	if h.Len() != 0 || h.CanPrevious() {
		t.Error("replacing with nothing should empty the history")
	}
}

func TestDeepCopyPlacements(t *testing.T) {
	original := planWith("a", 2)
	h := NewRunHistory()
	h.Push(original)

	original.Result.Placements[0].X = 999

	if h.Runs()[0].Result.Placements[0].X != 0 {
		t.Error("stored run should be independent of the pushed plan")
	}

	out := h.Runs()
	out[0].Result.Placements[1].X = 999
	if h.Runs()[0].Result.Placements[1].X != 1 {
		t.Error("returned runs should not alias stored history")
	}
}

func TestCopyPlanKeepsEmptyCargoSummary(t *testing.T) {
	p := planWith("a", 3)
	p.Result.CargoSummary = []model.CargoSummary{}

	cp := copyPlan(p)
	if cp.Result.CargoSummary == nil {
		t.Fatal("an empty cargo summary must stay non-nil")
	}
	if cp.Result.LoadedCount() != 0 {
		t.Errorf("expected loaded count 0 from the empty summary, got %d", cp.Result.LoadedCount())
	}
}
