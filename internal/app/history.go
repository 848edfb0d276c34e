package app

import "github.com/piwi3910/LoadPlan/internal/model"

const defaultMaxRuns = 50

// RunHistory keeps the most recent applied plans and a cursor into them,
// so earlier runs can be restored without contacting the backend again.
type RunHistory struct {
	runs    []model.LastPlan
	cursor  int // index of the plan on screen; -1 when empty
	maxRuns int
}

// NewRunHistory creates a RunHistory holding at most 50 runs.
func NewRunHistory() *RunHistory {
	return &RunHistory{
		cursor:  -1,
		maxRuns: defaultMaxRuns,
	}
}

// Push appends a newly applied plan and moves the cursor to it. The oldest
// run is dropped once the history is full.
func (h *RunHistory) Push(p model.LastPlan) {
	h.runs = append(h.runs, copyPlan(p))
	if len(h.runs) > h.maxRuns {
		h.runs = h.runs[len(h.runs)-h.maxRuns:]
	}
	h.cursor = len(h.runs) - 1
}

// Previous moves the cursor one run back. Returns the plan to restore and
// true, or an empty plan and false when already at the oldest run.
func (h *RunHistory) Previous() (model.LastPlan, bool) {
	if !h.CanPrevious() {
		return model.LastPlan{}, false
	}
	h.cursor--
	return copyPlan(h.runs[h.cursor]), true
}

// Next moves the cursor one run forward. Returns the plan to restore and
// true, or an empty plan and false when already at the newest run.
func (h *RunHistory) Next() (model.LastPlan, bool) {
	if !h.CanNext() {
		return model.LastPlan{}, false
	}
	h.cursor++
	return copyPlan(h.runs[h.cursor]), true
}

// CanPrevious returns true if there is an older run than the current one.
func (h *RunHistory) CanPrevious() bool {
	return h.cursor > 0
}

// CanNext returns true if there is a newer run than the current one.
func (h *RunHistory) CanNext() bool {
	return h.cursor >= 0 && h.cursor < len(h.runs)-1
}

// Len returns the number of stored runs.
func (h *RunHistory) Len() int {
	return len(h.runs)
}

// Runs returns copies of the stored runs, oldest first.
func (h *RunHistory) Runs() []model.LastPlan {
	out := make([]model.LastPlan, len(h.runs))
	for i, r := range h.runs {
		out[i] = copyPlan(r)
	}
	return out
}

// Replace swaps in runs, e.g. after importing a backup, and points the
// cursor at the newest.
func (h *RunHistory) Replace(runs []model.LastPlan) {
	h.runs = nil
	for _, r := range runs {
		h.Push(r)
	}
	if len(h.runs) == 0 {
		h.cursor = -1
	}
}

// Clear removes all runs.
func (h *RunHistory) Clear() {
	h.runs = nil
	h.cursor = -1
}

// copyPlan returns a deep copy of a plan's slices so callers cannot alias
// stored history.
func copyPlan(p model.LastPlan) model.LastPlan {
	cp := p
	r := &cp.Result
	r.Placements = append([]model.Placement(nil), p.Result.Placements...)
	if p.Result.NotPlaced != nil {
		r.NotPlaced = append([]model.NotPlaced(nil), p.Result.NotPlaced...)
	}
	if p.Result.CargoSummary != nil {
		r.CargoSummary = append([]model.CargoSummary{}, p.Result.CargoSummary...)
	}
	if p.Result.Exceptions != nil {
		r.Exceptions = append([]string(nil), p.Result.Exceptions...)
	}
	if p.Result.Container != nil {
		ct := *p.Result.Container
		r.Container = &ct
	}
	return cp
}
