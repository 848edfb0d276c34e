package widgets

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func floorPlan() model.LastPlan {
	return model.LastPlan{
		Inputs: model.Inputs{
			Container: model.Container{ID: "T", Length: 1000, Width: 1000, Height: 1000},
			Item:      model.CargoItem{Family: "A"},
		},
		Result: model.PlanResult{
			Placements: []model.Placement{
				{Length: 500, Width: 500, Height: 400},
				{Length: 500, Width: 500, Height: 400, Family: "B"},
				{Length: 500, Width: 500, Height: 200},
			},
		},
	}
}

func TestBuildFamilyBreakdown(t *testing.T) {
	lines := buildFamilyBreakdown(floorPlan())
	if len(lines) != 2 {
		t.Fatalf("expected 2 families, got %d: %v", len(lines), lines)
	}
	if lines[0] != "  A: 2 placed, 15.0% of volume" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "  B: 1 placed, 10.0% of volume" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestBuildFamilyBreakdown_NoFamily(t *testing.T) {
	plan := floorPlan()
	plan.Inputs.Item.Family = ""
	plan.Result.Placements = plan.Result.Placements[:1]
	lines := buildFamilyBreakdown(plan)
	if len(lines) != 1 || lines[0] != "  (none): 1 placed, 10.0% of volume" {
		t.Errorf("unexpected lines %v", lines)
	}
}

func TestBuildFamilyBreakdown_PrefersEchoedContainer(t *testing.T) {
	plan := floorPlan()
	plan.Result.Container = &model.Container{Length: 2000, Width: 1000, Height: 1000}
	lines := buildFamilyBreakdown(plan)
	if lines[1] != "  B: 1 placed, 5.0% of volume" {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestFamilyOf(t *testing.T) {
	plan := floorPlan()
	if got := familyOf(plan.Result.Placements[0], plan); got != "A" {
		t.Errorf("expected item family fallback, got %q", got)
	}
	if got := familyOf(plan.Result.Placements[1], plan); got != "B" {
		t.Errorf("expected placement family, got %q", got)
	}
}
