package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"

	"github.com/piwi3910/LoadPlan/internal/app"
	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestActionLabel(t *testing.T) {
	tests := []struct {
		action app.Action
		state  app.ActionState
		want   string
	}{
		{app.ActionRun, app.StateIdle, "Run"},
		{app.ActionRun, app.StatePending, app.RunningText},
		{app.ActionRun, app.StateFailed, "Run"},
		{app.ActionOptimize, app.StatePending, app.OptimizingText},
		{app.ActionOptimize, app.StateSucceeded, "Optimize"},
		{app.ActionHealth, app.StatePending, "Checking…"},
		{app.ActionReport, app.StateIdle, "Report"},
	}
	for _, tt := range tests {
		if got := actionLabel(tt.action, tt.state); got != tt.want {
			t.Errorf("actionLabel(%v, %v) = %q, want %q", tt.action, tt.state, got, tt.want)
		}
	}
}

func TestActionLabel_UnknownActionUsesName(t *testing.T) {
	if got := actionLabel(app.ActionImport, app.StatePending); got != app.ActionImport.String() {
		t.Errorf("expected action name, got %q", got)
	}
}

func TestThemeVariant(t *testing.T) {
	if v, system := themeVariant("light"); v != theme.VariantLight || system {
		t.Errorf("light: got variant %v system %v", v, system)
	}
	if v, system := themeVariant("dark"); v != theme.VariantDark || system {
		t.Errorf("dark: got variant %v system %v", v, system)
	}
	for _, name := range []string{"system", "", "neon"} {
		if _, system := themeVariant(name); !system {
			t.Errorf("%q: expected the system variant", name)
		}
	}
}

func TestLoadPlanThemeSizes(t *testing.T) {
	th := NewLoadPlanTheme("dark")
	if got := th.Size(theme.SizeNameText); got != 12 {
		t.Errorf("expected compact text size 12, got %v", got)
	}
	if got := th.Size(theme.SizeNamePadding); got != 3 {
		t.Errorf("expected padding 3, got %v", got)
	}
}

func TestExportName(t *testing.T) {
	plan := &model.LastPlan{Inputs: model.DefaultInputs()}
	if got := exportName(plan, "plan", ".pdf"); got != "20_HC-plan.pdf" {
		t.Errorf("unexpected name %q", got)
	}

	plan.Result.ContainerID = "40/HC"
	if got := exportName(plan, "floor", ".dxf"); got != "40_HC-floor.dxf" {
		t.Errorf("unexpected name %q", got)
	}

	plan = &model.LastPlan{}
	if got := exportName(plan, "labels", ".pdf"); got != "plan-labels.pdf" {
		t.Errorf("unexpected name %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := sanitizeFileName(`a b/c\d:e*f?g"h<i>j|k`); got != "a_b_c_d_e_f_g_h_i_j_k" {
		t.Errorf("unexpected %q", got)
	}
}
