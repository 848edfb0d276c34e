// Package ui provides the LoadPlan application UI components.
//
// This file defines a compact Fyne theme for a dense planning layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LoadPlanTheme wraps the default Fyne theme with compact sizing overrides
// so the form and the 3D view fit side by side.
type LoadPlanTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewLoadPlanTheme creates a theme for the configured name: "light", "dark"
// or anything else for the system variant.
func NewLoadPlanTheme(name string) *LoadPlanTheme {
	t := &LoadPlanTheme{base: theme.DefaultTheme()}
	t.SetVariantName(name)
	return t
}

// SetVariantName updates the variant from a config theme name.
func (t *LoadPlanTheme) SetVariantName(name string) {
	t.variant, t.system = themeVariant(name)
}

// themeVariant maps a config theme name to a Fyne variant. The second
// result is true when the system variant should be followed.
func themeVariant(name string) (fyne.ThemeVariant, bool) {
	switch name {
	case "light":
		return theme.VariantLight, false
	case "dark":
		return theme.VariantDark, false
	}
	return theme.VariantDark, true
}

// Color delegates to the base theme, forcing the stored variant unless the
// system one is followed.
func (t *LoadPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *LoadPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *LoadPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *LoadPlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
