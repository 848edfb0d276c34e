// Package ui provides the LoadPlan application UI components.
//
// This file provides tooltip-enabled button helpers using the fyne-tooltip library.

package ui

import (
	"fyne.io/fyne/v2"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a tooltip that appears on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// newButtonWithTooltip creates a labelled button with a hover tooltip.
func newButtonWithTooltip(label, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButton(label, tapped)
	btn.SetToolTip(tooltip)
	return btn
}
