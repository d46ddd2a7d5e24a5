// Package chart renders terminal charts for the dashboard. Charts are created
// once and refreshed in place through Update.
package chart

import "github.com/charmbracelet/lipgloss"

// Palette is the series colour cycle shared with the PNG renderer.
var Palette = []string{
	"#469bbc", "#8bc8d3", "#6bb65d", "#bcde85", "#e18731", "#f5ac91", "#ab6cc5",
	"#b4ace3", "#df5d99", "#dea1d1", "#4baa9f", "#96d1b4", "#ee7447", "#f4a3a0",
}

// ColorAt returns the palette colour for the i-th series, wrapping around.
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

func swatch(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAt(i)))
}
