package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/rankview/internal/stats"
)

var eighths = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// Bar is one labelled bar.
type Bar struct {
	Label string
	Value float64
}

// BarChart draws horizontal bars scaled to the largest absolute value.
type BarChart struct {
	title   string
	bars    []Bar
	max     float64
	updates int
}

// NewBarChart creates an empty bar chart.
func NewBarChart(title string) *BarChart {
	return &BarChart{title: title}
}

// Update replaces the chart data, keeping the given bar order.
func (c *BarChart) Update(title string, bars []Bar) {
	c.title = title
	c.bars = append(c.bars[:0], bars...)
	c.max = 0
	for _, b := range c.bars {
		c.max = math.Max(c.max, math.Abs(b.Value))
	}
	c.updates++
}

// Updates reports how many times the chart data has been replaced.
func (c *BarChart) Updates() int {
	return c.updates
}

// Len returns the number of bars.
func (c *BarChart) Len() int {
	return len(c.bars)
}

// View renders every bar within width columns.
func (c *BarChart) View(width int) string {
	lines := []string{valueStyle.Bold(true).Render(c.title)}
	if len(c.bars) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("No data.")), "\n")
	}
	labelWidth := 0
	valueWidth := 0
	values := make([]string, len(c.bars))
	for i, b := range c.bars {
		labelWidth = maxInt(labelWidth, runewidth.StringWidth(b.Label))
		values[i] = stats.FormatNumber(b.Value, 0)
		valueWidth = maxInt(valueWidth, runewidth.StringWidth(values[i]))
	}
	barWidth := maxInt(minShareWidth, width-labelWidth-valueWidth-2)

	for i, b := range c.bars {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			labelStyle.Render(runewidth.FillLeft(b.Label, labelWidth)),
			swatch(0).Render(runewidth.FillRight(barCells(b.Value, c.max, barWidth), barWidth)),
			valueStyle.Render(runewidth.FillLeft(values[i], valueWidth)),
		))
	}
	return strings.Join(lines, "\n")
}

// barCells renders |v|/max of width cells using eighth blocks for the remainder.
func barCells(v, max float64, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	units := int(math.Round(math.Abs(v) / max * float64(width*8)))
	full, rest := units/8, units%8
	return strings.Repeat(shareBlock, full) + eighths[rest]
}
