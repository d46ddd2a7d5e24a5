package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/rankview/internal/stats"
)

const (
	shareBlock    = "█"
	minShareWidth = 10
)

// Slice is one labelled value of a share chart.
type Slice struct {
	Label string
	Value float64
}

// ShareChart shows each slice's portion of the positive total as a bar,
// the terminal stand-in for a doughnut chart.
type ShareChart struct {
	title   string
	slices  []Slice
	total   float64
	updates int
}

// NewShareChart creates an empty share chart.
func NewShareChart(title string) *ShareChart {
	return &ShareChart{title: title}
}

// Update replaces the chart data. Negative values are listed but take no share.
func (c *ShareChart) Update(title string, slices []Slice) {
	c.title = title
	c.slices = append(c.slices[:0], slices...)
	c.total = 0
	for _, s := range c.slices {
		c.total += math.Max(s.Value, 0)
	}
	c.updates++
}

// Updates reports how many times the chart data has been replaced.
func (c *ShareChart) Updates() int {
	return c.updates
}

// Share returns the i-th slice's fraction of the positive total.
func (c *ShareChart) Share(i int) float64 {
	if i < 0 || i >= len(c.slices) || c.total == 0 {
		return 0
	}
	return math.Max(c.slices[i].Value, 0) / c.total
}

// View renders the chart within width columns.
func (c *ShareChart) View(width int) string {
	lines := []string{valueStyle.Bold(true).Render(c.title)}
	if len(c.slices) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("No data.")), "\n")
	}
	labelWidth := 0
	for _, s := range c.slices {
		labelWidth = maxInt(labelWidth, runewidth.StringWidth(s.Label))
	}
	labelWidth = minInt(labelWidth, maxInt(8, width/4))

	values := make([]string, len(c.slices))
	valueWidth := 0
	for i, s := range c.slices {
		values[i] = fmt.Sprintf("%s %5.1f%%", stats.FormatNumber(s.Value, valueDigits(s.Value)), c.Share(i)*100)
		valueWidth = maxInt(valueWidth, runewidth.StringWidth(values[i]))
	}
	barWidth := maxInt(minShareWidth, width-labelWidth-valueWidth-4)

	for i, s := range c.slices {
		label := runewidth.FillRight(runewidth.Truncate(s.Label, labelWidth, "…"), labelWidth)
		filled := int(math.Round(c.Share(i) * float64(barWidth)))
		bar := swatch(i).Render(strings.Repeat(shareBlock, filled)) + strings.Repeat(" ", barWidth-filled)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			swatch(i).Render("●")+" "+labelStyle.Render(label),
			bar,
			valueStyle.Render(runewidth.FillLeft(values[i], valueWidth)),
		))
	}
	return strings.Join(lines, "\n")
}

func valueDigits(v float64) int {
	switch {
	case v == math.Trunc(v):
		return 0
	case math.Abs(v) < 1:
		return 4
	default:
		return 2
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
