// Package render draws dashboard charts as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/rankview/internal/chart"
	"github.com/verte-zerg/rankview/internal/stats"
)

const (
	defaultWidth   = 1024
	defaultHeight  = 640
	defaultMaxBars = 40
	barWidth       = 18
	barSpacing     = 6
)

// ErrNoData is returned when nothing in the input can be drawn.
var ErrNoData = errors.New("nothing to render")

// Options sizes the rendered image.
type Options struct {
	Width   int
	Height  int
	MaxBars int
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

func (o Options) height() int {
	if o.Height <= 0 {
		return defaultHeight
	}
	return o.Height
}

func (o Options) maxBars() int {
	if o.MaxBars <= 0 {
		return defaultMaxBars
	}
	return o.MaxBars
}

// Languages draws a donut of the language shares. Languages with a
// non-positive value have no share and are left out.
func Languages(w io.Writer, title string, rows []stats.LanguageRow, opts Options) error {
	values := make([]gochart.Value, 0, len(rows))
	for _, row := range rows {
		if row.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: row.Language,
			Value: row.Value,
			Style: gochart.Style{
				FillColor:   fill(len(values)),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	donut := gochart.DonutChart{
		Title:  title,
		Width:  opts.width(),
		Height: opts.height(),
		Values: values,
	}
	if err := donut.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render language chart: %w", err)
	}
	return nil
}

// Characters draws one bar per character row, keeping the first MaxBars rows.
func Characters(w io.Writer, title string, rows []stats.CharRow, opts Options) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	if len(rows) > opts.maxBars() {
		rows = rows[:opts.maxBars()]
	}

	bars := make([]gochart.Value, len(rows))
	lo, hi := 0.0, 0.0
	for i, row := range rows {
		bars[i] = gochart.Value{
			Label: row.Label,
			Value: row.Value,
			Style: gochart.Style{
				FillColor:   fill(i),
				StrokeColor: fill(i),
				StrokeWidth: 1,
			},
		}
		lo = minFloat(lo, row.Value)
		hi = maxFloat(hi, row.Value)
	}
	if hi == lo {
		hi = lo + 1
	}

	width := opts.width()
	if needed := len(bars)*(barWidth+barSpacing) + 160; needed > width {
		width = needed
	}
	bc := gochart.BarChart{
		Title:      title,
		Width:      width,
		Height:     opts.height(),
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render character chart: %w", err)
	}
	return nil
}

// Trend draws the series as a line over its period labels.
func Trend(w io.Writer, title string, series []stats.TrendSeries, opts Options) error {
	n := 0
	for _, s := range series {
		n = maxInt(n, len(s.Values))
	}
	if n == 0 {
		return ErrNoData
	}

	ch := gochart.Chart{
		Title:  title,
		Width:  opts.width(),
		Height: opts.height(),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: gochart.XAxis{Ticks: periodTicks(series, n)},
	}

	lo, hi := 0.0, 0.0
	first := true
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		xs := make([]float64, len(s.Values))
		for j := range xs {
			xs[j] = float64(j)
		}
		for _, v := range s.Values {
			if first {
				lo, hi = v, v
				first = false
			}
			lo = minFloat(lo, v)
			hi = maxFloat(hi, v)
		}
		ch.Series = append(ch.Series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style: gochart.Style{
				StrokeColor: fill(i),
				StrokeWidth: 2,
				DotColor:    fill(i),
				DotWidth:    3,
			},
		})
	}
	if lo == hi {
		ch.YAxis.Range = &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if len(ch.Series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render trend chart: %w", err)
	}
	return nil
}

// WriteFile renders into a temporary file next to path and renames it into
// place, so a failed render never leaves a partial image behind.
func WriteFile(path string, draw func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create chart dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	tmpName := tmp.Name()
	if err := draw(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write chart file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move chart file: %w", err)
	}
	return nil
}

// periodTicks labels every x position with the period label of the longest
// series. A single period gets blank ticks on both sides to keep a non-zero range.
func periodTicks(series []stats.TrendSeries, n int) []gochart.Tick {
	var labels []string
	for _, s := range series {
		if len(s.Labels) == n {
			labels = s.Labels
			break
		}
	}
	ticks := make([]gochart.Tick, 0, n+2)
	if n == 1 {
		ticks = append(ticks, gochart.Tick{Value: -1})
	}
	for i := 0; i < n; i++ {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	if n == 1 {
		ticks = append(ticks, gochart.Tick{Value: 1})
	}
	return ticks
}

func fill(i int) drawing.Color {
	return drawing.ColorFromHex(chart.ColorAt(i))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
