// Package chart renders aggregated tables as SVG charts and HTML views.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/alertdash/alertdash-server/internal/aggregate"
	"github.com/alertdash/alertdash-server/internal/domain"
)

// ErrNoData is returned when a table has nothing to draw.
var ErrNoData = errors.New("chart: no data")

// Chart size limits in pixels.
const (
	defaultHeight = 420
	minWidth      = 480
	maxWidth      = 4000
	barWidth      = 36
	barSpacing    = 12
)

// EmptyLabel replaces blank dimension values on axes.
const EmptyLabel = "(none)"

var (
	barColor = drawing.ColorFromHex("4c78a8")

	// Monday first, matching domain.Weekdays.
	weekdayColors = []drawing.Color{
		drawing.ColorFromHex("4c78a8"),
		drawing.ColorFromHex("f58518"),
		drawing.ColorFromHex("e45756"),
		drawing.ColorFromHex("72b7b2"),
		drawing.ColorFromHex("54a24b"),
		drawing.ColorFromHex("eeca3b"),
		drawing.ColorFromHex("b279a2"),
	}
)

// Options controls chart labelling.
type Options struct {
	Title  string
	YLabel string
	Height int
}

func (o Options) height() int {
	if o.Height > 0 {
		return o.Height
	}
	return defaultHeight
}

// Bar renders a one-dimensional table as an SVG bar chart, one bar per key.
func Bar(t aggregate.Table, opts Options) ([]byte, error) {
	if len(t.Dimensions) != 1 {
		return nil, fmt.Errorf("bar chart needs a one-dimensional table, got %d dimensions", len(t.Dimensions))
	}
	if t.Empty() {
		return nil, ErrNoData
	}

	bars := make([]gochart.Value, 0, len(t.Rows))
	maxCount := 0
	for _, r := range t.Rows {
		bars = append(bars, gochart.Value{
			Label: axisLabel(r.Keys[0]),
			Value: float64(r.Count),
			Style: gochart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		maxCount = max(maxCount, r.Count)
	}

	yLabel := opts.YLabel
	if yLabel == "" {
		yLabel = "count"
	}

	bc := gochart.BarChart{
		Title:      opts.Title,
		Width:      widthFor(len(bars)),
		Height:     opts.height(),
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Name:  yLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Grouped renders an hour x weekday table (see aggregate.Activity) as a stacked
// bar per hour with one segment per weekday.
func Grouped(t aggregate.Table, opts Options) ([]byte, error) {
	if len(t.Dimensions) != 2 {
		return nil, fmt.Errorf("grouped chart needs a two-dimensional table, got %d dimensions", len(t.Dimensions))
	}

	order := make([]string, 0)
	byHour := make(map[string][]int)
	for _, r := range t.Rows {
		day := domain.WeekdayIndex(r.Keys[1])
		if day < 0 || r.Count == 0 {
			continue
		}
		counts, ok := byHour[r.Keys[0]]
		if !ok {
			counts = make([]int, len(domain.Weekdays))
			byHour[r.Keys[0]] = counts
			order = append(order, r.Keys[0])
		}
		counts[day] += r.Count
	}
	if len(order) == 0 {
		return nil, ErrNoData
	}

	bars := make([]gochart.StackedBar, 0, len(order))
	for _, hour := range order {
		values := make([]gochart.Value, 0, len(domain.Weekdays))
		for day, n := range byHour[hour] {
			if n == 0 {
				continue
			}
			color := weekdayColors[day]
			values = append(values, gochart.Value{
				Label: domain.Weekdays[day],
				Value: float64(n),
				Style: gochart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars = append(bars, gochart.StackedBar{Name: hour, Values: values})
	}

	sbc := gochart.StackedBarChart{
		Title:      opts.Title,
		Width:      widthFor(len(bars)),
		Height:     opts.height(),
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := sbc.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render grouped chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Legend is one weekday colour swatch of the grouped chart.
type Legend struct {
	Label string
	Color string
}

// Style returns the inline CSS custom property carrying the swatch colour.
func (l Legend) Style() template.CSS {
	return template.CSS("--c: " + l.Color)
}

// WeekdayLegend returns the segment colours used by Grouped.
func WeekdayLegend() []Legend {
	out := make([]Legend, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		out[i] = Legend{Label: d, Color: weekdayColors[i].String()}
	}
	return out
}

func widthFor(bars int) int {
	w := 120 + bars*(barWidth+barSpacing)
	return min(max(w, minWidth), maxWidth)
}

func axisLabel(v string) string {
	if v == "" {
		return EmptyLabel
	}
	return v
}
