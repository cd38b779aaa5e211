package chart

import (
	"fmt"
	"html/template"
	"math"

	"github.com/alertdash/alertdash-server/internal/aggregate"
)

// HeatmapCell is one coloured cell of a heatmap.
type HeatmapCell struct {
	Count int
	// Intensity is Count scaled to 0..1 against the largest cell.
	Intensity float64
}

// Style returns the inline CSS for the cell background.
func (c HeatmapCell) Style() template.CSS {
	if c.Count == 0 {
		return template.CSS("background-color: #f4f6f8")
	}
	// Lighten towards white at low intensity; keep a floor so single hits stay visible.
	alpha := 0.15 + 0.85*c.Intensity
	return template.CSS(fmt.Sprintf("background-color: rgba(76, 120, 168, %.2f); color: %s", alpha, textColor(c.Intensity)))
}

// HeatmapRow is one Y value with a cell per X value.
type HeatmapRow struct {
	Label string
	Cells []HeatmapCell
}

// HeatmapView is a density heatmap ready for an HTML template.
type HeatmapView struct {
	Title   string
	XLabel  string
	YLabel  string
	Columns []string
	Rows    []HeatmapRow
	Max     int
	Total   int
}

// Heatmap builds a heatmap view from a two-key table. X is the first key.
func Heatmap(t aggregate.Table, title string) (HeatmapView, error) {
	m, err := aggregate.NewMatrix(t)
	if err != nil {
		return HeatmapView{}, err
	}
	if m.Total == 0 {
		return HeatmapView{}, ErrNoData
	}

	v := HeatmapView{
		Title:   title,
		XLabel:  m.XLabel,
		YLabel:  m.YLabel,
		Columns: make([]string, len(m.X)),
		Rows:    make([]HeatmapRow, len(m.Y)),
		Max:     m.Max,
		Total:   m.Total,
	}
	for i, x := range m.X {
		v.Columns[i] = axisLabel(x)
	}
	for y, label := range m.Y {
		row := HeatmapRow{Label: axisLabel(label), Cells: make([]HeatmapCell, len(m.X))}
		for x := range m.X {
			n := m.At(x, y)
			row.Cells[x] = HeatmapCell{Count: n, Intensity: intensity(n, m.Max)}
		}
		v.Rows[y] = row
	}
	return v, nil
}

func intensity(n, maxCount int) float64 {
	if maxCount <= 0 || n <= 0 {
		return 0
	}
	return math.Round(float64(n)/float64(maxCount)*100) / 100
}

func textColor(intensity float64) string {
	if intensity > 0.6 {
		return "#ffffff"
	}
	return "#1f2933"
}
