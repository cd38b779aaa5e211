package chart

import (
	"fmt"
	"html/template"
	"sort"

	"github.com/alertdash/alertdash-server/internal/aggregate"
)

// HBarItem is one horizontal bar.
type HBarItem struct {
	Label string
	Count int
	// Percent is the bar length relative to the longest bar.
	Percent float64
}

// Style returns the inline CSS width of the bar.
func (b HBarItem) Style() template.CSS {
	return template.CSS(fmt.Sprintf("width: %.1f%%", b.Percent))
}

// HBarView is a horizontal bar chart ready for an HTML template.
type HBarView struct {
	Title string
	Items []HBarItem
	Total int
}

// HBars builds a horizontal bar chart from a one-key table, longest bar first.
func HBars(t aggregate.Table, title string) (HBarView, error) {
	if len(t.Dimensions) != 1 {
		return HBarView{}, fmt.Errorf("horizontal bar needs a one-dimensional table, got %d dimensions", len(t.Dimensions))
	}
	if t.Total() == 0 {
		return HBarView{}, ErrNoData
	}

	rows := make([]aggregate.Count, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })

	maxCount := rows[0].Count
	v := HBarView{Title: title, Items: make([]HBarItem, 0, len(rows)), Total: t.Total()}
	for _, r := range rows {
		v.Items = append(v.Items, HBarItem{
			Label:   axisLabel(r.Keys[0]),
			Count:   r.Count,
			Percent: float64(r.Count) / float64(maxCount) * 100,
		})
	}
	return v, nil
}
