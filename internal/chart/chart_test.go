package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertdash/alertdash-server/internal/aggregate"
	"github.com/alertdash/alertdash-server/internal/domain"
)

func rows() []domain.Row {
	return []domain.Row{
		{Date: "2024-01-01", Subtype: "bot_message", Text: "disk full", DayOfWeek: "Monday", Hour: "09"},
		{Date: "2024-01-01", Subtype: "bot_message", Text: "disk full", DayOfWeek: "Monday", Hour: "09"},
		{Date: "2024-01-01", Subtype: "message", Text: "ack"},
		{Date: "2024-01-02", Subtype: "bot_message", Text: "cpu high", DayOfWeek: "Tuesday", Hour: "14"},
		{Date: "", Subtype: "message", Text: "undated"},
	}
}

func TestBar(t *testing.T) {
	svg, err := Bar(aggregate.CountBy(rows(), domain.FieldDate), Options{Title: "Alerts per date"})
	require.NoError(t, err)

	out := string(svg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Alerts per date")
}

func TestBar_SingleZeroSafeBar(t *testing.T) {
	table := aggregate.Table{
		Dimensions: []domain.Field{domain.FieldDate},
		Rows:       []aggregate.Count{{Keys: []string{"2024-01-01"}, Count: 0}},
	}
	_, err := Bar(table, Options{})
	assert.NoError(t, err)
}

func TestBar_Empty(t *testing.T) {
	_, err := Bar(aggregate.CountBy(nil, domain.FieldDate), Options{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBar_RejectsTwoDimensions(t *testing.T) {
	_, err := Bar(aggregate.Count2(rows(), domain.FieldDate, domain.FieldSubtype), Options{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestGrouped(t *testing.T) {
	svg, err := Grouped(aggregate.Activity(aggregate.Bots(rows())), Options{Title: "Bot messages by hour"})
	require.NoError(t, err)

	out := string(svg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Bot messages by hour")
}

func TestGrouped_NoTimedRows(t *testing.T) {
	untimed := []domain.Row{{Subtype: "bot_message", Text: "x"}}
	_, err := Grouped(aggregate.Activity(untimed), Options{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWeekdayLegend(t *testing.T) {
	legend := WeekdayLegend()
	require.Len(t, legend, 7)
	assert.Equal(t, "Monday", legend[0].Label)
	assert.Equal(t, "Sunday", legend[6].Label)
	assert.NotEmpty(t, legend[0].Color)
}

func TestWidthFor(t *testing.T) {
	assert.Equal(t, minWidth, widthFor(1))
	assert.Equal(t, maxWidth, widthFor(10000))
	assert.Greater(t, widthFor(20), minWidth)
}

func TestHeatmap(t *testing.T) {
	v, err := Heatmap(aggregate.Count2(rows(), domain.FieldDate, domain.FieldSubtype), "Density")
	require.NoError(t, err)

	assert.Equal(t, "Density", v.Title)
	assert.Equal(t, []string{EmptyLabel, "2024-01-01", "2024-01-02"}, v.Columns)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "bot_message", v.Rows[0].Label)

	top := v.Rows[0].Cells[1]
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, 1.0, top.Intensity)
	assert.Equal(t, 0.5, v.Rows[0].Cells[2].Intensity)
	assert.Zero(t, v.Rows[0].Cells[0].Count)
	assert.Equal(t, 5, v.Total)
	assert.Contains(t, string(v.Rows[0].Cells[0].Style()), "#f4f6f8")
	assert.Contains(t, string(top.Style()), "rgba(76, 120, 168, 1.00)")
}

func TestHeatmap_Empty(t *testing.T) {
	_, err := Heatmap(aggregate.Count2(nil, domain.FieldDate, domain.FieldSubtype), "")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHBars(t *testing.T) {
	v, err := HBars(aggregate.CountBy(aggregate.Bots(rows()), domain.FieldText), "Bot texts")
	require.NoError(t, err)

	require.Len(t, v.Items, 2)
	assert.Equal(t, HBarItem{Label: "disk full", Count: 2, Percent: 100}, v.Items[0])
	assert.Equal(t, 50.0, v.Items[1].Percent)
	assert.Equal(t, "width: 50.0%", string(v.Items[1].Style()))
	assert.Equal(t, 3, v.Total)
}

func TestHBars_Empty(t *testing.T) {
	_, err := HBars(aggregate.CountBy(nil, domain.FieldText), "")
	assert.ErrorIs(t, err, ErrNoData)
}
