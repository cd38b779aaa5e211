// Package aggregate groups flat rows into count tables.
package aggregate

import (
	"slices"
	"sort"
	"strings"

	"github.com/alertdash/alertdash-server/internal/domain"
)

// Count is one grouped tuple: the dimension values in table order plus the count.
type Count struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// Table holds grouped counts over one or two row fields, ordered by keys.
type Table struct {
	Dimensions []domain.Field `json:"dimensions"`
	Rows       []Count        `json:"rows"`
}

// Total returns the sum of all counts.
func (t Table) Total() int {
	n := 0
	for _, r := range t.Rows {
		n += r.Count
	}
	return n
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Lookup returns the count stored for keys, or 0.
func (t Table) Lookup(keys ...string) int {
	for _, r := range t.Rows {
		if slices.Equal(r.Keys, keys) {
			return r.Count
		}
	}
	return 0
}

// CountBy groups rows by field.
func CountBy(rows []domain.Row, field domain.Field) Table {
	return group(rows, field)
}

// Count2 groups rows by the pair (a, b).
func Count2(rows []domain.Row, a, b domain.Field) Table {
	return group(rows, a, b)
}

func group(rows []domain.Row, fields ...domain.Field) Table {
	counts := make(map[string]*Count)
	for _, row := range rows {
		keys := make([]string, len(fields))
		for i, f := range fields {
			keys[i] = row.Value(f)
		}
		id := strings.Join(keys, "\x00")
		c, ok := counts[id]
		if !ok {
			c = &Count{Keys: keys}
			counts[id] = c
		}
		c.Count++
	}

	t := Table{Dimensions: fields, Rows: make([]Count, 0, len(counts))}
	for _, c := range counts {
		t.Rows = append(t.Rows, *c)
	}
	sort.Slice(t.Rows, func(i, j int) bool { return lessKeys(t.Rows[i].Keys, t.Rows[j].Keys) })
	return t
}

// Filter keeps rows whose subtype is selected. An empty selection keeps every row.
func Filter(rows []domain.Row, subtypes []string) []domain.Row {
	if len(subtypes) == 0 {
		return rows
	}
	selected := make(map[string]struct{}, len(subtypes))
	for _, s := range subtypes {
		selected[s] = struct{}{}
	}

	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := selected[r.Subtype]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Subtypes returns the distinct subtype values of rows, sorted.
func Subtypes(rows []domain.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Subtype] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Bots returns the rows posted by bots.
func Bots(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, 0)
	for _, r := range rows {
		if r.Subtype == domain.BotMessageSubtype {
			out = append(out, r)
		}
	}
	return out
}

// BotMessage is one deduplicated bot message text.
type BotMessage struct {
	Text      string `json:"text"`
	Count     int    `json:"count"`
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Time      string `json:"time"`
}

// BotMessages deduplicates bot_message rows by text. Date fields come from the
// first occurrence. Results are ordered by count descending, then text.
func BotMessages(rows []domain.Row) []BotMessage {
	index := make(map[string]int)
	out := make([]BotMessage, 0)
	for _, r := range rows {
		if r.Subtype != domain.BotMessageSubtype {
			continue
		}
		if i, ok := index[r.Text]; ok {
			out[i].Count++
			continue
		}
		index[r.Text] = len(out)
		out = append(out, BotMessage{
			Text:      r.Text,
			Count:     1,
			Date:      r.Date,
			DayOfWeek: r.DayOfWeek,
			Time:      r.Time,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// Activity counts bot rows by weekday and hour. Rows without a derived hour are
// left out. Rows are ordered by hour, then weekday Monday first.
func Activity(rows []domain.Row) Table {
	timed := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if r.Hour != "" && r.DayOfWeek != "" {
			timed = append(timed, r)
		}
	}

	t := group(timed, domain.FieldHour, domain.FieldDayOfWeek)
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i].Keys, t.Rows[j].Keys
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return domain.WeekdayIndex(a[1]) < domain.WeekdayIndex(b[1])
	})
	return t
}

// FromSummaries builds the per-date record count table of the record-counts variant.
func FromSummaries(summaries []domain.FileSummary) Table {
	t := Table{Dimensions: []domain.Field{domain.FieldDate}, Rows: make([]Count, 0, len(summaries))}
	for _, s := range summaries {
		t.Rows = append(t.Rows, Count{Keys: []string{s.Date}, Count: s.RecordCount})
	}
	sort.SliceStable(t.Rows, func(i, j int) bool { return t.Rows[i].Keys[0] < t.Rows[j].Keys[0] })
	return t
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
