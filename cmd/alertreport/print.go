package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alertdash/alertdash-server/internal/aggregate"
	"github.com/alertdash/alertdash-server/internal/chart"
	"github.com/alertdash/alertdash-server/internal/domain"
	"github.com/alertdash/alertdash-server/internal/report"
)

func printReport(w io.Writer, rep *report.Report, rowLimit int) error {
	p := rep.Profile

	fmt.Fprintf(w, "%s (%s)\n", p.Title, p.Variant)
	fmt.Fprintf(w, "files: %d  rows: %d  skipped: %d  run: %s\n", len(rep.Files), rep.RowCount, len(rep.Skipped), rep.RunID)
	if len(rep.Subtypes) > 0 {
		fmt.Fprintf(w, "subtypes: %s\n", strings.Join(rep.Subtypes, ", "))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	section(tw, p.Primary.Label()+" counts")
	printTable(tw, rep.Primary)

	if rep.Heatmap != nil {
		section(tw, p.HeatmapY.Label()+" by "+p.HeatmapX.Label())
		printTable(tw, *rep.Heatmap)
	}
	if rep.BotTexts != nil {
		section(tw, "Bot message texts")
		printTable(tw, *rep.BotTexts)
	}
	if p.BotActivity {
		section(tw, "Bot messages")
		fmt.Fprintln(tw, "TEXT\tCOUNT\tDATE\tDAY\tTIME")
		for _, m := range rep.BotMessages {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", cell(m.Text), m.Count, cell(m.Date), cell(m.DayOfWeek), cell(m.Time))
		}
		if rep.Activity != nil {
			section(tw, "Bot activity by hour and weekday")
			printTable(tw, *rep.Activity)
		}
	}

	if p.PerFileSummary {
		section(tw, "Files")
		fmt.Fprintln(tw, "FILE\tDATE\tRECORDS")
		for _, s := range rep.Summaries {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", s.FileName, s.Date, s.RecordCount)
		}
	} else if rowLimit > 0 {
		section(tw, "Rows")
		printRows(tw, rep.Rows, p.RowFields(), rowLimit)
	}

	return tw.Flush()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
}

func printTable(w io.Writer, t aggregate.Table) {
	if t.Empty() {
		fmt.Fprintln(w, "(no data)")
		return
	}
	header := make([]string, 0, len(t.Dimensions)+1)
	for _, d := range t.Dimensions {
		header = append(header, strings.ToUpper(d.Label()))
	}
	fmt.Fprintln(w, strings.Join(append(header, "COUNT"), "\t"))

	for _, r := range t.Rows {
		cols := make([]string, 0, len(r.Keys)+1)
		for _, k := range r.Keys {
			cols = append(cols, cell(k))
		}
		fmt.Fprintln(w, strings.Join(append(cols, strconv.Itoa(r.Count)), "\t"))
	}
}

func printRows(w io.Writer, rows []domain.Row, cols []domain.Field, limit int) {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c.Label())
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i, r := range rows {
		if i == limit {
			fmt.Fprintf(w, "... %d more\n", len(rows)-limit)
			break
		}
		vals := make([]string, len(cols))
		for j, c := range cols {
			vals[j] = cell(r.Value(c))
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
}

// cell keeps tabs and newlines in alert text from breaking the columns.
func cell(v string) string {
	if v == "" {
		return chart.EmptyLabel
	}
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(v)
}
