// Package flatten projects day file alert records into flat rows.
package flatten

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/domain"
	apperrors "github.com/alertdash/alertdash-server/internal/errors"
)

// Layouts of the derived timestamp columns.
const (
	TimeLayout = "15:04:05"
	HourLayout = "15"
)

// maxEpochSeconds is 9999-12-31T23:59:59Z. Larger magnitudes are not timestamps.
const maxEpochSeconds = 253402300799

// Flattener converts alert records using a fixed time zone for ts derivation.
type Flattener struct {
	loc *time.Location
}

// New creates a Flattener. A nil location means time.Local.
func New(loc *time.Location) *Flattener {
	if loc == nil {
		loc = time.Local
	}
	return &Flattener{loc: loc}
}

// Location returns the zone timestamps are broken down in.
func (f *Flattener) Location() *time.Location {
	return f.loc
}

// File reads one day file and flattens its records under profile p.
func (f *Flattener) File(df archive.DayFile, p domain.Profile) ([]domain.Row, error) {
	records, err := readRecords(df)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Row, 0, len(records))
	for _, rec := range records {
		row, keep := f.Row(df, rec, p)
		if keep {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Summary counts the records of one day file without flattening them.
func (f *Flattener) Summary(df archive.DayFile) (domain.FileSummary, error) {
	records, err := readRecords(df)
	if err != nil {
		return domain.FileSummary{}, err
	}
	return domain.FileSummary{
		FileName:    df.Name,
		Date:        df.DateString(),
		RecordCount: len(records),
	}, nil
}

// Row projects a single record. The second result is false when p drops the record.
func (f *Flattener) Row(df archive.DayFile, rec domain.Record, p domain.Profile) (domain.Row, bool) {
	raw, present := rec.Subtype()
	row := domain.Row{
		FileName:    df.Name,
		Subtype:     p.ResolveSubtype(raw, present),
		DisplayName: norm.NFC.String(rec.DisplayName()),
		Text:        rec.Text(),
	}

	if p.DateKeyed {
		row.Date = df.DateString()
	}
	if p.DeriveTime {
		ts, _ := rec.Timestamp()
		row.Date, row.DayOfWeek, row.Time, row.Hour = f.Derive(ts)
	}

	if p.DropEmptyText && row.Text == "" {
		return domain.Row{}, false
	}
	return row, true
}

// Derive breaks an epoch seconds string into date, weekday name, time of day and
// zero-padded hour. Missing or malformed input yields four empty strings.
func (f *Flattener) Derive(ts string) (date, weekday, clock, hour string) {
	t, ok := ParseEpoch(ts)
	if !ok {
		return "", "", "", ""
	}
	t = t.In(f.loc)
	return t.Format(archive.DateLayout), t.Weekday().String(), t.Format(TimeLayout), t.Format(HourLayout)
}

// ParseEpoch parses fractional epoch seconds such as "1704067200.000200".
func ParseEpoch(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxEpochSeconds {
		return time.Time{}, false
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))), true
}

// readRecords decodes the JSON array of a day file. Elements that are not objects
// become empty records so the row count still matches the array length.
func readRecords(df archive.DayFile) ([]domain.Record, error) {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", df.Name, err)
	}
	return DecodeRecords(df.Name, bytes.NewReader(data))
}

// DecodeRecords decodes a JSON array of alert records from r.
func DecodeRecords(name string, r io.Reader) ([]domain.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.CodeMalformedJSON, "parse %s", name)
	}
	if dec.More() {
		return nil, apperrors.Wrapf(nil, apperrors.CodeMalformedJSON, "parse %s: trailing data after array", name)
	}

	records := make([]domain.Record, len(elems))
	for i, e := range elems {
		if obj, ok := e.(map[string]any); ok {
			records[i] = domain.Record(obj)
		} else {
			records[i] = domain.Record{}
		}
	}
	return records, nil
}
