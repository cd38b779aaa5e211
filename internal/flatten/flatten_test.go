package flatten

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/domain"
	apperrors "github.com/alertdash/alertdash-server/internal/errors"
)

func writeDayFile(t *testing.T, name, content string) archive.DayFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	df := archive.DayFile{Name: name, Path: path}
	if date, ok := archive.ParseDayName(name); ok {
		df.Date, df.HasDate = date, true
	}
	return df
}

func profile(t *testing.T, v domain.Variant) domain.Profile {
	t.Helper()
	p, ok := domain.LookupProfile(string(v))
	require.True(t, ok)
	return p
}

func TestFile_ExampleArchive(t *testing.T) {
	f := New(time.UTC)
	p := profile(t, domain.VariantBotActivity)

	first, err := f.File(writeDayFile(t, "2024-01-01.json",
		`[{"subtype":"bot_message","text":"hi","ts":"1704067200"}]`), p)
	require.NoError(t, err)
	second, err := f.File(writeDayFile(t, "2024-01-02.json", `[{"text":"hello"}]`), p)
	require.NoError(t, err)

	rows := append(first, second...)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.Row{
		FileName:    "2024-01-01.json",
		Date:        "2024-01-01",
		Subtype:     domain.BotMessageSubtype,
		DisplayName: domain.UnknownDisplayName,
		Text:        "hi",
		DayOfWeek:   "Monday",
		Time:        "00:00:00",
		Hour:        "00",
	}, rows[0])

	assert.Equal(t, domain.SubtypeMessage, rows[1].Subtype)
	assert.Equal(t, "hello", rows[1].Text)
	assert.Empty(t, rows[1].Date)
	assert.Empty(t, rows[1].DayOfWeek)
	assert.Empty(t, rows[1].Time)
	assert.Empty(t, rows[1].Hour)
}

func TestFile_RowCountMatchesRecords(t *testing.T) {
	f := New(time.UTC)
	df := writeDayFile(t, "general.json", `[{"subtype":"a"},{},7,{"text":""}]`)

	for _, v := range []domain.Variant{domain.VariantSubtypes, domain.VariantDisplayNames, domain.VariantBotTexts} {
		t.Run(string(v), func(t *testing.T) {
			rows, err := f.File(df, profile(t, v))
			require.NoError(t, err)
			assert.Len(t, rows, 4)
		})
	}
}

func TestFile_DropsEmptyTextOnlyWhenTimestampAware(t *testing.T) {
	f := New(time.UTC)
	df := writeDayFile(t, "2024-01-01.json", `[{"text":""},{"text":"kept"},{}]`)

	rows, err := f.File(df, profile(t, domain.VariantBotActivity))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0].Text)

	rows, err = f.File(df, profile(t, domain.VariantBotTexts))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestFile_SubtypeDefaultsPerVariant(t *testing.T) {
	f := New(time.UTC)
	df := writeDayFile(t, "2024-01-01.json", `[{},{"subtype":""},{"subtype":"bot_message"}]`)

	tests := []struct {
		variant domain.Variant
		want    []string
	}{
		{domain.VariantSubtypes, []string{"Unknown", "", "bot_message"}},
		{domain.VariantDisplayNames, []string{"Unknown", "", "bot_message"}},
		{domain.VariantSubtypesByDate, []string{"message", "message", "bot_message"}},
		{domain.VariantBotTexts, []string{"message", "message", "bot_message"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			rows, err := f.File(df, profile(t, tt.variant))
			require.NoError(t, err)

			got := make([]string, len(rows))
			for i, r := range rows {
				got[i] = r.Subtype
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFile_DateKeyedUsesFileName(t *testing.T) {
	f := New(time.UTC)
	rows, err := f.File(writeDayFile(t, "2024-03-05.json", `[{"ts":"1"}]`), profile(t, domain.VariantSubtypesByDate))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-05", rows[0].Date)
	assert.Empty(t, rows[0].Hour)
}

func TestFile_DisplayNameNormalized(t *testing.T) {
	f := New(time.UTC)
	// "e" followed by a combining acute accent.
	df := writeDayFile(t, "2024-01-01.json", `[{"user_profile":{"display_name":"Cafe\u0301"}}]`)

	rows, err := f.File(df, profile(t, domain.VariantDisplayNames))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Caf\u00e9", rows[0].DisplayName)
}

func TestFile_MalformedJSON(t *testing.T) {
	f := New(time.UTC)
	p := profile(t, domain.VariantSubtypes)

	for name, content := range map[string]string{
		"broken.json":   `[{"subtype":`,
		"object.json":   `{"subtype":"a"}`,
		"trailing.json": `[] []`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.File(writeDayFile(t, name, content), p)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrMalformedJSON))
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestSummary(t *testing.T) {
	f := New(time.UTC)

	s, err := f.Summary(writeDayFile(t, "2024-01-01.json", `[{},{},{"text":""}]`))
	require.NoError(t, err)
	assert.Equal(t, domain.FileSummary{FileName: "2024-01-01.json", Date: "2024-01-01", RecordCount: 3}, s)

	s, err = f.Summary(writeDayFile(t, "2024-01-02.json", `[]`))
	require.NoError(t, err)
	assert.Zero(t, s.RecordCount)
}

func TestDerive(t *testing.T) {
	f := New(time.UTC)

	date, weekday, clock, hour := f.Derive("1700000000")
	want := time.Unix(1700000000, 0).UTC()
	assert.Equal(t, want.Format("2006-01-02"), date)
	assert.Equal(t, want.Weekday().String(), weekday)
	assert.Equal(t, want.Format("15:04:05"), clock)
	assert.Equal(t, "22", hour)
	assert.Equal(t, "2023-11-14", date)
	assert.Equal(t, "Tuesday", weekday)
	assert.Equal(t, "22:13:20", clock)
}

func TestDerive_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	f := New(tokyo)

	date, weekday, clock, hour := f.Derive("1700000000")
	assert.Equal(t, "2023-11-15", date)
	assert.Equal(t, "Wednesday", weekday)
	assert.Equal(t, "07:13:20", clock)
	assert.Equal(t, "07", hour)
}

func TestDerive_MissingOrMalformed(t *testing.T) {
	f := New(time.UTC)

	for _, ts := range []string{"", "  ", "soon", "NaN", "Inf", "1.2.3", "1e30", "-1e30", "99999999999999"} {
		t.Run(ts, func(t *testing.T) {
			date, weekday, clock, hour := f.Derive(ts)
			assert.Empty(t, strings.Join([]string{date, weekday, clock, hour}, ""))
		})
	}
}

func TestParseEpoch_Range(t *testing.T) {
	ts, ok := ParseEpoch("253402300799")
	require.True(t, ok)
	assert.Equal(t, 9999, ts.UTC().Year())

	ts, ok = ParseEpoch("-62135596800")
	require.True(t, ok)
	assert.Equal(t, 1, ts.UTC().Year())

	_, ok = ParseEpoch("253402300800")
	assert.False(t, ok)
}

func TestParseEpoch_Fractional(t *testing.T) {
	ts, ok := ParseEpoch("1704067200.500000")
	require.True(t, ok)
	assert.Equal(t, int64(1704067200), ts.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(ts.Nanosecond()))
}

func TestNew_NilLocation(t *testing.T) {
	assert.Equal(t, time.Local, New(nil).Location())
}
