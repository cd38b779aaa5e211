package domain

import "time"

// Field names a flat row column that tables can be grouped by.
type Field string

// Row columns.
const (
	FieldFileName    Field = "file_name"
	FieldDate        Field = "date"
	FieldSubtype     Field = "subtype"
	FieldDisplayName Field = "display_name"
	FieldText        Field = "text"
	FieldDayOfWeek   Field = "day_of_week"
	FieldTime        Field = "time"
	FieldHour        Field = "hour"
)

// Label returns a human readable column heading.
func (f Field) Label() string {
	switch f {
	case FieldFileName:
		return "File"
	case FieldDate:
		return "Date"
	case FieldSubtype:
		return "Subtype"
	case FieldDisplayName:
		return "Display name"
	case FieldText:
		return "Text"
	case FieldDayOfWeek:
		return "Day of week"
	case FieldTime:
		return "Time"
	case FieldHour:
		return "Hour"
	default:
		return string(f)
	}
}

// Row is one flattened alert record.
type Row struct {
	FileName    string `json:"file_name"`
	Date        string `json:"date"`
	Subtype     string `json:"subtype"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
	DayOfWeek   string `json:"day_of_week"`
	Time        string `json:"time"`
	Hour        string `json:"hour"`
}

// Value returns the column value for f.
func (r Row) Value(f Field) string {
	switch f {
	case FieldFileName:
		return r.FileName
	case FieldDate:
		return r.Date
	case FieldSubtype:
		return r.Subtype
	case FieldDisplayName:
		return r.DisplayName
	case FieldText:
		return r.Text
	case FieldDayOfWeek:
		return r.DayOfWeek
	case FieldTime:
		return r.Time
	case FieldHour:
		return r.Hour
	default:
		return ""
	}
}

// FileSummary is the per-file row of the record-counts variant.
type FileSummary struct {
	FileName    string `json:"file_name"`
	Date        string `json:"date"`
	RecordCount int    `json:"record_count"`
}

// Weekdays lists day names Monday first, the order used by activity charts.
var Weekdays = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// WeekdayIndex returns the Monday-first position of name, or -1.
func WeekdayIndex(name string) int {
	for i, d := range Weekdays {
		if d == name {
			return i
		}
	}
	return -1
}
