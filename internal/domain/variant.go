package domain

// Variant names one dashboard flavour of the export pipeline.
type Variant string

// Known variants. BotActivity is the default and the most complete.
const (
	VariantRecordCounts   Variant = "record-counts"
	VariantSubtypes       Variant = "subtypes"
	VariantSubtypesByDate Variant = "subtypes-by-date"
	VariantDisplayNames   Variant = "display-names"
	VariantBotTexts       Variant = "bot-texts"
	VariantBotActivity    Variant = "bot-activity"
)

// DefaultVariant is used when a request names none.
const DefaultVariant = VariantBotActivity

// Default subtype values. Variants disagree on which one applies.
const (
	SubtypeMessage = "message"
	SubtypeUnknown = "Unknown"
)

// Profile captures the per-variant defaults and null-handling rules.
type Profile struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description"`

	// DefaultSubtype replaces an absent subtype.
	DefaultSubtype string `json:"default_subtype,omitempty"`
	// CoerceEmptySubtype also replaces subtype "" with DefaultSubtype.
	CoerceEmptySubtype bool `json:"coerce_empty_subtype"`
	// DateKeyed parses day file names as dates and skips names that are not.
	DateKeyed bool `json:"date_keyed"`
	// PerFileSummary counts records per file instead of flattening them.
	PerFileSummary bool `json:"per_file_summary"`
	// DeriveTime fills date, weekday, time and hour from ts.
	DeriveTime bool `json:"derive_time"`
	// DropEmptyText removes rows whose text is "".
	DropEmptyText bool `json:"drop_empty_text"`

	// Primary is the bar chart dimension.
	Primary Field `json:"primary"`
	// HeatmapX and HeatmapY are the density heatmap dimensions; empty when the variant has none.
	HeatmapX Field `json:"heatmap_x,omitempty"`
	HeatmapY Field `json:"heatmap_y,omitempty"`

	// BotTexts renders a horizontal bar of bot message texts.
	BotTexts bool `json:"bot_texts"`
	// BotActivity renders the deduplicated bot message table and the weekday x hour chart.
	BotActivity bool `json:"bot_activity"`
}

// HasHeatmap reports whether the profile renders a heatmap.
func (p Profile) HasHeatmap() bool {
	return p.HeatmapX != "" && p.HeatmapY != ""
}

// RowFields returns the raw row columns worth showing for the profile. Date
// columns only appear when the variant fills them.
func (p Profile) RowFields() []Field {
	fields := []Field{FieldFileName}
	if p.DateKeyed || p.DeriveTime {
		fields = append(fields, FieldDate)
	}
	fields = append(fields, FieldSubtype, FieldDisplayName, FieldText)
	if p.DeriveTime {
		fields = append(fields, FieldDayOfWeek, FieldTime, FieldHour)
	}
	return fields
}

var profiles = []Profile{
	{
		Variant:        VariantRecordCounts,
		Title:          "Alert Records Over Time",
		Description:    "Number of alert records per day file",
		DateKeyed:      true,
		PerFileSummary: true,
		Primary:        FieldDate,
	},
	{
		Variant:        VariantSubtypes,
		Title:          "Alert Subtypes",
		Description:    "Records per file with a file x subtype heatmap",
		DefaultSubtype: SubtypeUnknown,
		Primary:        FieldFileName,
		HeatmapX:       FieldFileName,
		HeatmapY:       FieldSubtype,
	},
	{
		Variant:            VariantSubtypesByDate,
		Title:              "Alert Subtypes by Date",
		Description:        "Records per subtype with a date x subtype heatmap",
		DefaultSubtype:     SubtypeMessage,
		CoerceEmptySubtype: true,
		DateKeyed:          true,
		Primary:            FieldSubtype,
		HeatmapX:           FieldDate,
		HeatmapY:           FieldSubtype,
	},
	{
		Variant:        VariantDisplayNames,
		Title:          "Alerts by Display Name",
		Description:    "Records per display name with a file x display name heatmap",
		DefaultSubtype: SubtypeUnknown,
		Primary:        FieldDisplayName,
		HeatmapX:       FieldFileName,
		HeatmapY:       FieldDisplayName,
	},
	{
		Variant:            VariantBotTexts,
		Title:              "Bot Message Texts",
		Description:        "Records per file and the texts bots posted",
		DefaultSubtype:     SubtypeMessage,
		CoerceEmptySubtype: true,
		Primary:            FieldFileName,
		HeatmapX:           FieldFileName,
		HeatmapY:           FieldSubtype,
		BotTexts:           true,
	},
	{
		Variant:            VariantBotActivity,
		Title:              "Bot Message Activity",
		Description:        "Records per date with bot message timing by weekday and hour",
		DefaultSubtype:     SubtypeMessage,
		CoerceEmptySubtype: true,
		DeriveTime:         true,
		DropEmptyText:      true,
		Primary:            FieldDate,
		HeatmapX:           FieldDate,
		HeatmapY:           FieldSubtype,
		BotActivity:        true,
	},
}

// Profiles returns every variant profile in catalogue order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// LookupProfile returns the profile for name.
func LookupProfile(name string) (Profile, bool) {
	for _, p := range profiles {
		if string(p.Variant) == name {
			return p, true
		}
	}
	return Profile{}, false
}

// ResolveSubtype applies the profile's default rules to a raw subtype.
func (p Profile) ResolveSubtype(raw string, present bool) string {
	if !present {
		return p.DefaultSubtype
	}
	if raw == "" && p.CoerceEmptySubtype {
		return p.DefaultSubtype
	}
	return raw
}
