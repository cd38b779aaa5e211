// Package domain defines the alert export records, flattened rows and dashboard variants.
package domain

import (
	"encoding/json"
	"strconv"
)

// BotMessageSubtype marks messages posted by integrations rather than people.
const BotMessageSubtype = "bot_message"

// UnknownDisplayName is used when a record has no user_profile.display_name.
const UnknownDisplayName = "Unknown"

// Record is one alert object from a day file. Exports carry no schema, so every
// accessor tolerates absent and wrongly typed fields.
type Record map[string]any

// Subtype returns the raw subtype and whether the field was a string.
func (r Record) Subtype() (string, bool) {
	s, ok := r["subtype"].(string)
	return s, ok
}

// Text returns the message text, or "" when absent.
func (r Record) Text() string {
	s, _ := r["text"].(string)
	return s
}

// Timestamp returns the raw ts value as a string. Exports encode it as a string
// ("1704067200.000200"); numbers are accepted as well.
func (r Record) Timestamp() (string, bool) {
	switch v := r["ts"].(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// DisplayName returns user_profile.display_name, or UnknownDisplayName.
func (r Record) DisplayName() string {
	profile, ok := r["user_profile"].(map[string]any)
	if !ok {
		return UnknownDisplayName
	}
	name, ok := profile["display_name"].(string)
	if !ok {
		return UnknownDisplayName
	}
	return name
}
