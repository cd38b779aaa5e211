package api

import (
	"net/url"
	"slices"
	"strings"

	"github.com/alertdash/alertdash-server/internal/domain"
)

// splitSubtypes parses the comma-separated subtype parameter of the JSON API,
// dropping blanks and duplicates while keeping first-seen order.
func splitSubtypes(param string) []string {
	var out []string
	for part := range strings.SplitSeq(param, ",") {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(out, part) {
			continue
		}
		out = append(out, part)
	}
	return out
}

// selectedSubtypes returns the repeated subtype values sent by the dashboard form
// and chart URLs. Values are kept verbatim, so "" selects rows without a subtype.
// No values at all means no filter.
func selectedSubtypes(values []string) []string {
	var out []string
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// chartURL returns the image URL of one chart for the current selection.
func chartURL(variant domain.Variant, name string, subtypes []string) string {
	u := url.URL{Path: "/charts/" + string(variant) + "/" + name}
	if len(subtypes) > 0 {
		q := url.Values{}
		for _, st := range subtypes {
			q.Add("subtype", st)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
