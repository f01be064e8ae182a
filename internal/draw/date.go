package draw

import (
	"strings"
	"time"
)

// DateLayout is the textual form of DrawDate.
const DateLayout = "2006-01-02"

// weekday annotations open with a full-width or ASCII parenthesis,
// e.g. "2025-07-01（星期二）"
var annotationOpeners = []string{"（", "("}

// NormalizeDate trims raw date text and drops any weekday annotation.
func NormalizeDate(raw string) string {
	s := raw
	cut := len(s)
	for _, open := range annotationOpeners {
		if i := strings.Index(s, open); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(s[:cut])
}

// ParseDate parses normalized date text. Returns the zero time when parsing fails.
// Supports "2025-07-01" and "2025/07/01".
func ParseDate(text string) time.Time {
	text = NormalizeDate(text)
	if text == "" {
		return time.Time{}
	}
	for _, layout := range []string{DateLayout, "2006/01/02", "2006-1-2"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Date returns the parsed draw date, zero when unparseable.
func (d *Draw) Date() time.Time {
	return ParseDate(d.DrawDate)
}
