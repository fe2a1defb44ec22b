package util

import "time"

// dateLayouts are the formats accepted for NAV dates, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

// ParseDate parses a calendar date in any of the accepted NAV layouts.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDateLike reports whether s parses as a date in any accepted layout.
// Used to reject date strings that leak into name/category columns.
func IsDateLike(s string) bool {
	_, ok := ParseDate(s)
	return ok
}
