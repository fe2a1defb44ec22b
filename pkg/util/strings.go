package util

import "strings"

// SafeLabel returns a usable display label: trimmed s unless it is empty or
// date-like, in which case the fallback is returned.
func SafeLabel(s, fallback string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || IsDateLike(trimmed) {
		return fallback
	}
	return trimmed
}

// NormalizeColumn lowercases a column name and collapses any run of
// non-alphanumeric characters into a single underscore.
func NormalizeColumn(s string) string {
	var b strings.Builder
	lastUnderscore := true // also trims a leading underscore
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
