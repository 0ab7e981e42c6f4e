// Package transform provides the portal's value-transformation catalog:
// small, pure string/number helpers. The one time-dependent helper, TimeAgo,
// takes the clock as an argument so it stays deterministic for callers.
package transform

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}

// Truncate shortens s to limit runes and appends suffix. Strings at or
// under the limit pass through unchanged.
func Truncate(s string, limit int, suffix string) string {
	if s == "" || limit < 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + suffix
}

// Multiply scales a numeric value.
func Multiply(v, multiplier float64) float64 {
	return v * multiplier
}

// Currency renders v with a leading symbol and fixed decimal digits.
func Currency(v float64, symbol string, digits int) string {
	return fmt.Sprintf("%s%.*f", symbol, digits, v)
}

// Filter returns the items whose key contains search, case-insensitively.
// An empty search returns the input unchanged.
func Filter[T any](items []T, search string, key func(T) string) []T {
	if search == "" {
		return items
	}
	needle := strings.ToLower(search)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(key(it)), needle) {
			out = append(out, it)
		}
	}
	return out
}

// TimeAgo renders the elapsed time between t and now in coarse human units.
func TimeAgo(t, now time.Time) string {
	secs := int(now.Sub(t).Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%d seconds ago", secs)
	case secs < 3600:
		return plural(secs/60, "minute")
	case secs < 86400:
		return plural(secs/3600, "hour")
	default:
		return plural(secs/86400, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
