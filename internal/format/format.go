// Package format renders counts and timestamps for display.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Count abbreviates n: 999, 1.2k, 12k, 3.4m.
func Count(n int) string {
	switch {
	case n < 0:
		return "-" + Count(-n)
	case n < 1_000:
		return strconv.Itoa(n)
	case n < 1_000_000:
		return abbreviate(float64(n)/1_000) + "k"
	default:
		return abbreviate(float64(n)/1_000_000) + "m"
	}
}

func abbreviate(v float64) string {
	if v >= 10 {
		return strconv.Itoa(int(v))
	}
	s := strconv.FormatFloat(float64(int(v*10))/10, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// Date renders t relative to now: "just now", "5m", "3h", "6d", then "Jan 2" within the same
// year and "Jan 2, 2006" otherwise.
func Date(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}
