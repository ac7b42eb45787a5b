// Package format renders dates, sizes and counts for display.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultDateLayout is the layout used when none is given.
const DefaultDateLayout = "YYYY-MM-DD HH:mm:ss"

// Date formats t with a token layout: YYYY, MM, DD, HH, mm and ss. Other
// text is copied as-is. A zero time renders as the empty string.
func Date(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultDateLayout
	}

	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", t.Year()),
		"MM", fmt.Sprintf("%02d", int(t.Month())),
		"DD", fmt.Sprintf("%02d", t.Day()),
		"HH", fmt.Sprintf("%02d", t.Hour()),
		"mm", fmt.Sprintf("%02d", t.Minute()),
		"ss", fmt.Sprintf("%02d", t.Second()),
	)
	return r.Replace(layout)
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FileSize formats a byte count in 1024 steps with up to two decimals,
// e.g. 1536 -> "1.5 KB".
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return humanize.FtoaWithDigits(v, 2) + " " + sizeUnits[i]
}

// Relative describes t relative to now, e.g. "3 minutes ago".
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Count formats a counter with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}
