// Package datefmt converts stored task timestamps into display text.
package datefmt

import "time"

// Layout is how the backend stores timestamps
const Layout = "2006-01-02 15:04:05"

// Display is the rendered form, e.g. "04/11/2025 às 08:53"
const Display = "02/01/2006 às 15:04"

var inputLayouts = []string{
	Layout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// Format renders a stored timestamp in local time.
// Empty input yields an empty string; unparseable input is returned unchanged.
func Format(stamp string) string {
	if stamp == "" {
		return ""
	}
	t, ok := Parse(stamp)
	if !ok {
		return stamp
	}
	return t.Format(Display)
}

// Parse reads a stored timestamp. Zone-less stamps are taken as local time.
func Parse(stamp string) (time.Time, bool) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		return t.In(time.Local), true
	}
	return time.Time{}, false
}

// Stamp renders t in the stored layout
func Stamp(t time.Time) string {
	return t.Format(Layout)
}
