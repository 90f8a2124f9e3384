package contract

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted source date formats, tried in order.
var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
}

// ParseSourceDate parses a date cell from the tabular source, which mixes
// several formats. Returns an error when no layout matches.
func ParseSourceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// CompactDateOf formats a time as the compact key form used in date indexes.
func CompactDateOf(t time.Time) string {
	return t.Format("20060102")
}
