package normalize

import (
	"strings"
	"time"
)

// Date formats seen in CMS reference files and quarter directory names.
var dateFormats = []string{
	"20060102",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// Date attempts to parse a CMS date string. Returns nil if the input is
// empty or unparseable; code pair rows use empty dates for open-ended
// effective ranges.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// QuarterStart returns the first day of the calendar quarter containing t.
func QuarterStart(t time.Time) time.Time {
	month := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}
