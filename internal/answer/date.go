package answer

import (
	"strconv"
	"strings"
	"time"
)

// dateValue is a resolved calendar value. Year-only dates keep YearOnly set
// so "1969" never matches "July 20, 1969" — partial dates only match
// canonicals of the same granularity.
type dateValue struct {
	Year     int
	Month    time.Month
	Day      int
	YearOnly bool
}

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

func parseDate(s string) (dateValue, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dateValue{}, false
	}
	if y, err := strconv.Atoi(s); err == nil && y >= 1 && y <= 9999 {
		return dateValue{Year: y, YearOnly: true}, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateValue{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
		}
	}
	return dateValue{}, false
}
