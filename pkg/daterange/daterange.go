package daterange

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Range holds optional inclusive calendar-date bounds extracted from a
// request. A nil side means unbounded on that side.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// FromContext extracts startDate/endDate query parameters from the echo
// context. Either may be absent; present values must be YYYY-MM-DD.
func FromContext(c echo.Context) (Range, error) {
	var r Range

	if s := c.QueryParam("startDate"); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return Range{}, fmt.Errorf("startDate: %w", err)
		}
		r.Start = &t
	}
	if s := c.QueryParam("endDate"); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return Range{}, fmt.Errorf("endDate: %w", err)
		}
		r.End = &t
	}

	return r, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be a valid date in YYYY-MM-DD format")
	}
	return t, nil
}

// TrailingDays returns the open-ended range covering the n calendar days up
// to from.
func TrailingDays(from time.Time, n int) Range {
	start := from.AddDate(0, 0, -n)
	return Range{Start: &start}
}
