package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// months maps the log format's fixed 3-letter English abbreviations.
// Unrecognized names fall back to January; that quirk is inherited from
// the producing systems and deliberately not "fixed" here.
var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ParseTimestamp converts the log's embedded date string, e.g.
// "10/Oct/2023:13:55:36 +0200", into an instant plus the derived hour of
// day (0-23) and ISO day of week (Monday=0). Parse failures are reported
// to the caller; this never substitutes the current wall-clock time,
// which would silently corrupt session and percentile results.
func ParseTimestamp(s string) (t time.Time, hourOfDay, dayOfWeek int, err error) {
	datePart, timePart, ok := strings.Cut(s, ":")
	if !ok {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: missing time part", s)
	}

	dateFields := strings.Split(datePart, "/")
	if len(dateFields) != 3 {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: malformed date", s)
	}
	day, err := strconv.Atoi(dateFields[0])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: bad day: %w", s, err)
	}
	month, ok := months[dateFields[1]]
	if !ok {
		month = time.January
	}
	year, err := strconv.Atoi(dateFields[2])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: bad year: %w", s, err)
	}

	clockPart, zonePart, _ := strings.Cut(timePart, " ")
	clockFields := strings.Split(clockPart, ":")
	if len(clockFields) != 3 {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: malformed clock", s)
	}
	hour, err := strconv.Atoi(clockFields[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: bad hour", s)
	}
	minute, err := strconv.Atoi(clockFields[1])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: bad minute: %w", s, err)
	}
	second, err := strconv.Atoi(clockFields[2])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("timestamp %q: bad second: %w", s, err)
	}

	loc := time.UTC
	if zonePart != "" {
		if offset, zerr := parseZone(zonePart); zerr == nil {
			loc = time.FixedZone(zonePart, offset)
		}
	}

	t = time.Date(year, month, day, hour, minute, second, 0, loc)

	// ISO ordering: Monday=0 ... Sunday=6.
	dayOfWeek = (int(t.Weekday()) + 6) % 7
	return t, hour, dayOfWeek, nil
}

// parseZone converts "+0200" style offsets to seconds east of UTC.
func parseZone(z string) (int, error) {
	if len(z) != 5 || (z[0] != '+' && z[0] != '-') {
		return 0, fmt.Errorf("malformed zone %q", z)
	}
	hh, err := strconv.Atoi(z[1:3])
	if err != nil {
		return 0, err
	}
	mm, err := strconv.Atoi(z[3:5])
	if err != nil {
		return 0, err
	}
	offset := hh*3600 + mm*60
	if z[0] == '-' {
		offset = -offset
	}
	return offset, nil
}
