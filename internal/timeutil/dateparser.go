package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	yearOnlyRe    = regexp.MustCompile(`^\d{4}$`)
	isoPartialRe  = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	dayMonthRe    = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}$`)
	clockOnlyRe   = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	relativeAgoRe = regexp.MustCompile(`^(?:-\s*)?([0-9hms.]+)(?:\s+ago)?$`)
)

// dateTimeLayouts are tried in order for absolute start times without a zone.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"02/01/2006 15:04",
}

// ParseDate parses a date in YYYY-MM-DD or DD/MM/YYYY format and returns
// midnight of that day in loc.
func ParseDate(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15)")
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}
	switch {
	case yearOnlyRe.MatchString(input):
		return time.Time{}, fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case isoPartialRe.MatchString(input):
		return time.Time{}, fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	case dayMonthRe.MatchString(input):
		return time.Time{}, fmt.Errorf("incomplete date '%s': missing year (use format YYYY-MM-DD or DD/MM/YYYY)", input)
	}
	return time.Time{}, fmt.Errorf("invalid date format '%s' (use YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)", input)
}

// ParseStartTime parses the value of a --at flag relative to now.
//
// Valid inputs:
//   - "now" or ""
//   - "2024-03-01T22:15:00Z" (RFC 3339, any offset)
//   - "2024-03-01 22:15" (interpreted in loc)
//   - "22:15" (today in loc, or yesterday when that is still in the future)
//   - "yesterday 22:15", "today 08:00"
//   - "90m ago", "-2h30m"
func ParseStartTime(input string, now time.Time, loc *time.Location) (time.Time, error) {
	raw := strings.ToUpper(strings.TrimSpace(input))
	input = strings.ToLower(raw)
	if input == "" || input == "now" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	local := now.In(loc)
	if day, clock, ok := strings.Cut(input, " "); ok && (day == "today" || day == "yesterday") {
		t, err := atClock(local, strings.TrimSpace(clock))
		if err != nil {
			return time.Time{}, err
		}
		if day == "yesterday" {
			t = t.AddDate(0, 0, -1)
		}
		return t, nil
	}
	if clockOnlyRe.MatchString(input) {
		t, err := atClock(local, input)
		if err != nil {
			return time.Time{}, err
		}
		if t.After(now) {
			t = t.AddDate(0, 0, -1)
		}
		return t, nil
	}
	if m := relativeAgoRe.FindStringSubmatch(input); m != nil && (strings.HasPrefix(input, "-") || strings.HasSuffix(input, "ago")) {
		d, err := time.ParseDuration(m[1])
		if err != nil || d < 0 {
			return time.Time{}, fmt.Errorf("invalid duration '%s' (use e.g. '90m ago' or '-2h30m')", m[1])
		}
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid start time '%s' (use 'YYYY-MM-DD HH:MM', 'HH:MM', 'yesterday HH:MM', '2h ago' or RFC 3339)", input)
}

// atClock returns the given HH:MM[:SS] on the day of base.
func atClock(base time.Time, clock string) (time.Time, error) {
	layout := "15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "15:04:05"
	}
	c, err := time.Parse(layout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day '%s' (use HH:MM, e.g., 22:15)", clock)
	}
	return time.Date(base.Year(), base.Month(), base.Day(), c.Hour(), c.Minute(), c.Second(), 0, base.Location()), nil
}
