package timeutil

import (
	"fmt"
	"time"
)

// ParseDateRangeFlags parses the --from, --to and --last flags of the events
// listing. A zero start means unbounded. --last cannot be combined with the
// others.
func ParseDateRangeFlags(fromStr, toStr string, lastDays int, now time.Time, loc *time.Location) (start, end time.Time, err error) {
	if lastDays < 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("--last must be positive, got %d", lastDays)
	}
	if lastDays > 0 && (fromStr != "" || toStr != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("cannot use --last with --from or --to")
	}

	local := now.In(loc)
	if lastDays > 0 {
		return StartOfDay(local.AddDate(0, 0, -(lastDays - 1))), EndOfDay(local), nil
	}

	if fromStr != "" {
		start, err = ParseDate(fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	end = EndOfDay(local)
	if toStr != "" {
		toDate, err := ParseDate(toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		end = EndOfDay(toDate)
	}

	if !start.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from date (%s) is after --to date (%s)",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}

// InRange reports whether t lies within [start, end]. A zero start is
// unbounded.
func InRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	return !t.After(end)
}
