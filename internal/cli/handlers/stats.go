package handlers

import (
	"context"
	"fmt"

	"github.com/xolan/locktime/internal/cli"
)

// Stats prints aggregate statistics over the completed sessions in range.
func Stats(ctx context.Context, deps *cli.Deps, from, to string, last int) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)
	loc := location(svc)

	start, end, ok := parseRange(deps, svc, from, to, last)
	if !ok {
		return
	}
	res, err := svc.Tracker.Stats(ctx, user, start, end, loc)
	if err != nil {
		fail(deps, err)
		return
	}

	if end.IsZero() {
		_, _ = fmt.Fprintln(deps.Stdout, "Statistics for all sessions")
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Statistics for %s\n", cli.FormatDateRangeForDisplay(start.In(loc), end.In(loc)))
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	st := res.Statistics
	if st.Sessions == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No events found")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Sessions:        %d\n", st.Sessions)
	_, _ = fmt.Fprintf(deps.Stdout, "Total locked:    %s\n", cli.FormatDuration(st.TotalMinutes))
	_, _ = fmt.Fprintf(deps.Stdout, "Longest:         %s\n", cli.FormatDuration(st.LongestMinutes))
	_, _ = fmt.Fprintf(deps.Stdout, "Average:         %s\n", cli.FormatDuration(int(st.AverageMinutes)))
	_, _ = fmt.Fprintf(deps.Stdout, "Days:            %d\n", st.DaysCovered)
	_, _ = fmt.Fprintf(deps.Stdout, "Unlocks:         %d\n", st.Unlocks)
	_, _ = fmt.Fprintf(deps.Stdout, "Logbook entries: %d\n", st.LogbookEntries)

	if len(res.Reasons) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "\nUnlock reasons:")
		for _, r := range res.Reasons {
			_, _ = fmt.Fprintf(deps.Stdout, "  %-30s %d\n", r.Reason, r.Count)
		}
	}
}
