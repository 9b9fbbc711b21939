package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/filter"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/session"
	"github.com/xolan/locktime/internal/timeutil"
)

// Start begins a session. at is empty for now, or any time accepted by
// timeutil.ParseStartTime.
func Start(ctx context.Context, deps *cli.Deps, at string) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)
	loc := location(svc)

	startAt, err := timeutil.ParseStartTime(at, svc.Tracker.Now(), loc)
	if err != nil {
		failWith(deps, "Invalid --at value", err,
			"Use 'HH:MM', 'yesterday 22:00', '2024-03-01 21:30' or '90m ago'")
		return
	}

	e, err := svc.Tracker.Start(ctx, user, startAt)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Session started at %s\n", cli.FormatTimestamp(e.StartDate, loc))
}

// Stop ends the active session.
func Stop(ctx context.Context, deps *cli.Deps) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	e, err := svc.Tracker.Stop(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Session stopped after %s\n", e.Duration)
	if n := len(e.Logbook); n > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "Logbook: %d %s\n", n, entryNoun(n))
	}
}

// Pause pauses the active session and logs the unlock reason.
func Pause(ctx context.Context, deps *cli.Deps, reason string) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	entry, err := svc.Tracker.Pause(ctx, user, reason)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Session paused at %s\n", cli.FormatTimestamp(entry.Date, location(svc)))
	_, _ = fmt.Fprintf(deps.Stdout, "%s\n", entry.Note)
}

// Resume continues a paused session.
func Resume(ctx context.Context, deps *cli.Deps) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	if err := svc.Tracker.Resume(ctx, user); err != nil {
		fail(deps, err)
		return
	}
	st, err := svc.Tracker.Status(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Session resumed, %s locked\n", cli.FormatElapsed(st.Breakdown))
}

// Status prints the active session's elapsed time.
func Status(ctx context.Context, deps *cli.Deps) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)
	loc := location(svc)

	st, err := svc.Tracker.Status(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	if !st.Active {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatElapsed(session.Breakdown{}))
		_, _ = fmt.Fprintln(deps.Stdout, "No active session")
		return
	}

	now := svc.Tracker.Now()
	_, _ = fmt.Fprintln(deps.Stdout, cli.FormatElapsed(st.Breakdown))
	_, _ = fmt.Fprintf(deps.Stdout, "Started:  %s (%s)\n",
		cli.FormatTimestamp(st.StartTime, loc), cli.FormatRelative(st.StartTime, now))
	if st.Paused && st.PausedSince != nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Paused:   since %s (%s)\n",
			cli.FormatTimestamp(*st.PausedSince, loc), cli.FormatRelative(*st.PausedSince, now))
	}
	if st.PausedTotal > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "Unlocked: %s in total\n", cli.FormatDuration(int(st.PausedTotal/time.Minute)))
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Logbook:  %d %s\n", st.LogbookCount, entryNoun(st.LogbookCount))
}

// Events lists completed events, optionally restricted to a date range.
func Events(ctx context.Context, deps *cli.Deps, from, to string, last int, search string, unlocked bool, minDuration string) {
	f, ok := parseFilter(deps, search, unlocked, minDuration)
	if !ok {
		return
	}
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	list, ok := loadEvents(ctx, deps, svc, user, from, to, last)
	if !ok {
		return
	}
	if !f.IsEmpty() {
		list = list.Filter(f)
		_, _ = fmt.Fprintf(deps.Stdout, "Filter: %s\n", f)
	}
	printEvents(deps, list, location(svc))
}

// parseFilter builds the event filter from the search flags.
func parseFilter(deps *cli.Deps, search string, unlocked bool, minDuration string) (*filter.Filter, bool) {
	minutes := 0
	if minDuration != "" {
		m, err := filter.ParseDuration(minDuration)
		if err != nil {
			failWith(deps, "Invalid --min", err, "Use forms like 45m, 2h, 1h30m or 3d")
			return nil, false
		}
		minutes = m
	}
	return filter.NewFilter(search, unlocked, minutes), true
}

// parseRange turns the range flags into bounds. No flags means unbounded.
func parseRange(deps *cli.Deps, svc *service.Services, from, to string, last int) (start, end time.Time, ok bool) {
	if from == "" && to == "" && last == 0 {
		return time.Time{}, time.Time{}, true
	}
	start, end, err := timeutil.ParseDateRangeFlags(from, to, last, svc.Tracker.Now(), location(svc))
	if err != nil {
		failWith(deps, "Invalid date range", err, "Dates use YYYY-MM-DD or DD/MM/YYYY")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// loadEvents lists events for the range flags. No flags means all events.
func loadEvents(ctx context.Context, deps *cli.Deps, svc *service.Services, user, from, to string, last int) (service.EventList, bool) {
	start, end, ok := parseRange(deps, svc, from, to, last)
	if !ok {
		return service.EventList{}, false
	}
	list, err := svc.Tracker.Events(ctx, user, start, end)
	if err != nil {
		fail(deps, err)
		return service.EventList{}, false
	}
	return list, true
}

func printEvents(deps *cli.Deps, list service.EventList, loc *time.Location) {
	if list.Active != nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Active:  started %s\n\n", cli.FormatTimestamp(list.Active.StartDate, loc))
	}
	if !list.End.IsZero() {
		_, _ = fmt.Fprintf(deps.Stdout, "Events for %s\n\n",
			cli.FormatDateRangeForDisplay(list.Start.In(loc), list.End.In(loc)))
	}
	if len(list.Events) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No events found")
		return
	}
	for _, ie := range list.Events {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatEventLine(ie, loc))
	}
	_, _ = fmt.Fprintf(deps.Stdout, "\nTotal: %s (%d %s)\n",
		cli.FormatDuration(list.TotalMinutes), len(list.Events), cli.Pluralize("event", len(list.Events)))
}

// Clear removes all completed events after confirmation.
func Clear(ctx context.Context, deps *cli.Deps, yes bool) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	if !yes && !cli.Confirm(deps, "Delete all completed events and their logbooks?") {
		_, _ = fmt.Fprintln(deps.Stdout, "Cancelled")
		return
	}
	res, err := svc.Tracker.Clear(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Deleted %d %s and %d logbook %s\n",
		res.Events, cli.Pluralize("event", res.Events),
		res.LogbookEntries, entryNoun(res.LogbookEntries))
}

func entryNoun(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
