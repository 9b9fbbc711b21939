package handlers

import (
	"context"
	"fmt"

	"github.com/xolan/locktime/internal/cli"
)

// AddNote adds a logbook entry to the referenced event.
func AddNote(ctx context.Context, deps *cli.Deps, ref, title, note string) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	entry, err := svc.Tracker.AddNote(ctx, user, ref, title, note)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Added logbook entry %q (%s)\n", entry.Title, entry.ID)
}

// ListNotes prints the logbook of the referenced event, newest first.
func ListNotes(ctx context.Context, deps *cli.Deps, ref string) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)
	loc := location(svc)

	e, err := svc.Tracker.Logbook(ctx, user, ref)
	if err != nil {
		fail(deps, err)
		return
	}

	end := "running"
	if e.EndDate != nil {
		end = cli.FormatTimestamp(*e.EndDate, loc)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Event %s -> %s\n", cli.FormatTimestamp(e.StartDate, loc), end)

	entries := e.SortedEntries()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No logbook entries")
		return
	}
	for i, entry := range entries {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatEntryLine(i+1, entry, loc))
	}
}

// DeleteNote removes a logbook entry by position or id.
func DeleteNote(ctx context.Context, deps *cli.Deps, ref, entryRef string) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	entry, err := svc.Tracker.DeleteNote(ctx, user, ref, entryRef)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Deleted logbook entry %q\n", entry.Title)
}
