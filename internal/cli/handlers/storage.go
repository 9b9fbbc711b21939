package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/storage"
)

// Validate checks the current user's stored state and exits with status 1
// when problems are found.
func Validate(ctx context.Context, deps *cli.Deps) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	res, err := svc.Store.Validate(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	h := res.Health

	_, _ = fmt.Fprintf(deps.Stdout, "Backend:         %s\n", res.Backend)
	_, _ = fmt.Fprintf(deps.Stdout, "Location:        %s\n", h.Location)
	if !h.Exists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No saved state yet")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Events:          %d\n", h.Events)
	_, _ = fmt.Fprintf(deps.Stdout, "Logbook entries: %d\n", h.LogbookEntries)
	switch {
	case h.Paused:
		_, _ = fmt.Fprintln(deps.Stdout, "Session:         paused")
	case h.Active:
		_, _ = fmt.Fprintln(deps.Stdout, "Session:         running")
	default:
		_, _ = fmt.Fprintln(deps.Stdout, "Session:         none")
	}
	if len(h.Backups) > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "Backups:         %d\n", len(h.Backups))
	}

	if h.Healthy() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          OK")
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Status:          Problems found")
	if h.OrphanEntries > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "  - %d logbook %s without an event\n", h.OrphanEntries, entryNoun(h.OrphanEntries))
	}
	if h.DanglingEvents > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "  - %d unfinished %s that is not the active session\n",
			h.DanglingEvents, cli.Pluralize("event", h.DanglingEvents))
	}
	for _, p := range h.Problems {
		_, _ = fmt.Fprintf(deps.Stdout, "  - %v\n", p)
	}
	_, _ = fmt.Fprintln(deps.Stderr, "Hint: Saving any change rewrites the state without the problems above, or use 'locktime restore' on the file backend")
	deps.Exit(1)
}

// Migrate copies tracker state between backends.
func Migrate(ctx context.Context, deps *cli.Deps, from, to string, users []string, overwrite bool) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	results, err := svc.Store.Migrate(ctx, from, to, users, overwrite)
	for _, r := range results {
		line := fmt.Sprintf("Migrated %s: %d %s", r.User, r.Events, cli.Pluralize("event", r.Events))
		if r.Active {
			line += " and the active session"
		}
		if r.Account {
			line += " (with account)"
		}
		_, _ = fmt.Fprintln(deps.Stdout, line)
	}
	if err != nil {
		fail(deps, err)
		return
	}
	if len(results) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No users found in the %s backend\n", from)
	}
}

// Restore lists the current user's backups and restores backup n. n is 0
// to only list them.
func Restore(ctx context.Context, deps *cli.Deps, n int) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	backups, err := svc.Store.Backups(user)
	if err != nil {
		fail(deps, err)
		return
	}
	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, b := range backups {
		line := fmt.Sprintf("  %d: %s (%s)", b.Number, b.Path, cli.FormatSize(b.Size))
		if b.Number == 1 {
			line += " (most recent)"
		}
		_, _ = fmt.Fprintln(deps.Stdout, line)
	}
	if n == 0 {
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	if n < 1 || n > storage.MaxBackupCount {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup number must be between 1 and %d (got %d)\n", storage.MaxBackupCount, n)
		deps.Exit(1)
		return
	}
	if err := svc.Store.Restore(ctx, user, n); err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d\n", n)
}

// Export writes the current user's events as JSON or CSV to output, or to
// Stdout when output is empty.
func Export(ctx context.Context, deps *cli.Deps, format, output, from, to string, last int) {
	if format != service.FormatJSON && format != service.FormatCSV {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown export format %q\n", format)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Valid formats: json, csv")
		deps.Exit(1)
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

	var w io.Writer = deps.Stdout
	var err error
	if output != "" {
		var f *os.File
		f, err = os.Create(output)
		if err != nil {
			failWith(deps, "Failed to create export file", err, "")
			return
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if format == service.FormatCSV {
		err = service.WriteCSV(w, list)
	} else {
		err = service.WriteJSON(w, user, list, svc.Tracker.Now())
	}
	if err != nil {
		failWith(deps, "Failed to write export", err, "")
		return
	}

	if output != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Exported %d %s to %s\n",
			len(list.Events), cli.Pluralize("event", len(list.Events)), output)
	}
}
