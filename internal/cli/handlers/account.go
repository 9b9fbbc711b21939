package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/xolan/locktime/internal/cli"
)

// Register creates an account. An empty password is read from the
// terminal, or from Stdin twice when it is not one.
func Register(ctx context.Context, deps *cli.Deps, user, password string) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	if password == "" {
		var err error
		password, err = cli.ReadNewPassword(deps)
		if err != nil {
			fail(deps, err)
			return
		}
	}
	if err := svc.Account.Register(ctx, user, password); err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Registered %s\n", strings.TrimSpace(user))
	_, _ = fmt.Fprintf(deps.Stdout, "Log in with 'locktime login %s'\n", strings.TrimSpace(user))
}

// Login logs a user in. An empty user falls back to the remembered one.
func Login(ctx context.Context, deps *cli.Deps, user, password string, remember bool) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	if strings.TrimSpace(user) == "" {
		remembered, found, err := svc.Account.Remembered(ctx)
		if err != nil {
			fail(deps, err)
			return
		}
		if !found {
			failWith(deps, "No username given", nil, "Usage: locktime login <username> [--remember]")
			return
		}
		user = remembered
		_, _ = fmt.Fprintf(deps.Stdout, "Logging in as %s\n", user)
	}
	if password == "" {
		var err error
		password, err = cli.ReadPassword(deps, "Password")
		if err != nil {
			fail(deps, err)
			return
		}
	}
	if err := svc.Account.Login(ctx, user, password, remember); err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Logged in as %s\n", strings.TrimSpace(user))
}

// Logout logs the current user out.
func Logout(ctx context.Context, deps *cli.Deps) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	user, err := svc.Account.Logout(ctx)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Logged out %s\n", user)
}

// Whoami prints the current user, their profile and where state is kept.
func Whoami(ctx context.Context, deps *cli.Deps) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	who, err := svc.Account.Whoami(ctx)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprint(deps.Stdout, cli.FormatProfile(who.User, who.Profile))
	_, _ = fmt.Fprintf(deps.Stdout, "Backend:   %s (%s)\n", svc.Store.Backend(), svc.Tracker.Location(who.User))
	if who.Remembered {
		_, _ = fmt.Fprintln(deps.Stdout, "Remembered on this machine")
	}
}
