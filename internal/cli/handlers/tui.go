package handlers

import (
	"context"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/tui"
)

// runTUI is swapped out in tests.
var runTUI = tui.Run

// TUI runs the interactive timer for the logged-in user.
func TUI(ctx context.Context, deps *cli.Deps) {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	if err := runTUI(ctx, svc, user); err != nil {
		failWith(deps, "Error running TUI", err, "")
	}
}
