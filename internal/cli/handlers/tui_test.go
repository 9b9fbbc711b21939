package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/xolan/locktime/internal/service"
)

func stubTUI(t *testing.T, fn func(ctx context.Context, svc *service.Services, user string) error) {
	t.Helper()
	orig := runTUI
	runTUI = fn
	t.Cleanup(func() { runTUI = orig })
}

func TestTUI(t *testing.T) {
	var gotUser string
	stubTUI(t, func(ctx context.Context, svc *service.Services, user string) error {
		gotUser = user
		if svc.Tracker == nil {
			t.Error("TUI started without services")
		}
		return nil
	})

	h := newHarness(t, "file")
	TUI(h.ctx, h.deps)
	h.mustFail("logged out", "Not logged in")
	if gotUser != "" {
		t.Error("TUI ran without a login")
	}

	h.reset()
	h.login("alice")
	TUI(h.ctx, h.deps)
	h.mustSucceed("tui")
	if gotUser != "alice" {
		t.Errorf("TUI user = %q", gotUser)
	}
}

func TestTUI_Error(t *testing.T) {
	stubTUI(t, func(context.Context, *service.Services, string) error {
		return errors.New("no tty")
	})

	h := newHarness(t, "kv")
	h.login("alice")
	TUI(h.ctx, h.deps)
	h.mustFail("tui", "Error running TUI")
	h.mustFail("tui details", "Details: no tty")
}
