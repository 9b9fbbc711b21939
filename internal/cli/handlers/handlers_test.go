package handlers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/config"
	"github.com/xolan/locktime/internal/service"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// harness runs handlers against fresh services over one data directory.
type harness struct {
	t        *testing.T
	ctx      context.Context
	dir      string
	backend  string
	now      time.Time
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	stdin    strings.Reader
	exitCode int
	deps     *cli.Deps
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	h := &harness{t: t, ctx: context.Background(), dir: t.TempDir(), backend: backend, now: testNow, exitCode: -1}
	h.deps = &cli.Deps{
		Stdout:        &h.stdout,
		Stderr:        &h.stderr,
		Stdin:         &h.stdin,
		Exit:          func(code int) { h.exitCode = code },
		OpenServices:  h.open,
		IsInteractive: func() bool { return false },
		Now:           func() time.Time { return h.now },
	}
	return h
}

func (h *harness) open() (*service.Services, error) {
	cfg := config.DefaultConfig()
	cfg.Backend = h.backend
	cfg.Timezone = "UTC"
	return service.NewServicesWithPaths(filepath.Join(h.dir, "config.toml"), h.dir, cfg,
		service.WithClock(func() time.Time { return h.now }),
		service.WithBcryptCost(bcrypt.MinCost))
}

// reset clears the captured output and exit code.
func (h *harness) reset() {
	h.stdout.Reset()
	h.stderr.Reset()
	h.exitCode = -1
}

func (h *harness) input(s string) {
	h.stdin.Reset(s)
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

// login registers and logs in user, then clears the output.
func (h *harness) login(user string) {
	h.t.Helper()
	Register(h.ctx, h.deps, user, "secret")
	Login(h.ctx, h.deps, user, "secret", false)
	h.mustSucceed("login")
	h.reset()
}

func (h *harness) mustSucceed(step string) {
	h.t.Helper()
	if h.exitCode != -1 {
		h.t.Fatalf("%s exited with %d\nstdout: %s\nstderr: %s", step, h.exitCode, h.stdout.String(), h.stderr.String())
	}
}

func (h *harness) mustFail(step, wantErr string) {
	h.t.Helper()
	if h.exitCode != 1 {
		h.t.Fatalf("%s: expected exit code 1, got %d\nstdout: %s", step, h.exitCode, h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), wantErr) {
		h.t.Errorf("%s: stderr = %q, expected to contain %q", step, h.stderr.String(), wantErr)
	}
}

func (h *harness) expectOut(step string, want ...string) {
	h.t.Helper()
	for _, w := range want {
		if !strings.Contains(h.stdout.String(), w) {
			h.t.Errorf("%s: stdout = %q, expected to contain %q", step, h.stdout.String(), w)
		}
	}
}

var backendsUnderTest = []string{config.BackendFile, config.BackendKV}

func TestOpenServicesFailure(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	h.deps.OpenServices = func() (*service.Services, error) {
		return nil, errors.New("disk on fire")
	}

	Status(h.ctx, h.deps)
	h.mustFail("status", "Failed to open locktime storage")
	if !strings.Contains(h.stderr.String(), "Details: disk on fire") {
		t.Errorf("stderr = %q, expected details", h.stderr.String())
	}
}

func TestFail_Unknown(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	fail(h.deps, errors.New("something odd"))
	h.mustFail("fail", "Error: something odd")
	if strings.Contains(h.stderr.String(), "Hint:") {
		t.Errorf("unexpected hint in %q", h.stderr.String())
	}
}

func TestEntryNoun(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "entries"},
		{1, "entry"},
		{2, "entries"},
	}
	for _, tt := range tests {
		if got := entryNoun(tt.n); got != tt.want {
			t.Errorf("entryNoun(%d) = %q, expected %q", tt.n, got, tt.want)
		}
	}
}
