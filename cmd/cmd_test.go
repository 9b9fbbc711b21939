package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/config"
	"github.com/xolan/locktime/internal/service"
)

// testEnv runs commands through rootCmd against one data directory.
type testEnv struct {
	t        *testing.T
	dir      string
	now      time.Time
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	exitCode int
}

func newTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	env := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		now:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	SetDeps(&cli.Deps{
		Stdout: env.stdout,
		Stderr: env.stderr,
		Stdin:  strings.NewReader(""),
		Exit:   func(code int) { env.exitCode = code },
		OpenServices: func() (*service.Services, error) {
			cfg := config.DefaultConfig()
			cfg.Backend = backend
			cfg.Timezone = "UTC"
			return service.NewServicesWithPaths(filepath.Join(env.dir, "config.toml"), env.dir, cfg,
				service.WithClock(func() time.Time { return env.now }),
				service.WithBcryptCost(bcrypt.MinCost))
		},
		IsInteractive: func() bool { return false },
		Now:           func() time.Time { return env.now },
	})
	t.Cleanup(ResetDeps)
	return env
}

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps parsed values between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the command line and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	e.stdout.Reset()
	e.stderr.Reset()
	e.exitCode = 0
	resetFlags(rootCmd)
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		e.exitCode = 1
		e.stderr.WriteString(err.Error())
	}
	return e.stdout.String()
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out := e.run(args...)
	if e.exitCode != 0 {
		e.t.Fatalf("%v exited with %d\nstdout: %s\nstderr: %s", args, e.exitCode, out, e.stderr.String())
	}
	return out
}

func (e *testEnv) mustFail(wantErr string, args ...string) {
	e.t.Helper()
	out := e.run(args...)
	if e.exitCode == 0 {
		e.t.Fatalf("%v should fail\nstdout: %s", args, out)
	}
	if !strings.Contains(e.stderr.String(), wantErr) {
		e.t.Errorf("%v: stderr = %q, expected to contain %q", args, e.stderr.String(), wantErr)
	}
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output %q does not contain %q", got, w)
		}
	}
}

func TestWorkflow(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendKV} {
		t.Run(backend, func(t *testing.T) {
			env := newTestEnv(t, backend)

			env.mustRun("register", "alice", "--password", "pw")
			env.mustFail("Invalid username or password", "login", "alice", "--password", "nope")
			assertContains(t, env.mustRun("login", "alice", "--password", "pw", "--remember"), "Logged in as alice")

			assertContains(t, env.mustRun("start", "--at", "30m ago"), "Session started at Fri Mar 1 2024 09:30")
			env.now = env.now.Add(time.Hour)
			assertContains(t, env.mustRun("pause", "quick", "shower"), "Device unlocked for: quick shower")
			env.now = env.now.Add(10 * time.Minute)
			env.mustRun("resume")
			assertContains(t, env.mustRun(), "00d 01h 00m 00s", "Unlocked: 10m in total")

			env.mustRun("log", "add", "active", "Checked", "fit", "--note", "snug")
			assertContains(t, env.mustRun("log", "list"), "Checked fit", "snug", "Unlock Reason")

			env.now = env.now.Add(20 * time.Minute)
			assertContains(t, env.mustRun("stop"), "Session stopped after 0d 1h 30m")
			assertContains(t, env.mustRun("events", "--last", "1"), "[1] Fri Mar 1 2024 09:30 -> Fri Mar 1 2024 11:00", "(2 notes)")

			env.mustRun("log", "rm", "1", "1")
			assertContains(t, env.mustRun("log", "ls", "1"), "Unlock Reason")

			assertContains(t, env.mustRun("export", "--format", "csv"), "index,id,start,end")
			assertContains(t, env.mustRun("events", "--search", "shower", "--unlocked"), `Filter: "shower", unlocked`, "[1]")
			env.mustFail("Invalid --min", "events", "--min", "later")
			assertContains(t, env.mustRun("stats", "--last", "7"), "Sessions:        1", "Unlocks:         1", "quick shower")

			assertContains(t, env.mustRun("clear", "--yes"), "Deleted 1 event and 1 logbook entry")

			env.mustRun("logout")
			env.mustFail("Not logged in", "status")
			assertContains(t, env.mustRun("login", "--password", "pw"), "Logged in as alice")
		})
	}
}

func TestProfileCommands(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.mustRun("register", "bob", "--password", "pw")
	env.mustRun("login", "bob", "--password", "pw")

	env.mustFail("No profile fields given", "profile", "set")
	env.mustRun("profile", "set", "--name", "Bobby", "--keyholder", "Kim")
	// Only changed flags are applied
	out := env.mustRun("profile", "set", "--device", "cage")
	assertContains(t, out, "Name:      Bobby", "Keyholder: Kim", "Device:    cage")
	assertContains(t, env.mustRun("whoami"), "User:      bob", "Backend:   file")
}

func TestFlagsDoNotLeak(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.mustRun("register", "carol", "--password", "pw")
	env.mustRun("login", "carol", "--password", "pw")

	env.mustFail("Invalid --at value", "start", "--at", "garbage")
	assertContains(t, env.mustRun("start"), "Session started at Fri Mar 1 2024 10:00")
}

func TestArgumentValidation(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"register without name", []string{"register"}, "accepts 1 arg"},
		{"pause without reason", []string{"pause"}, "requires at least 1 arg"},
		{"log add without title", []string{"log", "add", "1"}, "requires at least 2 arg"},
		{"migrate without flags", []string{"migrate"}, "required flag"},
		{"restore bad number", []string{"restore", "x"}, "Invalid backup number"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.mustFail(tt.wantErr, tt.args...)
		})
	}
}

func TestMigrateAndRestoreCommands(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.mustRun("register", "dana", "--password", "pw")
	env.mustRun("login", "dana", "--password", "pw")
	env.mustRun("start")
	env.now = env.now.Add(time.Hour)
	env.mustRun("stop")

	assertContains(t, env.mustRun("restore", "--list"), "Available backups:", "(most recent)")
	assertContains(t, env.mustRun("restore"), "Successfully restored from backup 1")
	assertContains(t, env.mustRun("status"), "00d 01h 00m 00s")

	assertContains(t, env.mustRun("migrate", "--from", "file", "--to", "kv"), "Migrated dana: 0 events and the active session")
	assertContains(t, env.mustRun("validate"), "Status:          OK")
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	assertContains(t, env.mustRun("config"), "Configuration for locktime", "backend:       file")
	assertContains(t, env.mustRun("config", "path"), filepath.Join(env.dir, "config.toml"))
	assertContains(t, env.mustRun("config", "init"), "Created")
	env.mustFail("Failed to create config file", "config", "init")
}

func TestSetVersionInfo(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	SetVersionInfo("1.2.3", "abc", "today")
	assertContains(t, env.mustRun("--version"), "locktime version 1.2.3", "commit: abc")
}
