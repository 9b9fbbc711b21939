package handlers

import (
	"strings"
	"testing"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/config"
)

func TestRegisterLoginLogout(t *testing.T) {
	for _, backend := range backendsUnderTest {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, backend)

			h.input("pw\npw\n")
			Register(h.ctx, h.deps, "alice", "")
			h.mustSucceed("register")
			h.expectOut("register", "Registered alice")

			h.reset()
			Register(h.ctx, h.deps, "alice", "other")
			h.mustFail("register again", "Username already exists")

			h.reset()
			Login(h.ctx, h.deps, "alice", "wrong", false)
			h.mustFail("bad login", "Invalid username or password")

			h.reset()
			h.input("pw\n")
			Login(h.ctx, h.deps, "alice", "", false)
			h.mustSucceed("login")
			h.expectOut("login", "Logged in as alice")

			h.reset()
			Whoami(h.ctx, h.deps)
			h.mustSucceed("whoami")
			h.expectOut("whoami", "User:      alice", "Keyholder: self-locked", "Backend:   "+backend)

			h.reset()
			Logout(h.ctx, h.deps)
			h.mustSucceed("logout")
			h.expectOut("logout", "Logged out alice")

			h.reset()
			Whoami(h.ctx, h.deps)
			h.mustFail("whoami after logout", "Not logged in")
		})
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	h.input("one\ntwo\n")
	Register(h.ctx, h.deps, "alice", "")
	h.mustFail("register", "Passwords do not match")
}

func TestRegister_InvalidUsername(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	Register(h.ctx, h.deps, "../bob", "pw")
	if h.exitCode != 1 {
		t.Fatalf("expected failure, stdout: %s", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "Invalid username") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestLogin_Remembered(t *testing.T) {
	h := newHarness(t, config.BackendKV)
	Register(h.ctx, h.deps, "alice", "pw")
	Login(h.ctx, h.deps, "alice", "pw", true)
	Logout(h.ctx, h.deps)
	h.mustSucceed("setup")

	h.reset()
	Whoami(h.ctx, h.deps)
	h.mustFail("whoami", "Not logged in")

	h.reset()
	Login(h.ctx, h.deps, "", "pw", false)
	h.mustSucceed("login remembered")
	h.expectOut("login remembered", "Logging in as alice", "Logged in as alice")
}

func TestLogin_NoUser(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	Login(h.ctx, h.deps, " ", "pw", false)
	h.mustFail("login", "No username given")
}

func TestProfile(t *testing.T) {
	h := newHarness(t, config.BackendFile)
	h.login("alice")

	ShowProfile(h.ctx, h.deps)
	h.mustSucceed("show")
	h.expectOut("show", "Name:      alice", "Device:    Not set")

	h.reset()
	SetProfile(h.ctx, h.deps, ProfileUpdate{})
	h.mustFail("empty set", "No profile fields given")

	name, keyholder := "Al", "Kim"
	h.reset()
	SetProfile(h.ctx, h.deps, ProfileUpdate{DisplayName: &name, Keyholder: &keyholder})
	h.mustSucceed("set")
	h.expectOut("set", "Profile saved", "Name:      Al", "Keyholder: Kim")

	device := "custom"
	h.reset()
	SetProfile(h.ctx, h.deps, ProfileUpdate{DeviceType: &device})
	h.mustFail("custom without name", "A custom device name is required")

	custom := "Steel belt"
	h.reset()
	SetProfile(h.ctx, h.deps, ProfileUpdate{DeviceType: &device, CustomDevice: &custom})
	h.mustSucceed("custom")
	// Fields not given keep their stored value
	h.expectOut("custom", "Name:      Al", "Device:    Steel belt")
}

func TestProfileUpdate_Apply(t *testing.T) {
	name := "New"
	u := ProfileUpdate{DisplayName: &name}
	if u.Empty() {
		t.Fatal("Empty() = true with a field set")
	}
	if !(ProfileUpdate{}).Empty() {
		t.Error("Empty() = false for zero update")
	}

	got := u.apply(account.Profile{DisplayName: "Old", Keyholder: "Kim"})
	want := account.Profile{DisplayName: "New", Keyholder: "Kim"}
	if got != want {
		t.Errorf("apply() = %+v, expected %+v", got, want)
	}
}
