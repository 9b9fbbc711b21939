package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xolan/locktime/internal/account"
)

func TestAccountService_RegisterLoginLogout(t *testing.T) {
	for _, backend := range backendsUnderTest {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			svc, _ := newTestServices(t, backend)
			acc := svc.Account

			if err := acc.Register(ctx, " alice ", "secret"); err != nil {
				t.Fatalf("Register() error: %v", err)
			}
			if err := acc.Register(ctx, "alice", "other"); !errors.Is(err, account.ErrUserExists) {
				t.Errorf("expected ErrUserExists, got %v", err)
			}
			if _, err := acc.Current(ctx); !errors.Is(err, account.ErrNotLoggedIn) {
				t.Errorf("expected ErrNotLoggedIn before login, got %v", err)
			}

			if err := acc.Login(ctx, "alice", "wrong", false); !errors.Is(err, account.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
			if err := acc.Login(ctx, "alice", "secret", true); err != nil {
				t.Fatalf("Login() error: %v", err)
			}

			who, err := acc.Whoami(ctx)
			if err != nil {
				t.Fatalf("Whoami() error: %v", err)
			}
			if who.User != "alice" || !who.Remembered {
				t.Errorf("Whoami() = %+v", who)
			}

			user, err := acc.Logout(ctx)
			if err != nil || user != "alice" {
				t.Fatalf("Logout() = %q, %v", user, err)
			}
			if _, err := acc.Logout(ctx); !errors.Is(err, account.ErrNotLoggedIn) {
				t.Errorf("expected ErrNotLoggedIn on second logout, got %v", err)
			}
			if remembered, ok, err := acc.Remembered(ctx); err != nil || !ok || remembered != "alice" {
				t.Errorf("Remembered() = %q, %v, %v", remembered, ok, err)
			}

			users, err := acc.Users(ctx)
			if err != nil || len(users) != 1 || users[0] != "alice" {
				t.Errorf("Users() = %v, %v", users, err)
			}
		})
	}
}

func TestAccountService_Profile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, "file")
	acc := svc.Account

	if err := acc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := acc.Login(ctx, "bob", "pw", false); err != nil {
		t.Fatal(err)
	}

	who, err := acc.Whoami(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if who.Profile.Name(who.User) != "bob" || who.Remembered {
		t.Errorf("Whoami() = %+v", who)
	}

	if err := acc.SaveProfile(ctx, "bob", account.Profile{DeviceType: "custom"}); !errors.Is(err, account.ErrCustomDeviceRequired) {
		t.Errorf("expected ErrCustomDeviceRequired, got %v", err)
	}
	want := account.Profile{DisplayName: "Bobby", Keyholder: "Sam", DeviceType: "custom", CustomDevice: "Belt"}
	if err := acc.SaveProfile(ctx, "bob", want); err != nil {
		t.Fatalf("SaveProfile() error: %v", err)
	}
	got, err := acc.Profile(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Profile() = %+v, expected %+v", got, want)
	}
}
