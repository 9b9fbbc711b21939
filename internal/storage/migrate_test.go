package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/xolan/locktime/internal/kvstore"
)

func TestMigrate_DesktopToWebAndBack(t *testing.T) {
	ctx := context.Background()
	desktop := newDesktop(t)
	web := NewWebStore(kvstore.NewMemory())

	want := sampleState(t)
	if err := desktop.Save(ctx, "alice", want); err != nil {
		t.Fatal(err)
	}
	if err := desktop.Save(ctx, "bob", sampleStateIdle(t)); err != nil {
		t.Fatal(err)
	}

	results, err := Migrate(ctx, desktop, web, nil, false)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if len(results) != 2 || results[0].User != "alice" || !results[0].Active || results[1].Events != 2 {
		t.Errorf("unexpected results %+v", results)
	}

	got, err := web.Load(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	assertSameState(t, want, got)

	// And back into an empty desktop store
	other := newDesktop(t)
	if _, err := Migrate(ctx, web, other, []string{"alice"}, false); err != nil {
		t.Fatalf("Migrate() back error: %v", err)
	}
	got, err = other.Load(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	assertSameState(t, want, got)
}

func TestMigrate_RefusesToOverwrite(t *testing.T) {
	ctx := context.Background()
	desktop := newDesktop(t)
	web := NewWebStore(kvstore.NewMemory())

	_ = desktop.Save(ctx, "alice", sampleState(t))
	_ = web.Save(ctx, "alice", sampleStateIdle(t))

	_, err := Migrate(ctx, desktop, web, []string{"alice"}, false)
	if !errors.Is(err, ErrTargetNotEmpty) {
		t.Fatalf("expected ErrTargetNotEmpty, got %v", err)
	}

	if _, err := Migrate(ctx, desktop, web, []string{"alice"}, true); err != nil {
		t.Fatalf("Migrate(overwrite) error: %v", err)
	}
	got, _ := web.Load(ctx, "alice")
	if !got.IsActive() {
		t.Error("overwrite should have replaced the idle state")
	}
}

func TestMigrate_CorruptSource(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	_ = kv.Set(ctx, "events_alice", "{")

	_, err := Migrate(ctx, NewWebStore(kv), newDesktop(t), nil, false)
	if !errors.Is(err, ErrCorruptState) {
		t.Errorf("expected ErrCorruptState, got %v", err)
	}
}

func TestMigrate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	desktop := newDesktop(t)
	_ = desktop.Save(context.Background(), "alice", sampleState(t))

	_, err := Migrate(ctx, desktop, NewWebStore(kvstore.NewMemory()), nil, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
