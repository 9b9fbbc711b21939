package handlers

import (
	"strings"
	"testing"
	"time"
)

func TestLogbook(t *testing.T) {
	for _, backend := range backendsUnderTest {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, backend)
			h.login("alice")
			Start(h.ctx, h.deps, "")
			h.advance(time.Hour)
			Pause(h.ctx, h.deps, "shower")
			h.advance(time.Hour)
			Stop(h.ctx, h.deps)
			h.mustSucceed("setup")

			h.reset()
			AddNote(h.ctx, h.deps, "1", "Checkup", "all good")
			h.mustSucceed("add")
			h.expectOut("add", `Added logbook entry "Checkup"`)

			h.reset()
			AddNote(h.ctx, h.deps, "1", " ", "")
			h.mustFail("empty title", "Logbook title cannot be empty")

			h.reset()
			ListNotes(h.ctx, h.deps, "1")
			h.mustSucceed("list")
			h.expectOut("list",
				"Event Fri Mar 1 2024 10:00 -> Fri Mar 1 2024 12:00",
				"1. Fri Mar 1 2024 12:00  Checkup",
				"all good",
				"2. Fri Mar 1 2024 11:00  Unlock Reason",
				"Device unlocked for: shower")

			h.reset()
			DeleteNote(h.ctx, h.deps, "1", "1")
			h.mustSucceed("delete")
			h.expectOut("delete", `Deleted logbook entry "Checkup"`)

			h.reset()
			DeleteNote(h.ctx, h.deps, "1", "5")
			h.mustFail("delete missing", "Logbook entry not found")

			h.reset()
			ListNotes(h.ctx, h.deps, "1")
			if strings.Contains(h.stdout.String(), "Checkup") {
				t.Errorf("deleted entry still listed: %s", h.stdout.String())
			}
		})
	}
}

func TestLogbook_BadRefs(t *testing.T) {
	h := newHarness(t, "file")
	h.login("alice")

	ListNotes(h.ctx, h.deps, "active")
	h.mustFail("active without session", "No session is active")

	h.reset()
	ListNotes(h.ctx, h.deps, "9")
	h.mustFail("missing event", "Event not found")

	h.reset()
	AddNote(h.ctx, h.deps, "yesterday", "x", "")
	h.mustFail("garbage ref", "Event not found")
}

func TestLogbook_Active(t *testing.T) {
	h := newHarness(t, "kv")
	h.login("alice")
	Start(h.ctx, h.deps, "")
	h.reset()

	AddNote(h.ctx, h.deps, "active", "Started", "")
	h.mustSucceed("add")

	h.reset()
	ListNotes(h.ctx, h.deps, "active")
	h.expectOut("list", "-> running", "1. Fri Mar 1 2024 10:00  Started")
}
