package handlers

import (
	"testing"
	"time"
)

func TestStats(t *testing.T) {
	h := newHarness(t, "file")
	h.login("alice")

	Stats(h.ctx, h.deps, "", "", 0)
	h.mustSucceed("empty")
	h.expectOut("empty", "Statistics for all sessions", "No events found")

	runSession(h)
	Start(h.ctx, h.deps, "")
	h.advance(30 * time.Minute)
	Pause(h.ctx, h.deps, "shower")
	h.advance(30 * time.Minute)
	Stop(h.ctx, h.deps)
	h.mustSucceed("second session")

	h.reset()
	Stats(h.ctx, h.deps, "", "", 0)
	h.mustSucceed("stats")
	h.expectOut("stats",
		"Sessions:        2",
		"Total locked:    2h",
		"Longest:         1h",
		"Average:         1h",
		"Days:            1",
		"Unlocks:         1",
		"Unlock reasons:",
		"shower")

	h.reset()
	Stats(h.ctx, h.deps, "", "", 1)
	h.mustSucceed("today")
	h.expectOut("today", "Statistics for Fri, Mar 1, 2024", "Sessions:        2")

	h.reset()
	Stats(h.ctx, h.deps, "yesterday-ish", "", 0)
	h.mustFail("bad range", "Invalid date range")
}
