package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/session"
	"github.com/xolan/locktime/internal/tracker"
)

const (
	// UsersDir holds one directory per user below the data directory
	UsersDir = "users"
	// StateFile is the name of the per-user desktop state file
	StateFile = "timer-data.json"
)

// desktopFile is the on-disk desktop schema. The pause fields and ids are
// optional so files written by older tools still load.
type desktopFile struct {
	StartTime       *string        `json:"startTime"`
	LastUpdated     string         `json:"lastUpdated"`
	Events          []desktopEvent `json:"events"`
	StoppedEvents   []string       `json:"stoppedEvents"`
	LogbookEntries  []desktopEntry `json:"logbookEntries"`
	ActiveEventID   int64          `json:"activeEventId,omitempty"`
	IsPaused        bool           `json:"isPaused,omitempty"`
	PauseStartTime  *string        `json:"pauseStartTime,omitempty"`
	TotalPausedTime int64          `json:"totalPausedTime,omitempty"`
}

type desktopEvent struct {
	ID        int64            `json:"id,omitempty"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Duration  *desktopDuration `json:"duration,omitempty"`
}

type desktopDuration struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type desktopEntry struct {
	ID        string `json:"id,omitempty"`
	EventID   string `json:"eventId"`
	Title     string `json:"title"`
	Note      string `json:"note"`
	Timestamp string `json:"timestamp"`
}

// DesktopStore keeps each user's state in <Dir>/users/<user>/timer-data.json.
type DesktopStore struct {
	Dir string
	// Now stamps lastUpdated when the state carries none. Defaults to time.Now.
	Now func() time.Time
}

// NewDesktopStore returns a DesktopStore rooted at dir.
func NewDesktopStore(dir string) *DesktopStore {
	return &DesktopStore{Dir: dir, Now: time.Now}
}

// Path returns the state file of user.
func (d *DesktopStore) Path(user string) string {
	return filepath.Join(d.Dir, UsersDir, user, StateFile)
}

// Describe implements StateStore.
func (d *DesktopStore) Describe(user string) string {
	return d.Path(user)
}

// Users implements StateStore.
func (d *DesktopStore) Users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(d.Dir, UsersDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var users []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(d.Path(e.Name())); err == nil {
			users = append(users, e.Name())
		}
	}
	return users, nil
}

// Load implements StateStore.
func (d *DesktopStore) Load(_ context.Context, user string) (*tracker.State, error) {
	if err := CheckUser(user); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.Path(user))
	if err != nil {
		if os.IsNotExist(err) {
			return tracker.NewState(), nil
		}
		return nil, err
	}
	state, _, err := decodeDesktop(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Path(user), err)
	}
	return state, nil
}

// Save implements StateStore. The previous file is rotated into the
// backups and the new one is written through a temp file and rename.
func (d *DesktopStore) Save(_ context.Context, user string, state *tracker.State) error {
	if err := CheckUser(user); err != nil {
		return err
	}
	path := d.Path(user)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	data, err := json.MarshalIndent(encodeDesktop(state, now()), "", "  ")
	if err != nil {
		return err
	}

	if err := CreateBackup(path); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, path)
}

// CheckBackup verifies that backup n of the state file at path exists and
// decodes.
func CheckBackup(path string, n int) error {
	if n < 1 || n > MaxBackupCount {
		return fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, MaxBackupCount)
	}
	data, err := os.ReadFile(BackupPath(path, n))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %d", ErrBackupNotFound, n)
		}
		return err
	}
	if _, _, err := decodeDesktop(data); err != nil {
		return fmt.Errorf("backup %d: %w", n, err)
	}
	return nil
}

// desktopReport carries what decoding noticed but could not represent.
type desktopReport struct {
	// OrphanEntries counts entries with no event, and entries whose key
	// was already claimed by an earlier event.
	OrphanEntries int
}

func decodeDesktop(data []byte) (*tracker.State, desktopReport, error) {
	var report desktopReport
	state := tracker.NewState()
	if strings.TrimSpace(string(data)) == "" {
		return state, report, nil
	}

	var f desktopFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	if f.LastUpdated != "" {
		t, err := parseTime("lastUpdated", f.LastUpdated)
		if err != nil {
			return nil, report, err
		}
		state.LastUpdated = t
	}

	byKey := map[string][]event.Entry{}
	for i, raw := range f.LogbookEntries {
		date, err := parseTime(fmt.Sprintf("logbookEntries[%d].timestamp", i), raw.Timestamp)
		if err != nil {
			return nil, report, err
		}
		id := raw.ID
		if id == "" {
			id = event.NewEntryID()
		}
		key := raw.EventID
		if t, err := event.ParseKey(raw.EventID); err == nil {
			key = event.Key(t)
		}
		byKey[key] = append(byKey[key], event.Entry{ID: id, Title: raw.Title, Note: raw.Note, Date: date})
	}
	// Entries belong to the first event with their key. A later event
	// sharing the key gets none, and the entries it would have shared are
	// reported as orphans.
	claimed := map[string]bool{}
	claim := func(key string) []event.Entry {
		if claimed[key] {
			report.OrphanEntries += len(byKey[key])
			return []event.Entry{}
		}
		claimed[key] = true
		return append([]event.Entry{}, byKey[key]...)
	}

	for i, raw := range f.Events {
		start, err := parseTime(fmt.Sprintf("events[%d].startDate", i), raw.StartDate)
		if err != nil {
			return nil, report, err
		}
		end, err := parseTime(fmt.Sprintf("events[%d].endDate", i), raw.EndDate)
		if err != nil {
			return nil, report, err
		}
		e := event.Event{ID: raw.ID, StartDate: start, EndDate: &end}
		if raw.Duration != nil {
			e.Duration = event.Duration{Days: raw.Duration.Days, Hours: raw.Duration.Hours, Minutes: raw.Duration.Minutes}
		} else {
			e.Duration = event.ComputeDuration(start, end)
		}
		if e.ID == 0 {
			e.ID = freeID(state.Events, start.UnixMilli())
		}
		e.Logbook = claim(e.Key())
		state.Events = append(state.Events, e)
	}

	for _, k := range f.StoppedEvents {
		if t, err := event.ParseKey(k); err == nil {
			k = event.Key(t)
		}
		state.Stopped.Add(k)
	}

	if f.StartTime != nil && *f.StartTime != "" {
		start, err := parseTime("startTime", *f.StartTime)
		if err != nil {
			return nil, report, err
		}
		pauseStart, err := parseOptionalTime("pauseStartTime", f.PauseStartTime)
		if err != nil {
			return nil, report, err
		}
		sess := session.Start(start)
		sess.IsPaused = f.IsPaused
		sess.PauseStartTime = pauseStart
		sess.TotalPausedTime = time.Duration(f.TotalPausedTime) * time.Millisecond
		state.Session = sess

		id := f.ActiveEventID
		if id == 0 {
			id = freeID(state.Events, sess.StartTime.UnixMilli())
		}
		active := &event.Event{ID: id, StartDate: sess.StartTime}
		active.Logbook = claim(active.Key())
		state.Active = active
	}

	for k, entries := range byKey {
		if !claimed[k] {
			report.OrphanEntries += len(entries)
		}
	}
	return state, report, nil
}

func encodeDesktop(state *tracker.State, now time.Time) desktopFile {
	f := desktopFile{
		Events:         []desktopEvent{},
		StoppedEvents:  state.Stopped.Sorted(),
		LogbookEntries: []desktopEntry{},
	}
	if f.StoppedEvents == nil {
		f.StoppedEvents = []string{}
	}

	lastUpdated := state.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = now
	}
	f.LastUpdated = formatTime(lastUpdated)

	for _, e := range state.Events {
		end := e.StartDate
		if e.EndDate != nil {
			end = *e.EndDate
		}
		f.Events = append(f.Events, desktopEvent{
			ID:        e.ID,
			StartDate: e.Key(),
			EndDate:   event.Key(end),
			Duration:  &desktopDuration{Days: e.Duration.Days, Hours: e.Duration.Hours, Minutes: e.Duration.Minutes},
		})
		f.LogbookEntries = appendDesktopEntries(f.LogbookEntries, e)
	}

	if state.Session != nil {
		start := event.Key(state.Session.StartTime)
		f.StartTime = &start
		f.IsPaused = state.Session.IsPaused
		f.PauseStartTime = timePtr(state.Session.PauseStartTime)
		f.TotalPausedTime = state.Session.TotalPausedTime.Milliseconds()
		if state.Active != nil {
			f.ActiveEventID = state.Active.ID
			f.LogbookEntries = appendDesktopEntries(f.LogbookEntries, *state.Active)
		}
	}
	return f
}

// appendDesktopEntries flattens an event's logbook, oldest first.
func appendDesktopEntries(dst []desktopEntry, e event.Event) []desktopEntry {
	entries := append([]event.Entry{}, e.Logbook...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	for _, entry := range entries {
		dst = append(dst, desktopEntry{
			ID:        entry.ID,
			EventID:   e.Key(),
			Title:     entry.Title,
			Note:      entry.Note,
			Timestamp: formatTime(entry.Date),
		})
	}
	return dst
}

// freeID returns id, bumped until no event uses it.
func freeID(events []event.Event, id int64) int64 {
	for event.FindByID(events, id) >= 0 {
		id++
	}
	return id
}
