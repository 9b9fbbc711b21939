package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/kvstore"
	"github.com/xolan/locktime/internal/session"
	"github.com/xolan/locktime/internal/tracker"
)

// Key prefixes of the web schema.
const (
	TimerKeyPrefix  = "timer_"
	EventsKeyPrefix = "events_"

	// EventType tags every event record of the web schema.
	EventType = "timer_start"
)

type webTimer struct {
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	IsPaused        bool    `json:"isPaused"`
	PauseStartTime  *string `json:"pauseStartTime"`
	TotalPausedTime int64   `json:"totalPausedTime"`
}

type webEvent struct {
	ID        int64      `json:"id"`
	StartDate string     `json:"startDate"`
	Type      string     `json:"type"`
	EndDate   *string    `json:"endDate,omitempty"`
	Logbook   []webEntry `json:"logbook"`
}

type webEntry struct {
	ID    entryID `json:"id"`
	Title string  `json:"title"`
	Note  string  `json:"note"`
	Date  string  `json:"date"`
}

// entryID accepts both the numeric ids older records carry and string ids.
type entryID string

func (id *entryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = entryID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = entryID(n.String())
	return nil
}

// WebStore keeps state under timer_<user> and events_<user> in a KV store.
type WebStore struct {
	KV kvstore.KV
}

// NewWebStore returns a WebStore over kv.
func NewWebStore(kv kvstore.KV) *WebStore {
	return &WebStore{KV: kv}
}

// Describe implements StateStore.
func (w *WebStore) Describe(user string) string {
	return fmt.Sprintf("%s%s, %s%s", TimerKeyPrefix, user, EventsKeyPrefix, user)
}

// webReport carries what decoding noticed but could not represent.
type webReport struct {
	Exists         bool
	DanglingEvents int
}

// Load implements StateStore.
func (w *WebStore) Load(ctx context.Context, user string) (*tracker.State, error) {
	state, _, err := w.load(ctx, user)
	return state, err
}

func (w *WebStore) load(ctx context.Context, user string) (*tracker.State, webReport, error) {
	var report webReport
	if err := CheckUser(user); err != nil {
		return nil, report, err
	}

	var timer webTimer
	hasTimer, err := kvstore.GetJSON(ctx, w.KV, TimerKeyPrefix+user, &timer)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	var records []webEvent
	hasEvents, err := kvstore.GetJSON(ctx, w.KV, EventsKeyPrefix+user, &records)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	report.Exists = hasTimer || hasEvents

	state := tracker.NewState()
	var unfinished []event.Event
	for i, rec := range records {
		e, err := decodeWebEvent(i, rec)
		if err != nil {
			return nil, report, err
		}
		if e.Completed() {
			state.Events = append(state.Events, e)
			state.Stopped.Add(e.Key())
			continue
		}
		unfinished = append(unfinished, e)
	}

	if timer.StartTime != nil && *timer.StartTime != "" && timer.EndTime == nil {
		start, err := parseTime("startTime", *timer.StartTime)
		if err != nil {
			return nil, report, err
		}
		pauseStart, err := parseOptionalTime("pauseStartTime", timer.PauseStartTime)
		if err != nil {
			return nil, report, err
		}
		sess := session.Start(start)
		sess.IsPaused = timer.IsPaused
		sess.PauseStartTime = pauseStart
		sess.TotalPausedTime = time.Duration(timer.TotalPausedTime) * time.Millisecond
		state.Session = sess
	}

	// The in-progress event is the unfinished record matching the timer. An
	// unfinished record without a running timer revives the session it began.
	report.DanglingEvents = len(unfinished)
	if len(unfinished) > 0 {
		pick := -1
		if state.Session != nil {
			key := event.Key(state.Session.StartTime)
			for i, e := range unfinished {
				if e.Key() == key {
					pick = i
				}
			}
		} else {
			pick = len(unfinished) - 1
			state.Session = session.Start(unfinished[pick].StartDate)
		}
		if pick >= 0 {
			active := unfinished[pick]
			active.StartDate = state.Session.StartTime
			state.Active = &active
			report.DanglingEvents--
		}
	}
	if state.Session != nil && state.Active == nil {
		state.Active = &event.Event{
			ID:        freeID(state.Events, state.Session.StartTime.UnixMilli()),
			StartDate: state.Session.StartTime,
			Logbook:   []event.Entry{},
		}
	}
	return state, report, nil
}

func decodeWebEvent(i int, rec webEvent) (event.Event, error) {
	start, err := parseTime(fmt.Sprintf("events[%d].startDate", i), rec.StartDate)
	if err != nil {
		return event.Event{}, err
	}
	end, err := parseOptionalTime(fmt.Sprintf("events[%d].endDate", i), rec.EndDate)
	if err != nil {
		return event.Event{}, err
	}
	e := event.Event{ID: rec.ID, StartDate: start, EndDate: end, Logbook: []event.Entry{}}
	if end != nil {
		e.Duration = event.ComputeDuration(start, *end)
	}
	for j, raw := range rec.Logbook {
		date, err := parseTime(fmt.Sprintf("events[%d].logbook[%d].date", i, j), raw.Date)
		if err != nil {
			return event.Event{}, err
		}
		id := string(raw.ID)
		if id == "" {
			id = event.NewEntryID()
		}
		e.Logbook = append(e.Logbook, event.Entry{ID: id, Title: raw.Title, Note: raw.Note, Date: date})
	}
	return e, nil
}

// Save implements StateStore. Events are written before the timer, the
// order the browser client used.
func (w *WebStore) Save(ctx context.Context, user string, state *tracker.State) error {
	if err := CheckUser(user); err != nil {
		return err
	}

	records := make([]webEvent, 0, len(state.Events)+1)
	for _, e := range state.Events {
		records = append(records, encodeWebEvent(e))
	}
	if state.Active != nil {
		records = append(records, encodeWebEvent(*state.Active))
	}
	if err := kvstore.SetJSON(ctx, w.KV, EventsKeyPrefix+user, records); err != nil {
		return err
	}

	timer := webTimer{}
	if state.Session != nil {
		start := formatTime(state.Session.StartTime)
		timer.StartTime = &start
		timer.IsPaused = state.Session.IsPaused
		timer.PauseStartTime = timePtr(state.Session.PauseStartTime)
		timer.TotalPausedTime = state.Session.TotalPausedTime.Milliseconds()
	}
	return kvstore.SetJSON(ctx, w.KV, TimerKeyPrefix+user, timer)
}

func encodeWebEvent(e event.Event) webEvent {
	rec := webEvent{
		ID:        e.ID,
		StartDate: e.Key(),
		Type:      EventType,
		EndDate:   timePtr(e.EndDate),
		Logbook:   make([]webEntry, 0, len(e.Logbook)),
	}
	for _, entry := range e.Logbook {
		rec.Logbook = append(rec.Logbook, webEntry{
			ID:    entryID(entry.ID),
			Title: entry.Title,
			Note:  entry.Note,
			Date:  formatTime(entry.Date),
		})
	}
	return rec
}

// UserFromKey returns the username encoded in a timer_ or events_ key.
func UserFromKey(key string) (string, bool) {
	for _, prefix := range []string{TimerKeyPrefix, EventsKeyPrefix} {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			return key[len(prefix):], true
		}
	}
	return "", false
}

// Users implements StateStore.
func (w *WebStore) Users(ctx context.Context) ([]string, error) {
	kv := w.KV
	seen := map[string]bool{}
	var users []string
	for _, prefix := range []string{TimerKeyPrefix, EventsKeyPrefix} {
		keys, err := kv.Keys(ctx, prefix)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if u, ok := UserFromKey(k); ok && !seen[u] {
				seen[u] = true
				users = append(users, u)
			}
		}
	}
	sort.Strings(users)
	return users, nil
}
