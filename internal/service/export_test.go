package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"
)

func exportFixture(t *testing.T) EventList {
	t.Helper()
	ctx := context.Background()
	svc, clock := newTestServices(t, "file")
	runSessions(t, svc.Tracker, clock, "alice", 0, 24*time.Hour)
	if _, err := svc.Tracker.AddNote(ctx, "alice", "2", "Title", "a note, with a comma"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Tracker.Start(ctx, "alice", time.Time{}); err != nil {
		t.Fatal(err)
	}
	list, err := svc.Tracker.Events(ctx, "alice", time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportFixture(t)); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "index" || rows[0][8] != "logbook_entries" {
		t.Errorf("unexpected header %v", rows[0])
	}
	// Newest first; the oldest event carries the note
	if rows[1][2] != "2024-03-02T10:00:00Z" || rows[2][2] != "2024-03-01T10:00:00Z" {
		t.Errorf("unexpected order: %v / %v", rows[1], rows[2])
	}
	if rows[2][5] != "1" || rows[2][7] != "60" || rows[2][8] != "1" {
		t.Errorf("unexpected row %v", rows[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	exportedAt := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if err := WriteJSON(&buf, "alice", exportFixture(t), exportedAt); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var doc struct {
		Metadata struct {
			User        string `json:"user"`
			TotalEvents int    `json:"total_events"`
		} `json:"metadata"`
		Active *struct {
			EndDate *string `json:"endDate"`
		} `json:"active"`
		Events []struct {
			Index        int    `json:"index"`
			Key          string `json:"key"`
			TotalMinutes int    `json:"totalMinutes"`
			Logbook      []struct {
				Note string `json:"note"`
			} `json:"logbook"`
		} `json:"events"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Metadata.User != "alice" || doc.Metadata.TotalEvents != 2 {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if doc.Active == nil || doc.Active.EndDate != nil {
		t.Errorf("active = %+v", doc.Active)
	}
	if len(doc.Events) != 2 || doc.Events[1].Index != 2 || doc.Events[1].Key != "2024-03-01T10:00:00.000Z" {
		t.Fatalf("events = %+v", doc.Events)
	}
	if doc.Events[1].TotalMinutes != 60 || len(doc.Events[1].Logbook) != 1 || doc.Events[1].Logbook[0].Note != "a note, with a comma" {
		t.Errorf("event 2 = %+v", doc.Events[1])
	}
}
