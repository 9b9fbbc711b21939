package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xolan/locktime/internal/event"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type exportEntry struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Note  string    `json:"note"`
	Date  time.Time `json:"date"`
}

type exportEvent struct {
	Index        int           `json:"index,omitempty"`
	ID           int64         `json:"id"`
	Key          string        `json:"key"`
	StartDate    time.Time     `json:"startDate"`
	EndDate      *time.Time    `json:"endDate"`
	Duration     string        `json:"duration,omitempty"`
	TotalMinutes int           `json:"totalMinutes"`
	Logbook      []exportEntry `json:"logbook"`
}

type exportDocument struct {
	Metadata struct {
		ExportTimestamp time.Time         `json:"export_timestamp"`
		User            string            `json:"user"`
		TotalEvents     int               `json:"total_events"`
		FilterCriteria  map[string]string `json:"filter_criteria"`
	} `json:"metadata"`
	Active *exportEvent  `json:"active"`
	Events []exportEvent `json:"events"`
}

func toExportEvent(index int, e event.Event) exportEvent {
	out := exportEvent{
		Index:     index,
		ID:        e.ID,
		Key:       e.Key(),
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Logbook:   []exportEntry{},
	}
	if e.Completed() {
		out.Duration = e.Duration.String()
		out.TotalMinutes = e.Duration.TotalMinutes()
	}
	for _, entry := range e.SortedEntries() {
		out.Logbook = append(out.Logbook, exportEntry{ID: entry.ID, Title: entry.Title, Note: entry.Note, Date: entry.Date})
	}
	return out
}

// WriteJSON writes the listing as an indented JSON document.
func WriteJSON(w io.Writer, user string, list EventList, exportedAt time.Time) error {
	var doc exportDocument
	doc.Metadata.ExportTimestamp = exportedAt.UTC()
	doc.Metadata.User = user
	doc.Metadata.TotalEvents = len(list.Events)
	doc.Metadata.FilterCriteria = map[string]string{}
	if !list.Start.IsZero() {
		doc.Metadata.FilterCriteria["from"] = list.Start.Format("2006-01-02")
	}
	if !list.End.IsZero() {
		doc.Metadata.FilterCriteria["to"] = list.End.Format("2006-01-02")
	}
	if list.Active != nil {
		active := toExportEvent(0, *list.Active)
		doc.Active = &active
	}
	doc.Events = make([]exportEvent, 0, len(list.Events))
	for _, ie := range list.Events {
		doc.Events = append(doc.Events, toExportEvent(ie.Index, ie.Event))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// WriteCSV writes one row per completed event. The active event is not
// included.
func WriteCSV(w io.Writer, list EventList) error {
	writer := csv.NewWriter(w)
	header := []string{"index", "id", "start", "end", "days", "hours", "minutes", "total_minutes", "logbook_entries"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, ie := range list.Events {
		e := ie.Event
		end := ""
		if e.EndDate != nil {
			end = e.EndDate.UTC().Format(time.RFC3339)
		}
		row := []string{
			strconv.Itoa(ie.Index),
			strconv.FormatInt(e.ID, 10),
			e.StartDate.UTC().Format(time.RFC3339),
			end,
			strconv.Itoa(e.Duration.Days),
			strconv.Itoa(e.Duration.Hours),
			strconv.Itoa(e.Duration.Minutes),
			strconv.Itoa(e.Duration.TotalMinutes()),
			strconv.Itoa(len(e.Logbook)),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
