package timeutil

import (
	"strings"
	"testing"
	"time"
)

func TestStartEndOfDay(t *testing.T) {
	ts := time.Date(2024, 3, 10, 15, 4, 5, 6, time.UTC)
	if got := StartOfDay(ts); !got.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", got)
	}
	if got := EndOfDay(ts); !got.Equal(time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC)) {
		t.Errorf("EndOfDay() = %v", got)
	}
}

func TestParseDateRangeFlags(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		from, to  string
		last      int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{
			name:    "no flags",
			wantEnd: time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "last 7",
			last:      7,
			wantStart: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "from and to",
			from:      "2024-03-01",
			to:        "05/03/2024",
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 5, 23, 59, 59, 999999999, time.UTC),
		},
		{name: "last with from", from: "2024-03-01", last: 2, wantErr: "cannot use --last"},
		{name: "negative last", last: -1, wantErr: "must be positive"},
		{name: "bad from", from: "x", wantErr: "invalid --from"},
		{name: "bad to", to: "2024", wantErr: "invalid --to"},
		{name: "inverted", from: "2024-03-09", to: "2024-03-01", wantErr: "is after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseDateRangeFlags(tt.from, tt.to, tt.last, now, time.UTC)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, expected to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("range = [%v, %v], expected [%v, %v]", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := EndOfDay(start)
	tests := []struct {
		name  string
		t     time.Time
		start time.Time
		want  bool
	}{
		{"inside", start.Add(time.Hour), start, true},
		{"at start", start, start, true},
		{"before", start.Add(-time.Second), start, false},
		{"after", end.Add(time.Nanosecond), start, false},
		{"unbounded start", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(tt.t, tt.start, end); got != tt.want {
				t.Errorf("InRange() = %v, expected %v", got, tt.want)
			}
		})
	}
}
