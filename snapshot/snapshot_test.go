package snapshot

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNew_TimestampUTC(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	now := time.Date(2026, 10, 16, 14, 30, 5, 123_456_789, loc)

	s := New(now, nil)
	if s.Timestamp != "2026-10-16T12:30:05.123Z" {
		t.Errorf("Timestamp: got %q, want %q", s.Timestamp, "2026-10-16T12:30:05.123Z")
	}
	if s.Markets == nil {
		t.Error("Markets: got nil, want empty slice")
	}
	got, err := s.Time()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now.Truncate(time.Millisecond)) {
		t.Errorf("Time: got %v, want %v", got, now.Truncate(time.Millisecond))
	}
}

func TestMarshalLine(t *testing.T) {
	s := New(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), []MarketEntry{
		{Title: "Will X & Y happen by 2025?", Price: "4.5¢", URL: "https://polymarket.com/event/x"},
	})

	line, err := MarshalLine(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"timestamp":"2026-01-02T03:04:05.000Z","markets":[{"title":"Will X & Y happen by 2025?","price":"4.5¢","url":"https://polymarket.com/event/x"}]}` + "\n"
	if string(line) != want {
		t.Errorf("MarshalLine:\n got %s\nwant %s", line, want)
	}
	if bytes.Count(line, []byte("\n")) != 1 {
		t.Errorf("MarshalLine: want exactly one newline, got %q", line)
	}

	back, err := UnmarshalLine(line)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, *back); diff != "" {
		t.Errorf("UnmarshalLine mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalLine_EmptyMarketsIsArray(t *testing.T) {
	line, err := MarshalLine(Snapshot{Timestamp: "2026-01-02T03:04:05.000Z"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(line), `"markets":[]`) {
		t.Errorf("MarshalLine: want empty array, got %s", line)
	}
}

func TestValidPrice(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"63%", true},
		{"5%", true},
		{"4.5¢", true},
		{"12.3¢", true},
		{"N/A", true},
		{"100%", false},
		{"4.55¢", false},
		{"63", false},
		{"", false},
		{" 63%", false},
	}
	for _, tt := range tests {
		if got := ValidPrice(tt.in); got != tt.want {
			t.Errorf("ValidPrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	ts := "2026-01-02T03:04:05.000Z"
	good := MarketEntry{Title: "Will X happen by 2025?", Price: "63%", URL: "https://polymarket.com/event/x"}

	tests := []struct {
		name string
		snap Snapshot
		want error
	}{
		{"ok", Snapshot{Timestamp: ts, Markets: []MarketEntry{good}}, nil},
		{"empty", Snapshot{Timestamp: ts}, nil},
		{"bad timestamp", Snapshot{Timestamp: "yesterday"}, ErrBadTimestamp},
		{"too many", Snapshot{Timestamp: ts, Markets: []MarketEntry{good, good, good}}, ErrTooManyMarkets},
		{"short title", Snapshot{Timestamp: ts, Markets: []MarketEntry{{Title: "0123456789", Price: "N/A", URL: good.URL}}}, ErrShortTitle},
		{"bad price", Snapshot{Timestamp: ts, Markets: []MarketEntry{{Title: good.Title, Price: "63", URL: good.URL}}}, ErrBadPrice},
		{"relative url", Snapshot{Timestamp: ts, Markets: []MarketEntry{{Title: good.Title, Price: "63%", URL: "/event/x"}}}, ErrBadURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate(2, 10)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate: got %v, want %v", err, tt.want)
			}
		})
	}
}
