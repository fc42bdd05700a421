package classify

import (
	"testing"
	"time"

	"github.com/ghrecap/ghrecap/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return ts
}

func testWindow(t *testing.T) Window {
	t.Helper()
	return NewWindow(
		mustTime(t, "2024-01-15T00:00:00Z"),
		mustTime(t, "2024-01-20T00:00:00Z"),
	)
}

func TestWindowContains(t *testing.T) {
	win := testWindow(t)

	tests := []struct {
		name string
		ts   string
		want bool
	}{
		{"before start", "2024-01-14T23:59:59Z", false},
		{"at start", "2024-01-15T00:00:00Z", true},
		{"mid window", "2024-01-17T12:00:00Z", true},
		{"start of end day", "2024-01-20T00:00:00Z", true},
		{"late on end day", "2024-01-20T23:59:59Z", true},
		{"just past end day", "2024-01-21T00:00:01Z", false},
		{"exactly next midnight", "2024-01-21T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := win.Contains(mustTime(t, tt.ts)); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestWindowContainsOpenEnded(t *testing.T) {
	noStart := Window{End: mustTime(t, "2024-01-20T00:00:00Z")}
	if !noStart.Contains(mustTime(t, "2000-01-01T00:00:00Z")) {
		t.Error("window without start should accept arbitrarily old timestamps")
	}
	if noStart.Contains(mustTime(t, "2024-01-21T00:00:00Z")) {
		t.Error("window without start should still enforce the end bound")
	}

	noEnd := Window{Start: mustTime(t, "2024-01-15T00:00:00Z")}
	if !noEnd.Contains(mustTime(t, "2030-01-01T00:00:00Z")) {
		t.Error("window without end should accept arbitrarily new timestamps")
	}
	if noEnd.Contains(mustTime(t, "2024-01-14T00:00:00Z")) {
		t.Error("window without end should still enforce the start bound")
	}
}

func TestNewWindowTruncatesToDayStart(t *testing.T) {
	win := NewWindow(
		mustTime(t, "2024-01-15T13:45:00Z"),
		mustTime(t, "2024-01-20T01:02:03Z"),
	)
	if !win.Contains(mustTime(t, "2024-01-15T00:30:00Z")) {
		t.Error("start day should be included from midnight regardless of the given time of day")
	}
	if !win.Contains(mustTime(t, "2024-01-20T23:00:00Z")) {
		t.Error("end day should be included in full regardless of the given time of day")
	}
}

func TestFilterSearchItems(t *testing.T) {
	win := testWindow(t)

	items := []model.Item{
		{Title: "in window", URL: "https://github.com/o/r/issues/1", UpdatedAt: mustTime(t, "2024-01-16T10:00:00Z")},
		{Title: "", URL: "https://github.com/o/r/issues/2", UpdatedAt: mustTime(t, "2024-01-16T10:00:00Z")},
		{Title: "too old", URL: "https://github.com/o/r/issues/3", UpdatedAt: mustTime(t, "2024-01-10T10:00:00Z")},
		{Title: "end of last day", URL: "https://github.com/o/r/issues/4", UpdatedAt: mustTime(t, "2024-01-20T23:59:59Z")},
		{Title: "duplicate url, later", URL: "https://github.com/o/r/issues/1", UpdatedAt: mustTime(t, "2024-01-17T10:00:00Z")},
	}

	got := FilterSearchItems(items, win)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Title != "in window" {
		t.Errorf("first occurrence should win the URL dedup, got %q", got[0].Title)
	}
	if got[1].Title != "end of last day" {
		t.Errorf("expected inclusive end-of-day item, got %q", got[1].Title)
	}
}

func TestFilterSearchItemsIdempotent(t *testing.T) {
	win := testWindow(t)
	items := []model.Item{
		{Title: "a", URL: "https://github.com/o/r/issues/1", UpdatedAt: mustTime(t, "2024-01-16T10:00:00Z")},
		{Title: "b", URL: "https://github.com/o/r/issues/2", UpdatedAt: mustTime(t, "2024-01-17T10:00:00Z")},
	}

	once := FilterSearchItems(items, win)
	twice := FilterSearchItems(once, win)
	if len(once) != len(twice) {
		t.Fatalf("filter is not idempotent: %d then %d items", len(once), len(twice))
	}
	for i := range once {
		if once[i].URL != twice[i].URL {
			t.Errorf("item %d changed between passes: %q vs %q", i, once[i].URL, twice[i].URL)
		}
	}
}
