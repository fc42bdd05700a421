package classify

import (
	"time"

	"github.com/ghrecap/ghrecap/internal/log"
	"github.com/ghrecap/ghrecap/internal/model"
)

// Window is a date range for summary membership. Start is the literal
// start-of-day instant of the first day; End is the start-of-day instant of
// the last day, which is included in full (the effective upper bound is
// End + 24h). A zero side imposes no bound.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window from the start-of-day instants of two dates.
func NewWindow(start, end time.Time) Window {
	return Window{Start: dayStart(start), End: dayStart(end)}
}

// Contains reports whether t falls inside the window, treating the end day
// as inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End.Add(24*time.Hour)) {
		return false
	}
	return true
}

// containsPtr is Contains for optional timestamps; nil is never in range.
func (w Window) containsPtr(t *time.Time) bool {
	return t != nil && w.Contains(*t)
}

func dayStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterSearchItems validates, window-filters and deduplicates items that
// arrived from a search-style query. Items with an empty title are dropped
// with a warning; items whose UpdatedAt falls outside the window are
// dropped; later items repeating an already-seen URL are dropped silently,
// first occurrence wins. Running the filter on its own output is a no-op.
func FilterSearchItems(items []model.Item, win Window) []model.Item {
	out := make([]model.Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, it := range items {
		if it.Title == "" {
			log.Warn("dropping search item without title", "url", it.URL)
			continue
		}
		if !win.Contains(it.UpdatedAt) {
			continue
		}
		if _, dup := seen[it.URL]; dup {
			continue
		}
		seen[it.URL] = struct{}{}
		out = append(out, it)
	}

	return out
}
