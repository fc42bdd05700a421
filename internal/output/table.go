package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/summary"
)

const (
	defaultTermWidth = 120
	minTitleWidth    = 30
	dateColumnWidth  = 12 // "2006-01-02" plus padding
)

// TableFormatter formats the summary as a terminal table grouped by bucket.
type TableFormatter struct{}

// Format writes one section per non-empty bucket, newest activity first
// within the order items were classified.
func (f *TableFormatter) Format(result *summary.Result, w io.Writer) error {
	if result.Total() == 0 {
		fmt.Fprintln(w, "No activity found.")
		return nil
	}

	width := termWidth()
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.Faint)

	for _, b := range model.AllBuckets {
		items := result.Buckets[b]
		if len(items) == 0 {
			continue
		}

		header.Fprintf(w, "%s (%d)\n", b.Display(), len(items))
		for _, it := range items {
			date := it.ActivityDate().Format("2006-01-02")
			title := truncateToWidth(it.Title, width-dateColumnWidth-4)
			fmt.Fprintf(w, "  %s", title)
			dim.Fprintf(w, "  %s\n", date)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// termWidth returns the terminal width, or a sensible default when stdout
// is not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > minTitleWidth {
		return w
	}
	return defaultTermWidth
}

// truncateToWidth truncates a string to fit within maxWidth display
// columns, accounting for wide characters.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth < minTitleWidth {
		maxWidth = minTitleWidth
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
