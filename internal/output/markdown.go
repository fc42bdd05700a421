package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/summary"
)

// MarkdownFormatter formats the summary as Markdown
type MarkdownFormatter struct{}

// Format outputs the bucketed summary as a Markdown report
func (f *MarkdownFormatter) Format(result *summary.Result, w io.Writer) error {
	if result.Total() == 0 {
		fmt.Fprintln(w, "No activity found.")
		return nil
	}

	fmt.Fprintln(w, "# Activity Summary")
	fmt.Fprintf(w, "\n*Generated: %s*\n", time.Now().Format("2006-01-02 15:04"))

	for _, b := range model.AllBuckets {
		items := result.Buckets[b]
		if len(items) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n## %s (%d)\n\n", b.Display(), len(items))
		for _, it := range items {
			date := it.ActivityDate().Format("2006-01-02")
			if it.URL != "" {
				fmt.Fprintf(w, "- [%s](%s) (%s)\n", it.Title, it.URL, date)
			} else {
				fmt.Fprintf(w, "- %s (%s)\n", it.Title, date)
			}
		}
	}

	return nil
}
