package output

import (
	"encoding/json"
	"io"

	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/summary"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonBucket is one summary category in the JSON output, with buckets kept
// in display order rather than map order.
type jsonBucket struct {
	Bucket string       `json:"bucket"`
	Name   string       `json:"name"`
	Count  int          `json:"count"`
	Items  []model.Item `json:"items"`
}

// Format outputs the bucketed summary as JSON
func (f *JSONFormatter) Format(result *summary.Result, w io.Writer) error {
	out := make([]jsonBucket, 0, len(result.Buckets))
	for _, b := range model.AllBuckets {
		items := result.Buckets[b]
		if len(items) == 0 {
			continue
		}
		out = append(out, jsonBucket{
			Bucket: string(b),
			Name:   b.Display(),
			Count:  len(items),
			Items:  items,
		})
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
