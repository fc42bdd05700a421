// Package summary orchestrates the pipeline: it fetches a user's raw
// activity, normalizes and enriches it, and classifies every item into the
// summary buckets for a date window.
package summary

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/ghrecap/ghrecap/internal/classify"
	"github.com/ghrecap/ghrecap/internal/ghclient"
	"github.com/ghrecap/ghrecap/internal/log"
	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/normalize"
)

// Client is the GitHub surface the builder needs. *ghclient.Client
// implements it; tests substitute fakes.
type Client interface {
	ListUserEvents(ctx context.Context, username string, maxPages int) ([]*gh.Event, error)
	SearchIssues(ctx context.Context, query string) ([]*gh.Issue, error)
	EnrichPRDetails(ctx context.Context, items []model.Item, cache *ghclient.DetailCache, onProgress func(processed, total int)) []model.Item
	EnrichMergeState(ctx context.Context, items []model.Item, cache *ghclient.DetailCache) []model.Item
	EnrichReviewDates(ctx context.Context, items []model.Item) []model.Item
}

// Options configures one summary build.
type Options struct {
	Usernames     []string
	Window        classify.Window
	MaxEventPages int
}

// Result holds the bucketed summary.
type Result struct {
	Buckets map[model.Bucket][]model.Item
}

func newResult() *Result {
	return &Result{Buckets: make(map[model.Bucket][]model.Item)}
}

func (r *Result) add(b model.Bucket, it model.Item) {
	r.Buckets[b] = append(r.Buckets[b], it)
}

// Total returns the number of bucketed items.
func (r *Result) Total() int {
	n := 0
	for _, items := range r.Buckets {
		n += len(items)
	}
	return n
}

// Build runs the full pipeline for every queried username. Fetch failures
// for one source degrade that source, never the whole summary.
func Build(ctx context.Context, client Client, cache *ghclient.DetailCache, opts Options) (*Result, error) {
	if len(opts.Usernames) == 0 {
		return nil, fmt.Errorf("no usernames to summarize")
	}

	result := newResult()
	// One review dedup set spans the whole pass so event- and search-derived
	// reviews of the same PR collapse to one.
	seen := classify.NewSeenReviews()

	for _, username := range opts.Usernames {
		buildEvents(ctx, client, cache, opts, username, seen, result)
		buildSearches(ctx, client, cache, opts, username, seen, result)
	}

	return result, nil
}

// buildEvents runs the activity-feed half of the pipeline: normalize,
// enrich details, classify strictly.
func buildEvents(ctx context.Context, client Client, cache *ghclient.DetailCache, opts Options, username string, seen classify.SeenReviews, result *Result) {
	events, err := client.ListUserEvents(ctx, username, opts.MaxEventPages)
	if err != nil {
		log.Warn("activity feed unavailable", "user", username, "error", err)
		return
	}

	items := make([]model.Item, 0, len(events))
	for _, ev := range events {
		// The feed returns the user's recent history unscoped; only events
		// that happened inside the window belong to the summary.
		if !opts.Window.Contains(ev.GetCreatedAt().Time) {
			continue
		}
		if it, ok := normalize.Event(ev); ok {
			items = append(items, it)
		}
	}

	items = client.EnrichPRDetails(ctx, items, cache, func(processed, total int) {
		log.Progress("enriching pull request details... %d/%d", processed, total)
	})
	log.ProgressDone()

	for _, it := range items {
		if bucket, ok := classify.Classify(it, opts.Usernames, seen, opts.Window, classify.ModeStrict); ok {
			result.add(bucket, it)
		}
	}
}

// buildSearches runs the search half: authored, assigned and reviewed-by
// queries scoped to the window, filtered and deduplicated per query, then
// classified in search-scoped mode.
func buildSearches(ctx context.Context, client Client, cache *ghclient.DetailCache, opts Options, username string, seen classify.SeenReviews, result *Result) {
	for _, q := range searchQueries(username, opts.Window) {
		issues, err := client.SearchIssues(ctx, q.query)
		if err != nil {
			log.Warn("search unavailable", "query", q.query, "error", err)
			continue
		}

		items := make([]model.Item, 0, len(issues))
		for _, issue := range issues {
			it := normalize.SearchIssue(issue)
			if q.review {
				// Reviewer-scoped results represent reviews, not the PRs
				// themselves; mark them so classification and the
				// review-date enricher treat them as such.
				it.ReviewedBy = username
				it.Title = normalize.TitlePrefixReview + it.Title
			}
			items = append(items, it)
		}

		items = classify.FilterSearchItems(items, opts.Window)
		if q.review {
			items = client.EnrichReviewDates(ctx, items)
		} else {
			// Search items describe pull requests through a links stub with
			// no merge metadata; closed PRs need the detail API to separate
			// merged from closed.
			items = client.EnrichMergeState(ctx, items, cache)
		}

		for _, it := range items {
			if bucket, ok := classify.Classify(it, opts.Usernames, seen, opts.Window, classify.ModeSearchScoped); ok {
				result.add(bucket, it)
			}
		}
	}
}

type searchQuery struct {
	query  string
	review bool
}

func searchQueries(username string, win classify.Window) []searchQuery {
	updated := "updated:" + rangeQualifier(win)

	return []searchQuery{
		{query: fmt.Sprintf("author:%s %s", username, updated)},
		{query: fmt.Sprintf("assignee:%s %s", username, updated)},
		{query: fmt.Sprintf("is:pr reviewed-by:%s %s", username, updated), review: true},
	}
}

func rangeQualifier(win classify.Window) string {
	const day = "2006-01-02"
	switch {
	case win.Start.IsZero() && win.End.IsZero():
		return "*..*"
	case win.Start.IsZero():
		return "<=" + win.End.Format(day)
	case win.End.IsZero():
		return ">=" + win.Start.Format(day)
	default:
		return win.Start.Format(day) + ".." + win.End.Format(day)
	}
}
