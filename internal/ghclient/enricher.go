package ghclient

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ghrecap/ghrecap/internal/log"
	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/normalize"
	"github.com/ghrecap/ghrecap/internal/urlutil"
)

// Placeholder title forms produced by the normalizer when the raw payload
// omitted the real PR title. Their presence is the enrichment trigger.
var (
	prPlaceholderRe            = regexp.MustCompile(`^Pull Request #\d+( .+)?$`)
	reviewPlaceholderRe        = regexp.MustCompile(`^Review on: Pull Request #\d+$`)
	reviewCommentPlaceholderRe = regexp.MustCompile(`^Review comment on: Pull Request #\d+$`)
)

// NeedsEnrichment reports whether an item's payload lacked the real PR title
// and a detail fetch can recover it. Only event-derived PR items qualify.
func NeedsEnrichment(it model.Item) bool {
	if !strings.Contains(it.OriginalEventType, "PullRequest") {
		return false
	}
	return prPlaceholderRe.MatchString(it.Title) ||
		reviewPlaceholderRe.MatchString(it.Title) ||
		reviewCommentPlaceholderRe.MatchString(it.Title)
}

// EnrichPRDetails rewrites under-specified pull request items using cached
// detail fetches. Items are processed sequentially with a fixed inter-call
// delay to respect API rate limits; onProgress (optional) receives
// (processed, total) after each item. The returned slice is the full input
// with only the enriched subset replaced; a failed fetch leaves its item
// unchanged.
func (c *Client) EnrichPRDetails(ctx context.Context, items []model.Item, cache *DetailCache, onProgress func(processed, total int)) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	var need []int
	for i := range out {
		if NeedsEnrichment(out[i]) {
			need = append(need, i)
		}
	}
	if len(need) == 0 {
		return out
	}

	log.Debug("enriching pull request details", "items", len(need), "total", len(items))
	total := len(need)

	for i, idx := range need {
		if i > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(c.enrichDelay):
			}
		}

		it := out[idx]
		owner, repo, number, err := urlutil.ParsePullURL(it.URL)
		if err != nil {
			log.Warn("cannot derive detail URL for item", "id", it.ID, "url", it.URL, "error", err)
			reportProgress(onProgress, i+1, total)
			continue
		}

		key := c.detailURL(owner, repo, number)
		detail, err := cache.GetOrFetch(key, func() (model.Detail, error) {
			return c.fetchPRDetail(ctx, owner, repo, number)
		})
		if err != nil {
			log.Warn("failed to fetch pull request detail", "repo", owner+"/"+repo, "number", number, "error", err)
			reportProgress(onProgress, i+1, total)
			continue
		}

		out[idx] = applyDetail(it, detail)
		reportProgress(onProgress, i+1, total)
	}

	return out
}

func reportProgress(onProgress func(int, int), processed, total int) {
	if onProgress != nil {
		onProgress(processed, total)
	}
}

// detailURL is the canonical detail-API URL, used as the cache key so every
// item referencing the same PR shares one fetch.
func (c *Client) detailURL(owner, repo string, number int) string {
	return fmt.Sprintf("%srepos/%s/%s/pulls/%d", c.rest.BaseURL.String(), owner, repo, number)
}

func (c *Client) fetchPRDetail(ctx context.Context, owner, repo string, number int) (model.Detail, error) {
	pr, _, err := c.rest.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return model.Detail{}, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}

	d := model.Detail{
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		Body:      pr.GetBody(),
		URL:       pr.GetHTMLURL(),
		UpdatedAt: pr.GetUpdatedAt().Time,
		Merged:    pr.GetMerged(),
	}

	for _, l := range pr.Labels {
		d.Labels = append(d.Labels, model.Label{
			Name:        l.GetName(),
			Color:       l.GetColor(),
			Description: l.GetDescription(),
		})
	}

	if pr.ClosedAt != nil {
		t := pr.GetClosedAt().Time
		d.ClosedAt = &t
	}
	if pr.MergedAt != nil {
		t := pr.GetMergedAt().Time
		d.MergedAt = &t
		d.Merged = true
	}

	return d, nil
}

// EnrichMergeState resolves merged status for closed pull request items that
// arrived without merge metadata. Search results mark pull requests with a
// links stub only, so merged-vs-closed cannot be decided from the item
// itself; the detail API answers it. Fetches share the detail cache and pace
// themselves like EnrichPRDetails; a failed fetch leaves its item unchanged.
func (c *Client) EnrichMergeState(ctx context.Context, items []model.Item, cache *DetailCache) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	fetched := 0
	for i := range out {
		it := out[i]
		if it.State != model.StateClosed || it.Merged || it.MergedAt != nil {
			continue
		}
		owner, repo, number, err := urlutil.ParsePullURL(it.URL)
		if err != nil {
			// Not a pull request.
			continue
		}

		key := c.detailURL(owner, repo, number)
		detail, ok := cache.Get(key)
		if !ok {
			if fetched > 0 {
				select {
				case <-ctx.Done():
					return out
				case <-time.After(c.enrichDelay):
				}
			}
			fetched++

			detail, err = cache.GetOrFetch(key, func() (model.Detail, error) {
				return c.fetchPRDetail(ctx, owner, repo, number)
			})
			if err != nil {
				log.Warn("failed to resolve merge state", "repo", owner+"/"+repo, "number", number, "error", err)
				continue
			}
		}

		it.Merged = detail.Merged
		it.MergedAt = detail.MergedAt
		if it.ClosedAt == nil {
			it.ClosedAt = detail.ClosedAt
		}
		out[i] = it
	}

	return out
}

// applyDetail overlays a fetched snapshot onto an item and rewrites its
// placeholder title with the real one.
func applyDetail(it model.Item, d model.Detail) model.Item {
	if len(d.Labels) > 0 {
		it.Labels = d.Labels
	}
	it.UpdatedAt = d.UpdatedAt
	it.ClosedAt = d.ClosedAt
	it.MergedAt = d.MergedAt
	it.Merged = d.Merged
	it.State = d.State
	it.Title = rewriteTitle(it.Title, d.Title)
	return it
}

// rewriteTitle replaces a placeholder title with the fetched one, keeping
// the review/review-comment prefix or the event action as context.
func rewriteTitle(title, fetched string) string {
	switch {
	case strings.HasPrefix(title, normalize.TitlePrefixReview):
		return normalize.TitlePrefixReview + fetched
	case strings.HasPrefix(title, normalize.TitlePrefixReviewComment):
		return normalize.TitlePrefixReviewComment + fetched
	}

	if m := prPlaceholderRe.FindStringSubmatch(title); m != nil {
		if action := strings.TrimSpace(m[1]); action != "" {
			return fmt.Sprintf("%s (%s)", fetched, action)
		}
	}
	return fetched
}
