package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/ghrecap/ghrecap/internal/log"
)

// eventPageSize is the maximum the events API serves per page.
const eventPageSize = 100

// ListUserEvents fetches the raw activity feed for a user, newest first.
// maxPages bounds pagination; the feed API only retains recent history, so a
// short page budget is usually enough to cover a summary window.
func (c *Client) ListUserEvents(ctx context.Context, username string, maxPages int) ([]*gh.Event, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	opts := &gh.ListOptions{PerPage: eventPageSize}
	var events []*gh.Event

	for page := 0; page < maxPages; page++ {
		pageEvents, resp, err := c.rest.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for %s: %w", username, err)
		}
		events = append(events, pageEvents...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("fetched activity feed", "user", username, "events", len(events))
	return events, nil
}
