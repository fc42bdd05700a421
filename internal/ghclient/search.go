package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/ghrecap/ghrecap/internal/log"
)

// SearchIssues runs one issue/PR search query and drains its pages,
// newest-updated first.
func (c *Client) SearchIssues(ctx context.Context, query string) ([]*gh.Issue, error) {
	opts := &gh.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var issues []*gh.Issue

	for {
		result, resp, err := c.rest.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("search %q failed: %w", query, err)
		}
		issues = append(issues, result.Issues...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("search complete", "query", query, "items", len(issues))
	return issues, nil
}
