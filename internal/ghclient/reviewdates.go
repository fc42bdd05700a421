package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ghrecap/ghrecap/internal/log"
	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/urlutil"
)

const (
	graphqlEndpoint = "https://api.github.com/graphql"

	// reviewDateBatchSize bounds the number of aliased sub-queries per
	// GraphQL request to keep the payload within complexity limits.
	reviewDateBatchSize = 25

	// reviewTimelineLast is how many review-timeline entries each sub-query
	// requests per pull request.
	reviewTimelineLast = 30
)

// graphqlRequest represents a GraphQL request payload.
type graphqlRequest struct {
	Query string `json:"query"`
}

// graphqlResponse represents a generic GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ReviewDateIndex maps a base PR URL to the most recent review submission
// time per lower-cased reviewer login. It is rebuilt on every enrichment
// call and never cached.
type ReviewDateIndex map[string]map[string]time.Time

// Lookup returns the review timestamp recorded for a reviewer on a PR.
func (idx ReviewDateIndex) Lookup(prURL, login string) (time.Time, bool) {
	byLogin, ok := idx[urlutil.BasePRURL(prURL)]
	if !ok {
		return time.Time{}, false
	}
	ts, ok := byLogin[strings.ToLower(login)]
	return ts, ok
}

func (idx ReviewDateIndex) record(prURL, login string, ts time.Time) {
	byLogin, ok := idx[prURL]
	if !ok {
		byLogin = make(map[string]time.Time)
		idx[prURL] = byLogin
	}
	login = strings.ToLower(login)
	if prev, ok := byLogin[login]; !ok || ts.After(prev) {
		byLogin[login] = ts
	}
}

// prRef identifies one pull request to query.
type prRef struct {
	owner  string
	repo   string
	number int
	url    string // base HTML URL, the index key
}

// EnrichReviewDates recovers true review submission timestamps for items
// naming a reviewer. A reviewer-scoped search constrains the PR's last
// update, not the moment the review was submitted, so the real timestamp is
// fetched from the review timeline via batched GraphQL queries. Items whose
// PR or reviewer is missing from the result are returned unchanged; callers
// fall back to UpdatedAt.
func (c *Client) EnrichReviewDates(ctx context.Context, items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	idx := c.fetchReviewDates(ctx, out)
	if len(idx) == 0 {
		return out
	}

	for i := range out {
		if out[i].ReviewedBy == "" {
			continue
		}
		if ts, ok := idx.Lookup(out[i].URL, out[i].ReviewedBy); ok {
			t := ts
			out[i].ReviewedAt = &t
		}
	}

	return out
}

// fetchReviewDates builds the review-date index for the unique PRs the
// items reference. One failed batch only loses its own PRs.
func (c *Client) fetchReviewDates(ctx context.Context, items []model.Item) ReviewDateIndex {
	refs := uniquePRRefs(items)
	if len(refs) == 0 {
		return nil
	}

	idx := make(ReviewDateIndex)
	batches := (len(refs) + reviewDateBatchSize - 1) / reviewDateBatchSize
	log.Debug("fetching review dates", "prs", len(refs), "batches", batches)

	for start := 0; start < len(refs); start += reviewDateBatchSize {
		end := start + reviewDateBatchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := refs[start:end]

		data, err := c.executeGraphQL(ctx, buildReviewDateQuery(batch))
		if err != nil {
			log.Warn("review date batch failed", "prs", len(batch), "error", err)
			continue
		}

		mergeReviewDates(idx, data, batch)
	}

	return idx
}

// uniquePRRefs deduplicates items down to the distinct PRs to query,
// preserving first-seen order so batching is deterministic.
func uniquePRRefs(items []model.Item) []prRef {
	var refs []prRef
	seen := make(map[string]struct{})

	for _, it := range items {
		if it.ReviewedBy == "" {
			continue
		}
		owner, repo, number, err := urlutil.ParsePullURL(it.URL)
		if err != nil {
			log.Debug("skipping review item with unparseable URL", "url", it.URL, "error", err)
			continue
		}
		base := urlutil.BasePRURL(it.URL)
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		refs = append(refs, prRef{owner: owner, repo: repo, number: number, url: base})
	}

	return refs
}

// buildReviewDateQuery multiplexes one aliased sub-query per PR into a
// single GraphQL request.
func buildReviewDateQuery(refs []prRef) string {
	var sb strings.Builder
	sb.WriteString("query {\n")

	for i, ref := range refs {
		fmt.Fprintf(&sb, `  alias%d: repository(owner: %q, name: %q) {
    pullRequest(number: %d) {
      timelineItems(itemTypes: PULL_REQUEST_REVIEW, last: %d) {
        nodes {
          ... on PullRequestReview {
            author { login }
            createdAt
          }
        }
      }
    }
  }
`, i, ref.owner, ref.repo, ref.number, reviewTimelineLast)
	}

	sb.WriteString("}")
	return sb.String()
}

// reviewTimelineData mirrors the per-alias GraphQL response shape.
type reviewTimelineData struct {
	PullRequest *struct {
		TimelineItems struct {
			Nodes []struct {
				Author *struct {
					Login string `json:"login"`
				} `json:"author"`
				CreatedAt time.Time `json:"createdAt"`
			} `json:"nodes"`
		} `json:"timelineItems"`
	} `json:"pullRequest"`
}

// mergeReviewDates reduces one batch's timeline entries into the index,
// keeping the most recent timestamp per reviewer login.
func mergeReviewDates(idx ReviewDateIndex, data json.RawMessage, refs []prRef) {
	var rawData map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawData); err != nil {
		log.Warn("failed to parse review date response", "error", err)
		return
	}

	for i, ref := range refs {
		alias := fmt.Sprintf("alias%d", i)
		repoData, ok := rawData[alias]
		if !ok || len(repoData) == 0 || string(repoData) == "null" {
			log.Debug("no review data for PR", "repo", ref.owner+"/"+ref.repo, "number", ref.number)
			continue
		}

		var repo reviewTimelineData
		if err := json.Unmarshal(repoData, &repo); err != nil {
			log.Debug("failed to parse review timeline", "alias", alias, "error", err)
			continue
		}
		if repo.PullRequest == nil {
			continue
		}

		for _, node := range repo.PullRequest.TimelineItems.Nodes {
			if node.Author == nil || node.Author.Login == "" || node.CreatedAt.IsZero() {
				continue
			}
			idx.record(ref.url, node.Author.Login, node.CreatedAt)
		}
	}
}

// executeGraphQL executes a GraphQL query against the API. A present errors
// array is tolerated: it is logged and whatever data came back is used.
func (c *Client) executeGraphQL(ctx context.Context, query string) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}

	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		for _, e := range gqlResp.Errors {
			log.Debug("GraphQL error", "message", e.Message, "type", e.Type)
		}
		if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
			return nil, fmt.Errorf("GraphQL query returned only errors: %s", gqlResp.Errors[0].Message)
		}
	}

	return gqlResp.Data, nil
}
