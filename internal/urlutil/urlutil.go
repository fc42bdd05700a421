// Package urlutil provides URL parsing utilities.
package urlutil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParsePullURL extracts owner, repo and pull request number from an HTML
// pull request URL, e.g. https://github.com/owner/repo/pull/123 or a review
// anchor like https://github.com/owner/repo/pull/123#pullrequestreview-9.
// It is host-agnostic so GitHub Enterprise URLs parse the same way.
func ParsePullURL(rawURL string) (owner, repo string, number int, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid pull request URL %s: %w", rawURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "pull" {
		return "", "", 0, fmt.Errorf("not a pull request URL: %s", rawURL)
	}

	number, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to parse pull request number from URL %s: %w", rawURL, err)
	}

	return parts[0], parts[1], number, nil
}

// BasePRURL strips any trailing fragment (e.g. a review anchor) from a pull
// request URL. The result is the identity used for review deduplication.
func BasePRURL(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// ExtractIssueNumber extracts the issue/PR number from an API URL.
func ExtractIssueNumber(apiURL string) (int, error) {
	// URL format: https://api.github.com/repos/owner/repo/issues/123
	// or: https://api.github.com/repos/owner/repo/pulls/123
	parts := strings.Split(apiURL, "/")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid API URL format: %s", apiURL)
	}

	numStr := parts[len(parts)-1]
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse issue number from URL %s: %w", apiURL, err)
	}

	return num, nil
}
