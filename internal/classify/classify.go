// Package classify assigns canonical activity items to summary buckets for
// a date window. The decision rules are pure; the only state is the
// caller-owned review dedup set threaded through one classification pass.
package classify

import (
	"regexp"
	"strings"

	"github.com/ghrecap/ghrecap/internal/model"
	"github.com/ghrecap/ghrecap/internal/normalize"
	"github.com/ghrecap/ghrecap/internal/urlutil"
)

// Mode controls whether an item's window membership is re-verified locally.
type Mode int

const (
	// ModeStrict re-checks window membership per timestamp. Used for
	// event-derived items, which arrive unscoped.
	ModeStrict Mode = iota

	// ModeSearchScoped trusts that an upstream date-scoped search query
	// already guaranteed window relevance; only the reason for
	// categorization still needs a timestamp check. Callers must only use
	// this mode for items that really did come from such a query.
	ModeSearchScoped
)

// SeenReviews tracks reviewer+PR pairs already bucketed during one
// classification pass. Create a fresh set per pass; never share one across
// passes or users.
type SeenReviews map[string]struct{}

// NewSeenReviews returns an empty per-pass review dedup set.
func NewSeenReviews() SeenReviews {
	return make(SeenReviews)
}

// otherTitleRes matches the synthesized titles of branch/tag/fork/star/
// public/wiki events. These forms are exact so real issue titles that merely
// start with a similar word are not swallowed.
var otherTitleRes = []*regexp.Regexp{
	regexp.MustCompile(`^Created (branch|tag) `),
	regexp.MustCompile(`^Created repository$`),
	regexp.MustCompile(`^Deleted (branch|tag) `),
	regexp.MustCompile(`^Forked repository to `),
	regexp.MustCompile(`^(Starred|Unstarred) repository$`),
	regexp.MustCompile(`^Made repository public$`),
	regexp.MustCompile(`^(Created|Edited) wiki page `),
	regexp.MustCompile(`^Updated \d+ wiki pages$`),
}

// Classify assigns item to at most one bucket. usernames is the set of
// queried logins (used to split authored from assigned issue updates), seen
// is the per-pass review dedup set, which Classify mutates.
func Classify(item model.Item, usernames []string, seen SeenReviews, win Window, mode Mode) (model.Bucket, bool) {
	switch {
	case strings.HasPrefix(item.Title, normalize.TitlePrefixReview):
		key := reviewKey(item)
		if _, dup := seen[key]; dup {
			return "", false
		}
		seen[key] = struct{}{}
		return model.BucketPRsReviewed, true

	case strings.HasPrefix(item.Title, normalize.TitlePrefixReviewComment):
		// Review comments are not represented in the summary.
		return "", false

	case strings.HasPrefix(item.Title, normalize.TitlePrefixPush):
		return model.BucketCommits, true

	case isOtherTitle(item.Title):
		return model.BucketOther, true

	case isPullRequest(item):
		return classifyPullRequest(item, win, mode)

	default:
		return classifyIssue(item, usernames, win, mode)
	}
}

func classifyPullRequest(item model.Item, win Window, mode Mode) (model.Bucket, bool) {
	if item.Merged && win.containsPtr(item.MergedAt) {
		return model.BucketPRsMerged, true
	}
	if item.State == model.StateClosed && !item.Merged && win.containsPtr(item.ClosedAt) {
		return model.BucketPRsClosed, true
	}
	if win.Contains(item.CreatedAt) {
		return model.BucketPRsOpened, true
	}

	if mode == ModeStrict {
		// Updated counts only when the update itself is the in-window
		// activity, not a side effect of an in-window open/merge/close.
		if win.Contains(item.UpdatedAt) &&
			!win.Contains(item.CreatedAt) &&
			!win.containsPtr(item.MergedAt) &&
			!win.containsPtr(item.ClosedAt) {
			return model.BucketPRsUpdated, true
		}
		return "", false
	}
	// Search-scoped items are already known relevant.
	return model.BucketPRsUpdated, true
}

func classifyIssue(item model.Item, usernames []string, win Window, mode Mode) (model.Bucket, bool) {
	if item.State == model.StateClosed && win.containsPtr(item.ClosedAt) {
		return model.BucketIssuesClosed, true
	}
	if win.Contains(item.CreatedAt) {
		return model.BucketIssuesOpened, true
	}

	if mode == ModeStrict {
		if !win.Contains(item.UpdatedAt) ||
			win.Contains(item.CreatedAt) ||
			win.containsPtr(item.ClosedAt) {
			return "", false
		}
	}

	if isQueriedUser(item.User.Login, usernames) {
		return model.BucketIssuesUpdatedAuthor, true
	}
	return model.BucketIssuesUpdatedAssign, true
}

// reviewKey is the per-pass dedup identity for a review: the reviewer login
// plus the base PR URL with any review anchor stripped, so several review
// items on the same PR collapse to one.
func reviewKey(item model.Item) string {
	login := item.ReviewedBy
	if login == "" {
		login = item.User.Login
	}
	return strings.ToLower(login) + ":" + urlutil.BasePRURL(item.URL)
}

func isOtherTitle(title string) bool {
	for _, re := range otherTitleRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// isPullRequest detects a PR marker on the item regardless of provenance:
// a /pull/ path in the URL covers both event- and search-derived items, and
// merge metadata only ever appears on pull requests.
func isPullRequest(item model.Item) bool {
	return strings.Contains(item.URL, "/pull/") || item.Merged || item.MergedAt != nil
}

func isQueriedUser(login string, usernames []string) bool {
	for _, u := range usernames {
		if strings.EqualFold(login, u) {
			return true
		}
	}
	return false
}
