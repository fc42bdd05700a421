package model

// Bucket is one of the fixed, mutually exclusive summary categories an item
// can be classified into. Each classification pass assigns exactly one
// bucket, or none (the item is dropped from the summary).
type Bucket string

const (
	BucketPRsOpened            Bucket = "prs_opened"
	BucketPRsUpdated           Bucket = "prs_updated"
	BucketPRsReviewed          Bucket = "prs_reviewed"
	BucketPRsMerged            Bucket = "prs_merged"
	BucketPRsClosed            Bucket = "prs_closed"
	BucketIssuesOpened         Bucket = "issues_opened"
	BucketIssuesClosed         Bucket = "issues_closed"
	BucketIssuesUpdatedAuthor  Bucket = "issues_updated_authored"
	BucketIssuesUpdatedAssign  Bucket = "issues_updated_assigned"
	BucketCommits              Bucket = "commits"
	BucketOther                Bucket = "other"
)

// AllBuckets lists every bucket in display order.
var AllBuckets = []Bucket{
	BucketPRsOpened,
	BucketPRsUpdated,
	BucketPRsReviewed,
	BucketPRsMerged,
	BucketPRsClosed,
	BucketIssuesOpened,
	BucketIssuesClosed,
	BucketIssuesUpdatedAuthor,
	BucketIssuesUpdatedAssign,
	BucketCommits,
	BucketOther,
}

// Display returns the human-readable bucket name.
func (b Bucket) Display() string {
	switch b {
	case BucketPRsOpened:
		return "PRs opened"
	case BucketPRsUpdated:
		return "PRs updated"
	case BucketPRsReviewed:
		return "PRs reviewed"
	case BucketPRsMerged:
		return "PRs merged"
	case BucketPRsClosed:
		return "PRs closed"
	case BucketIssuesOpened:
		return "Issues opened"
	case BucketIssuesClosed:
		return "Issues closed"
	case BucketIssuesUpdatedAuthor:
		return "Issues updated (authored)"
	case BucketIssuesUpdatedAssign:
		return "Issues updated (assigned)"
	case BucketCommits:
		return "Commits"
	case BucketOther:
		return "Other"
	}
	return string(b)
}
