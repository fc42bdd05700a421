// Package model contains the domain types for the activity summary pipeline.
// These types are independent of any external GitHub library.
package model

import "time"

// Item is the canonical, source-agnostic representation of one activity
// record. Items are produced either from a raw activity-feed event or from
// a search result, never both; OriginalEventType is set iff event-derived.
type Item struct {
	ID      string `json:"id"`
	EventID string `json:"eventId,omitempty"`
	URL     string `json:"url"`
	Title   string `json:"title"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
	Merged    bool       `json:"merged,omitempty"`
	State     string     `json:"state,omitempty"`

	Body   string      `json:"body,omitempty"`
	Labels []Label     `json:"labels,omitempty"`
	Repo   *Repository `json:"repo,omitempty"`

	User     User  `json:"user"`
	Assignee *User `json:"assignee,omitempty"`

	// OriginalEventType carries the raw feed event type (e.g.
	// "PullRequestEvent") for event-derived items. It is consumed only by
	// the enrichers; classification never parses it.
	OriginalEventType string `json:"originalEventType,omitempty"`

	// ReviewedBy and ReviewedAt identify the review a reviewer-scoped item
	// represents. ReviewedAt is filled in by the review-date enricher;
	// callers fall back to UpdatedAt when it is absent.
	ReviewedBy string     `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

// ActivityDate returns the timestamp that best represents when the activity
// happened: the true review submission date when known, else UpdatedAt.
func (i Item) ActivityDate() time.Time {
	if i.ReviewedAt != nil {
		return *i.ReviewedAt
	}
	return i.UpdatedAt
}

// Label is an issue or pull request label.
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// User identifies a GitHub account.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Repository identifies the repository an item belongs to.
type Repository struct {
	Name string `json:"name"` // owner/repo
	URL  string `json:"url,omitempty"`
}

// Item state constants
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateMerged = "merged"
)

// Detail is an immutable snapshot of a pull request fetched from the
// detail API, keyed in the cache by the canonical detail-API URL.
type Detail struct {
	Title     string     `json:"title"`
	State     string     `json:"state"`
	Body      string     `json:"body,omitempty"`
	URL       string     `json:"url"`
	Labels    []Label    `json:"labels,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
	Merged    bool       `json:"merged,omitempty"`
}
