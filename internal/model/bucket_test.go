package model

import (
	"testing"
	"time"
)

func TestAllBucketsCovered(t *testing.T) {
	if len(AllBuckets) != 11 {
		t.Fatalf("expected 11 buckets, got %d", len(AllBuckets))
	}

	seen := make(map[Bucket]struct{})
	for _, b := range AllBuckets {
		if _, dup := seen[b]; dup {
			t.Errorf("bucket %q listed twice", b)
		}
		seen[b] = struct{}{}

		if b.Display() == string(b) {
			t.Errorf("bucket %q has no display name", b)
		}
	}
}

func TestActivityDate(t *testing.T) {
	updated := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	reviewed := time.Date(2024, 1, 16, 15, 0, 0, 0, time.UTC)

	it := Item{UpdatedAt: updated}
	if !it.ActivityDate().Equal(updated) {
		t.Errorf("expected UpdatedAt fallback, got %v", it.ActivityDate())
	}

	it.ReviewedAt = &reviewed
	if !it.ActivityDate().Equal(reviewed) {
		t.Errorf("expected the review date to win, got %v", it.ActivityDate())
	}
}
