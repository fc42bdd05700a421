package ghclient

import (
	"errors"
	"sync"
	"testing"

	"github.com/ghrecap/ghrecap/internal/model"
)

func TestDetailCacheGetOrFetch(t *testing.T) {
	cache := NewDetailCache()
	fetches := 0

	fetch := func() (model.Detail, error) {
		fetches++
		return model.Detail{Title: "cached title"}, nil
	}

	for i := 0; i < 3; i++ {
		d, err := cache.GetOrFetch("key", fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Title != "cached title" {
			t.Errorf("unexpected detail %+v", d)
		}
	}

	if fetches != 1 {
		t.Errorf("expected a single fetch for repeated lookups, got %d", fetches)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", cache.Len())
	}
}

func TestDetailCacheFailuresNotCached(t *testing.T) {
	cache := NewDetailCache()
	calls := 0

	_, err := cache.GetOrFetch("key", func() (model.Detail, error) {
		calls++
		return model.Detail{}, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if cache.Len() != 0 {
		t.Error("failed fetches must not be cached")
	}

	d, err := cache.GetOrFetch("key", func() (model.Detail, error) {
		calls++
		return model.Detail{Title: "second try"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if d.Title != "second try" || calls != 2 {
		t.Errorf("expected the retry to fetch again, got %+v after %d calls", d, calls)
	}
}

func TestDetailCacheConcurrentSingleFetch(t *testing.T) {
	cache := NewDetailCache()

	var mu sync.Mutex
	fetches := 0
	release := make(chan struct{})

	fetch := func() (model.Detail, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		<-release
		return model.Detail{Title: "shared"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrFetch("key", fetch); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fetches != 1 {
		t.Errorf("expected concurrent callers to share one fetch, got %d", fetches)
	}
}

func TestDetailCacheClear(t *testing.T) {
	cache := NewDetailCache()
	if _, err := cache.GetOrFetch("key", func() (model.Detail, error) {
		return model.Detail{Title: "x"}, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", cache.Len())
	}
	if _, ok := cache.Get("key"); ok {
		t.Error("Get should miss after Clear")
	}
}
