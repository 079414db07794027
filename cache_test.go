package writedesk

import (
	"testing"
	"time"
)

func TestPostCacheServesStaleUntilInvalidated(t *testing.T) {
	s := setupTestStore(t)
	cache := NewPostCache(s, time.Hour)

	published := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.CreatePost(PostCreate{Slug: "one", Title: "One", Status: StatusPublished, PublishedAt: &published}); err != nil {
		t.Fatal(err)
	}

	posts, err := cache.ListPublished()
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	// a write behind the cache's back is not visible until invalidation
	if _, err := s.CreatePost(PostCreate{Slug: "two", Title: "Two", Status: StatusPublished, PublishedAt: &published}); err != nil {
		t.Fatal(err)
	}
	posts, err = cache.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts before invalidation, want the cached 1", len(posts))
	}

	cache.Invalidate()
	posts, err = cache.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts after invalidation, want 2", len(posts))
	}
}

func TestPostCacheExpiresAfterTTL(t *testing.T) {
	s := setupTestStore(t)
	cache := NewPostCache(s, 50*time.Millisecond)

	if _, err := cache.ListPublished(); err != nil {
		t.Fatal(err)
	}
	published := time.Now().UTC()
	if _, err := s.CreatePost(PostCreate{Slug: "late", Title: "Late", Status: StatusPublished, PublishedAt: &published}); err != nil {
		t.Fatal(err)
	}

	time.Sleep(80 * time.Millisecond)
	posts, err := cache.ListPublished()
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts after the TTL, want a fresh load with 1", len(posts))
	}
}

func TestPostCacheGetPublished(t *testing.T) {
	s := setupTestStore(t)
	cache := NewPostCache(s, time.Hour)

	published := time.Now().UTC()
	if _, err := s.CreatePost(PostCreate{Slug: "findable", Title: "Findable", Status: StatusPublished, PublishedAt: &published}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePost(PostCreate{Slug: "hidden", Title: "Hidden", Status: StatusDraft}); err != nil {
		t.Fatal(err)
	}

	post, ok, err := cache.GetPublished("findable")
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if !ok || post.Title != "Findable" {
		t.Errorf("GetPublished = (%+v, %v), want the published post", post, ok)
	}

	if _, ok, _ := cache.GetPublished("hidden"); ok {
		t.Error("drafts must not be reachable through the cache")
	}
	if _, ok, _ := cache.GetPublished("missing"); ok {
		t.Error("unknown slug should report not found")
	}
}
