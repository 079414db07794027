package writedesk

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_writedesk.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s == nil {
		t.Fatal("store should not be nil")
	}
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	published := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	created, err := s.CreatePost(PostCreate{
		Slug:        "first-post",
		Title:       "First Post",
		Excerpt:     "An opening note.",
		Body:        "# Hello\n\nBody text.",
		Status:      StatusPublished,
		PublishedAt: &published,
		TagNames:    []string{"go", "writing"},
		CoverImage:  strPtr("/public/uploads/cover.jpg"),
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected a non-zero id")
	}

	got, err := s.PostBySlug("first-post")
	if err != nil {
		t.Fatalf("PostBySlug failed: %v", err)
	}
	if got.Title != "First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "First Post")
	}
	if got.Status != StatusPublished {
		t.Errorf("Status = %q, want %q", got.Status, StatusPublished)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, published)
	}
	if got.CoverImage == nil || *got.CoverImage != "/public/uploads/cover.jpg" {
		t.Errorf("CoverImage = %v, want cover path", got.CoverImage)
	}
	if len(got.TagNames) != 2 || got.TagNames[0] != "go" || got.TagNames[1] != "writing" {
		t.Errorf("TagNames = %v, want [go writing]", got.TagNames)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreatePostSlugConflict(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(PostCreate{Slug: "taken", Title: "A"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	_, err := s.CreatePost(PostCreate{Slug: "taken", Title: "B"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPostByIDNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.PostByID(42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = s.PostBySlug("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePostPartial(t *testing.T) {
	s := setupTestStore(t)

	published := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := s.CreatePost(PostCreate{
		Slug:        "keep-me",
		Title:       "Original",
		Excerpt:     "Original excerpt",
		Status:      StatusPublished,
		PublishedAt: &published,
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := s.UpdatePost(created.ID, PostUpdate{Title: strPtr("Renamed")})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", got.Title, "Renamed")
	}
	if got.Slug != "keep-me" {
		t.Errorf("Slug = %q, want untouched %q", got.Slug, "keep-me")
	}
	if got.Excerpt != "Original excerpt" {
		t.Errorf("Excerpt = %q, want untouched original", got.Excerpt)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want untouched %v", got.PublishedAt, published)
	}
}

func TestUpdatePostClearsNullableFields(t *testing.T) {
	s := setupTestStore(t)

	published := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := s.CreatePost(PostCreate{
		Slug:                   "clear-me",
		Title:                  "Post",
		Status:                 StatusPublished,
		PublishedAt:            &published,
		ReadingMinutesOverride: intPtr(7),
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := s.UpdatePost(created.ID, PostUpdate{
		SetPublishedAt:            true,
		SetReadingMinutesOverride: true,
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if got.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil", got.PublishedAt)
	}
	if got.ReadingMinutesOverride != nil {
		t.Errorf("ReadingMinutesOverride = %v, want nil", got.ReadingMinutesOverride)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.UpdatePost(99, PostUpdate{Title: strPtr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePostReplacesTags(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreatePost(PostCreate{
		Slug:     "tagged",
		Title:    "Tagged",
		TagNames: []string{"go", "sqlite"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// nil TagNames leaves links alone
	got, err := s.UpdatePost(created.ID, PostUpdate{Title: strPtr("Still Tagged")})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if len(got.TagNames) != 2 {
		t.Fatalf("TagNames = %v, want original two tags", got.TagNames)
	}

	// non-nil TagNames replaces the whole set
	got, err = s.UpdatePost(created.ID, PostUpdate{TagNames: []string{"design"}})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if len(got.TagNames) != 1 || got.TagNames[0] != "design" {
		t.Fatalf("TagNames = %v, want [design]", got.TagNames)
	}

	// empty slice clears every link
	got, err = s.UpdatePost(created.ID, PostUpdate{TagNames: []string{}})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if len(got.TagNames) != 0 {
		t.Fatalf("TagNames = %v, want none", got.TagNames)
	}
}

func TestListPublishedPosts(t *testing.T) {
	s := setupTestStore(t)

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.CreatePost(PostCreate{Slug: "old", Title: "Old", Status: StatusPublished, PublishedAt: &older}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePost(PostCreate{Slug: "new", Title: "New", Status: StatusPublished, PublishedAt: &newer}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePost(PostCreate{Slug: "draft", Title: "Draft", Status: StatusDraft}); err != nil {
		t.Fatal(err)
	}
	// published status but no timestamp: must stay hidden
	if _, err := s.CreatePost(PostCreate{Slug: "half", Title: "Half", Status: StatusPublished}); err != nil {
		t.Fatal(err)
	}

	posts, err := s.ListPublishedPosts()
	if err != nil {
		t.Fatalf("ListPublishedPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Slug != "new" || posts[1].Slug != "old" {
		t.Errorf("order = [%s %s], want [new old]", posts[0].Slug, posts[1].Slug)
	}
}

func TestListPostsOrder(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(PostCreate{Slug: "a", Title: "A"}); err != nil {
		t.Fatal(err)
	}
	b, err := s.CreatePost(PostCreate{Slug: "b", Title: "B"})
	if err != nil {
		t.Fatal(err)
	}
	// touching a post moves it to the front of the list
	time.Sleep(2 * time.Millisecond)
	first, err := s.PostBySlug("a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdatePost(first.ID, PostUpdate{Title: strPtr("A2")}); err != nil {
		t.Fatal(err)
	}

	posts, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Slug != "a" || posts[1].ID != b.ID {
		t.Errorf("order = [%s %s], want [a b]", posts[0].Slug, posts[1].Slug)
	}
}

func TestListPostsWithAnalytics(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.CreatePost(PostCreate{Slug: "measured", Title: "Measured"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePost(PostCreate{Slug: "unmeasured", Title: "Unmeasured"}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertPostAnalytics(p.ID, 1200, 0.21); err != nil {
		t.Fatalf("UpsertPostAnalytics failed: %v", err)
	}

	posts, err := s.ListPostsWithAnalytics()
	if err != nil {
		t.Fatalf("ListPostsWithAnalytics failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	byID := map[int64]PostWithAnalytics{}
	for _, pa := range posts {
		byID[pa.ID] = pa
	}
	if got := byID[p.ID]; got.ViewsLast30Days != 1200 || got.ClickThroughRate != 0.21 {
		t.Errorf("snapshot = (%d, %v), want (1200, 0.21)", got.ViewsLast30Days, got.ClickThroughRate)
	}
	for id, pa := range byID {
		if id == p.ID {
			continue
		}
		if pa.ViewsLast30Days != 0 || pa.ClickThroughRate != 0 {
			t.Errorf("missing snapshot should read as zeros, got (%d, %v)", pa.ViewsLast30Days, pa.ClickThroughRate)
		}
	}

	// upserting again overwrites the snapshot in place
	if err := s.UpsertPostAnalytics(p.ID, 300, 0.05); err != nil {
		t.Fatalf("UpsertPostAnalytics failed: %v", err)
	}
	posts, err = s.ListPostsWithAnalytics()
	if err != nil {
		t.Fatal(err)
	}
	for _, pa := range posts {
		if pa.ID == p.ID && pa.ViewsLast30Days != 300 {
			t.Errorf("ViewsLast30Days = %d, want 300 after upsert", pa.ViewsLast30Days)
		}
	}
}
