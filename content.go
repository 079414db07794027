package writedesk

import (
	"errors"
	"fmt"
	"time"
)

// SEO health is derived purely from click-through rate. The thresholds are
// fixed business constants; both are inclusive lower bounds.
const (
	ctrHealthyMin        = 0.18
	ctrNeedsAttentionMin = 0.08
)

const (
	SeoHealthy        = "healthy"
	SeoNeedsAttention = "needs_attention"
	SeoPoor           = "poor"
)

// SaveDraftInput is the autosave payload from the writer console. ID is nil
// when creating a new post. ScheduledFor is an RFC 3339 string or empty.
type SaveDraftInput struct {
	ID           *int64 `json:"id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	ScheduledFor string `json:"scheduledFor"`
}

// PublicPostView is the shape served on the public surface.
type PublicPostView struct {
	ID                     int64    `json:"id"`
	Slug                   string   `json:"slug"`
	Title                  string   `json:"title"`
	Excerpt                string   `json:"excerpt"`
	Body                   string   `json:"body"`
	Tags                   []string `json:"tags"`
	PublishedAt            string   `json:"publishedAt"`
	ReadingMinutesOverride *int     `json:"readingMinutesOverride"`
	CoverImage             *string  `json:"coverImage"`
}

// PostAdminSummary is the admin listing row, including the analytics snapshot
// and the derived SEO health signal.
type PostAdminSummary struct {
	ID               int64   `json:"id"`
	Slug             string  `json:"slug"`
	Title            string  `json:"title"`
	Status           string  `json:"status"`
	LastUpdatedAt    string  `json:"lastUpdatedAt"`
	ViewsLast30Days  int     `json:"viewsLast30Days"`
	ClickThroughRate float64 `json:"clickThroughRate"`
	SeoHealth        string  `json:"seoHealth"`
	PublishedAt      *string `json:"publishedAt"`
}

// EditorPostView is the post payload inside the editor state. PublishedAt is
// an empty string, not null, when the post has never been published.
type EditorPostView struct {
	ID                     int64    `json:"id"`
	Slug                   string   `json:"slug"`
	Title                  string   `json:"title"`
	Excerpt                string   `json:"excerpt"`
	Body                   string   `json:"body"`
	Tags                   []string `json:"tags"`
	PublishedAt            string   `json:"publishedAt"`
	ReadingMinutesOverride *int     `json:"readingMinutesOverride"`
	CoverImage             *string  `json:"coverImage"`
}

// EditorSeo carries the SEO fields shown next to the editor.
type EditorSeo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// PostEditorData is the full editor state for a post, or the empty shell when
// the post is new or unknown.
type PostEditorData struct {
	Post         *EditorPostView `json:"post"`
	Status       string          `json:"status"`
	ScheduledFor *string         `json:"scheduledFor"`
	Seo          EditorSeo       `json:"seo"`
	PreviewURL   string          `json:"previewUrl"`
}

// ContentService implements the content workflows on top of the Store.
type ContentService struct {
	store *Store
	now   func() time.Time
}

// NewContentService creates a ContentService backed by the given store.
func NewContentService(store *Store) *ContentService {
	return &ContentService{store: store, now: time.Now}
}

// SaveDraft creates or updates a post and returns its id.
//
// Whenever the requested status resolves to published, the publish timestamp
// is set to the current instant — including on re-saves of already-published
// posts. That reset-on-save behavior is intentional pending a product
// decision; do not change it here. On updates with any other status the
// existing publish timestamp is preserved. Tags are not settable through this
// workflow.
func (c *ContentService) SaveDraft(in SaveDraftInput) (int64, error) {
	if in.Title == "" || len(in.Title) > 500 {
		return 0, fmt.Errorf("title must be 1-500 characters: %w", ErrValidation)
	}
	if in.Slug == "" || len(in.Slug) > 200 {
		return 0, fmt.Errorf("slug must be 1-200 characters: %w", ErrValidation)
	}
	status, err := statusFromFrontend(in.Status)
	if err != nil {
		return 0, err
	}

	var scheduledFor *time.Time
	if in.ScheduledFor != "" {
		t, err := time.Parse(time.RFC3339, in.ScheduledFor)
		if err != nil {
			return 0, fmt.Errorf("scheduledFor must be RFC 3339: %w", ErrValidation)
		}
		scheduledFor = &t
	}

	var publishedAt *time.Time
	if status == StatusPublished {
		now := c.now()
		publishedAt = &now
	}

	if in.ID != nil {
		existing, err := c.store.PostByID(*in.ID)
		if err != nil {
			return 0, err
		}
		if status != StatusPublished {
			publishedAt = existing.PublishedAt
		}
		_, err = c.store.UpdatePost(*in.ID, PostUpdate{
			Slug:            &in.Slug,
			Title:           &in.Title,
			Excerpt:         &in.Description,
			Body:            &in.Body,
			Status:          &status,
			SetPublishedAt:  true,
			PublishedAt:     publishedAt,
			SetScheduledFor: true,
			ScheduledFor:    scheduledFor,
		})
		if err != nil {
			return 0, err
		}
		return *in.ID, nil
	}

	if _, err := c.store.PostBySlug(in.Slug); err == nil {
		return 0, fmt.Errorf("slug %q already in use: %w", in.Slug, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	post, err := c.store.CreatePost(PostCreate{
		Slug:         in.Slug,
		Title:        in.Title,
		Excerpt:      in.Description,
		Body:         in.Body,
		Status:       status,
		PublishedAt:  publishedAt,
		ScheduledFor: scheduledFor,
		TagNames:     []string{},
	})
	if err != nil {
		return 0, err
	}
	return post.ID, nil
}

// EditorDataNew returns the empty editor shell used for brand-new posts.
func (c *ContentService) EditorDataNew() PostEditorData {
	return PostEditorData{
		Post:         nil,
		Status:       "draft",
		ScheduledFor: nil,
		Seo:          EditorSeo{},
		PreviewURL:   "/blog/preview",
	}
}

// EditorData returns the editor state for an existing post. An unknown id
// yields the same empty shell as a new post rather than an error.
func (c *ContentService) EditorData(id int64) (PostEditorData, error) {
	post, err := c.store.PostByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.EditorDataNew(), nil
		}
		return PostEditorData{}, err
	}

	publishedAt := ""
	if post.PublishedAt != nil {
		publishedAt = isoTime(*post.PublishedAt)
	}
	var scheduledFor *string
	if post.ScheduledFor != nil {
		s := isoTime(*post.ScheduledFor)
		scheduledFor = &s
	}
	return PostEditorData{
		Post: &EditorPostView{
			ID:                     post.ID,
			Slug:                   post.Slug,
			Title:                  post.Title,
			Excerpt:                post.Excerpt,
			Body:                   post.Body,
			Tags:                   tagsOrEmpty(post.TagNames),
			PublishedAt:            publishedAt,
			ReadingMinutesOverride: post.ReadingMinutesOverride,
			CoverImage:             post.CoverImage,
		},
		Status:       statusToFrontend(post.Status),
		ScheduledFor: scheduledFor,
		Seo: EditorSeo{
			Title:       post.Title,
			Description: post.Excerpt,
			Slug:        post.Slug,
		},
		PreviewURL: "/blog/" + post.Slug,
	}, nil
}

// ListPublishedPosts returns published posts as public views, newest first.
func (c *ContentService) ListPublishedPosts() ([]PublicPostView, error) {
	posts, err := c.store.ListPublishedPosts()
	if err != nil {
		return nil, err
	}
	views := make([]PublicPostView, len(posts))
	for i, p := range posts {
		views[i] = publicView(p)
	}
	return views, nil
}

// PublicPostBySlug returns a post only if it is published with a non-null
// publish timestamp; drafts and scheduled posts are never visible here, even
// by direct slug lookup.
func (c *ContentService) PublicPostBySlug(slug string) (*PublicPostView, error) {
	post, err := c.store.PostBySlug(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if post.Status != StatusPublished || post.PublishedAt == nil {
		return nil, nil
	}
	v := publicView(post)
	return &v, nil
}

// ListAdminPosts returns every post as an admin summary with analytics.
func (c *ContentService) ListAdminPosts() ([]PostAdminSummary, error) {
	posts, err := c.store.ListPostsWithAnalytics()
	if err != nil {
		return nil, err
	}
	views := make([]PostAdminSummary, len(posts))
	for i, p := range posts {
		var publishedAt *string
		if p.PublishedAt != nil {
			s := isoTime(*p.PublishedAt)
			publishedAt = &s
		}
		views[i] = PostAdminSummary{
			ID:               p.ID,
			Slug:             p.Slug,
			Title:            p.Title,
			Status:           statusToFrontend(p.Status),
			LastUpdatedAt:    isoTime(p.UpdatedAt),
			ViewsLast30Days:  p.ViewsLast30Days,
			ClickThroughRate: p.ClickThroughRate,
			SeoHealth:        SeoHealthFromCTR(p.ClickThroughRate),
			PublishedAt:      publishedAt,
		}
	}
	return views, nil
}

// SeoHealthFromCTR maps a click-through rate to the tri-state health signal.
func SeoHealthFromCTR(ctr float64) string {
	switch {
	case ctr >= ctrHealthyMin:
		return SeoHealthy
	case ctr >= ctrNeedsAttentionMin:
		return SeoNeedsAttention
	default:
		return SeoPoor
	}
}

func publicView(p Post) PublicPostView {
	return PublicPostView{
		ID:                     p.ID,
		Slug:                   p.Slug,
		Title:                  p.Title,
		Excerpt:                p.Excerpt,
		Body:                   p.Body,
		Tags:                   tagsOrEmpty(p.TagNames),
		PublishedAt:            isoTime(*p.PublishedAt),
		ReadingMinutesOverride: p.ReadingMinutesOverride,
		CoverImage:             p.CoverImage,
	}
}

func statusToFrontend(s PostStatus) string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusPublished:
		return "published"
	default:
		return "draft"
	}
}

func statusFromFrontend(s string) (PostStatus, error) {
	switch s {
	case "draft":
		return StatusDraft, nil
	case "scheduled":
		return StatusScheduled, nil
	case "published":
		return StatusPublished, nil
	default:
		return "", fmt.Errorf("unknown status %q: %w", s, ErrValidation)
	}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
