package writedesk

import "time"

// PostStatus is the workflow state of a post as stored in the database.
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusScheduled PostStatus = "SCHEDULED"
	StatusPublished PostStatus = "PUBLISHED"
)

// Post is the core content entity. PublishedAt is set when a post enters the
// PUBLISHED state and is deliberately kept when it leaves that state again.
type Post struct {
	ID                     int64
	Slug                   string
	Title                  string
	Excerpt                string
	Body                   string
	Status                 PostStatus
	PublishedAt            *time.Time
	ScheduledFor           *time.Time
	ReadingMinutesOverride *int
	CoverImage             *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
	TagNames               []string
}

// PostWithAnalytics joins a post with its analytics snapshot. The snapshot is
// owned by an external pipeline; a missing row reads as zero views and zero CTR.
type PostWithAnalytics struct {
	Post
	ViewsLast30Days  int
	ClickThroughRate float64
}

// PostCreate is the input for Store.CreatePost.
type PostCreate struct {
	Slug                   string
	Title                  string
	Excerpt                string
	Body                   string
	Status                 PostStatus
	PublishedAt            *time.Time
	ScheduledFor           *time.Time
	ReadingMinutesOverride *int
	CoverImage             *string
	TagNames               []string
}

// PostUpdate is a partial update for Store.UpdatePost. Nil pointer fields are
// left untouched. The nullable columns carry an explicit Set flag so callers
// can distinguish "leave alone" from "clear". A non-nil TagNames replaces
// every existing tag link; nil leaves the links alone.
type PostUpdate struct {
	Slug    *string
	Title   *string
	Excerpt *string
	Body    *string
	Status  *PostStatus

	SetPublishedAt  bool
	PublishedAt     *time.Time
	SetScheduledFor bool
	ScheduledFor    *time.Time

	SetReadingMinutesOverride bool
	ReadingMinutesOverride    *int
	SetCoverImage             bool
	CoverImage                *string

	TagNames []string
}

// AdminSettings is the single-row site configuration entity.
type AdminSettings struct {
	ID                    int64
	SeoTitleSuffix        string
	SeoDefaultDescription string
	SeoDefaultOgImageURL  string
	AuthorName            string
	AuthorBio             string
	RSSEnabled            bool
	EmailDigestEnabled    bool
	UpdatedAt             time.Time
}

// AdminSettingsUpdate is a partial update for Store.UpdateSettings.
type AdminSettingsUpdate struct {
	SeoTitleSuffix        *string
	SeoDefaultDescription *string
	SeoDefaultOgImageURL  *string
	AuthorName            *string
	AuthorBio             *string
	RSSEnabled            *bool
	EmailDigestEnabled    *bool
}

// Image is stored metadata for an uploaded media image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
