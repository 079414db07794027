package writedesk

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides persistence for posts, tags,
// analytics snapshots, settings, and uploaded images.
type Store struct {
	db *sql.DB
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so row helpers can run inside
// or outside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows concurrent readers while a writer is active; busy_timeout
	// makes writers wait instead of failing with SQLITE_BUSY. synchronous=
	// NORMAL is safe under WAL and skips an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'DRAFT',
    published_at TEXT,
    scheduled_for TEXT,
    reading_minutes_override INTEGER,
    cover_image TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS post_tags (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id),
    PRIMARY KEY (post_id, tag_id)
);

CREATE TABLE IF NOT EXISTS post_analytics (
    post_id INTEGER PRIMARY KEY REFERENCES posts(id) ON DELETE CASCADE,
    views_last_30_days INTEGER NOT NULL DEFAULT 0,
    click_through_rate REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS admin_settings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    seo_title_suffix TEXT NOT NULL,
    seo_default_description TEXT NOT NULL,
    seo_default_og_image_url TEXT NOT NULL,
    author_name TEXT NOT NULL,
    author_bio TEXT NOT NULL,
    rss_enabled INTEGER NOT NULL,
    email_digest_enabled INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_updated_at ON posts(updated_at);
CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
`)
	return err
}

const postColumns = `id, slug, title, excerpt, body, status, published_at, scheduled_for, reading_minutes_override, cover_image, created_at, updated_at`

// CreatePost inserts a post and its tag links. Tag names are resolved to
// existing-or-new tag rows before linking. A taken slug surfaces as ErrConflict.
func (s *Store) CreatePost(in PostCreate) (Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	res, err := tx.Exec(`INSERT INTO posts (slug, title, excerpt, body, status, published_at, scheduled_for, reading_minutes_override, cover_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Slug, in.Title, in.Excerpt, in.Body, string(in.Status),
		nullableTime(in.PublishedAt), nullableTime(in.ScheduledFor),
		nullableInt(in.ReadingMinutesOverride), nullableString(in.CoverImage),
		now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return Post{}, fmt.Errorf("slug %q already in use: %w", in.Slug, ErrConflict)
		}
		return Post{}, fmt.Errorf("writedesk: create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, err
	}
	if err := s.linkTags(tx, id, in.TagNames); err != nil {
		return Post{}, err
	}
	if err := tx.Commit(); err != nil {
		return Post{}, err
	}
	return s.PostByID(id)
}

// UpdatePost applies a partial update. Fields left nil are untouched; a
// non-nil TagNames removes every existing tag link and recreates the set from
// scratch. Returns ErrNotFound when the post does not exist.
func (s *Store) UpdatePost(id int64, in PostUpdate) (Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	var exists int64
	if err := tx.QueryRow(`SELECT id FROM posts WHERE id = ?`, id).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return Post{}, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	addSet := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if in.Slug != nil {
		addSet("slug", *in.Slug)
	}
	if in.Title != nil {
		addSet("title", *in.Title)
	}
	if in.Excerpt != nil {
		addSet("excerpt", *in.Excerpt)
	}
	if in.Body != nil {
		addSet("body", *in.Body)
	}
	if in.Status != nil {
		addSet("status", string(*in.Status))
	}
	if in.SetPublishedAt {
		addSet("published_at", nullableTime(in.PublishedAt))
	}
	if in.SetScheduledFor {
		addSet("scheduled_for", nullableTime(in.ScheduledFor))
	}
	if in.SetReadingMinutesOverride {
		addSet("reading_minutes_override", nullableInt(in.ReadingMinutesOverride))
	}
	if in.SetCoverImage {
		addSet("cover_image", nullableString(in.CoverImage))
	}
	args = append(args, id)
	if _, err := tx.Exec(`UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		if isUniqueViolation(err) {
			return Post{}, fmt.Errorf("slug already in use: %w", ErrConflict)
		}
		return Post{}, fmt.Errorf("writedesk: update post %d: %w", id, err)
	}

	if in.TagNames != nil {
		if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
			return Post{}, err
		}
		if err := s.linkTags(tx, id, in.TagNames); err != nil {
			return Post{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Post{}, err
	}
	return s.PostByID(id)
}

// PostByID returns a post with its tags resolved, or ErrNotFound.
func (s *Store) PostByID(id int64) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return Post{}, err
	}
	p.TagNames, err = s.tagsForPost(s.db, p.ID)
	return p, err
}

// PostBySlug returns a post with its tags resolved, or ErrNotFound.
func (s *Store) PostBySlug(slug string) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
		}
		return Post{}, err
	}
	p.TagNames, err = s.tagsForPost(s.db, p.ID)
	return p, err
}

// ListPosts returns every post ordered by most recently updated first.
func (s *Store) ListPosts() ([]Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return s.collectPosts(rows)
}

// ListPublishedPosts returns posts with status PUBLISHED and a non-null
// publish timestamp, ordered by most recently published first.
func (s *Store) ListPublishedPosts() ([]Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM posts
		WHERE status = 'PUBLISHED' AND published_at IS NOT NULL
		ORDER BY published_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return s.collectPosts(rows)
}

// ListPostsWithAnalytics returns every post joined with its analytics
// snapshot, defaulting to zero views and zero CTR when no snapshot exists.
// Ordered by most recently updated first.
func (s *Store) ListPostsWithAnalytics() ([]PostWithAnalytics, error) {
	rows, err := s.db.Query(`SELECT ` + withPrefix(postColumns, "p.") + `,
		COALESCE(a.views_last_30_days, 0), COALESCE(a.click_through_rate, 0)
		FROM posts p
		LEFT JOIN post_analytics a ON a.post_id = p.id
		ORDER BY p.updated_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PostWithAnalytics
	for rows.Next() {
		var pa PostWithAnalytics
		if err := scanPostInto(rows, &pa.Post, &pa.ViewsLast30Days, &pa.ClickThroughRate); err != nil {
			return nil, err
		}
		out = append(out, pa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		tags, err := s.tagsForPost(s.db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TagNames = tags
	}
	return out, nil
}

// UpsertPostAnalytics writes the analytics snapshot for a post. This is the
// entry point for the external analytics pipeline; the services only read.
func (s *Store) UpsertPostAnalytics(postID int64, views int, ctr float64) error {
	_, err := s.db.Exec(`INSERT INTO post_analytics (post_id, views_last_30_days, click_through_rate)
		VALUES (?, ?, ?)
		ON CONFLICT(post_id) DO UPDATE SET views_last_30_days = excluded.views_last_30_days, click_through_rate = excluded.click_through_rate`,
		postID, views, ctr)
	return err
}

// linkTags resolves each tag name to an existing-or-new tag row and links it
// to the post. Tag rows are never deleted, even when orphaned.
func (s *Store) linkTags(tx dbtx, postID int64, names []string) error {
	for _, name := range FilterEmpty(names) {
		if _, err := tx.Exec(`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return err
		}
		var tagID int64
		if err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) tagsForPost(q dbtx, postID int64) ([]string, error) {
	rows, err := q.Query(`SELECT t.name FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ? ORDER BY t.name`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) collectPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := scanPostInto(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		tags, err := s.tagsForPost(s.db, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].TagNames = tags
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	err := scanPostInto(row, &p)
	return p, err
}

// scanPostInto scans the postColumns set (plus any extra columns) into p.
func scanPostInto(row rowScanner, p *Post, extra ...any) error {
	var publishedAt, scheduledFor, coverImage sql.NullString
	var readingMinutes sql.NullInt64
	var createdAt, updatedAt, status string
	dest := []any{
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body, &status,
		&publishedAt, &scheduledFor, &readingMinutes, &coverImage,
		&createdAt, &updatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	p.Status = PostStatus(status)
	p.PublishedAt = parseNullTime(publishedAt)
	p.ScheduledFor = parseNullTime(scheduledFor)
	if readingMinutes.Valid {
		v := int(readingMinutes.Int64)
		p.ReadingMinutesOverride = &v
	}
	if coverImage.Valid {
		v := coverImage.String
		p.CoverImage = &v
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return nil
}

func withPrefix(columns, prefix string) string {
	parts := strings.Split(columns, ", ")
	for i := range parts {
		parts[i] = prefix + parts[i]
	}
	return strings.Join(parts, ", ")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Timestamps are stored as fixed-width RFC 3339 UTC strings so lexical
// ORDER BY matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
