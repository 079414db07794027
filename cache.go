package writedesk

import (
	"sync"
	"time"
)

// PostCache is an in-memory TTL cache of published posts. It feeds the
// server-rendered blog pages, the RSS feed, and the sitemap; the JSON API
// always reads the store directly. Save-draft invalidates it.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns cached published posts after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock for a reload.
func (c *PostCache) ensureLoaded() ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPublishedPosts()
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPublished returns the cached published posts, newest first.
func (c *PostCache) ListPublished() ([]Post, error) {
	return c.ensureLoaded()
}

// GetPublished returns a single published post by slug from the cache. The
// second return value reports whether the post was found.
func (c *PostCache) GetPublished(slug string) (Post, bool, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return Post{}, false, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return Post{}, false, nil
}
