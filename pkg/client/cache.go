package client

import (
	"time"

	"github.com/JeBooking/UCBE/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps a cached thread listing with its expiry time
type cacheItem struct {
	data      []models.CommentView
	expiresAt time.Time
}

// responseCache is a bounded, time-boxed cache for GET /comments
// responses, keyed by request path plus device header. Writes call
// Delete for the affected key before they report success.
type responseCache struct {
	lruCache *lru.Cache[string, cacheItem]
	ttl      time.Duration
}

func newResponseCache(size int, ttl time.Duration) (*responseCache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, err
	}
	return &responseCache{lruCache: l, ttl: ttl}, nil
}

func (c *responseCache) Set(key string, data []models.CommentView) {
	c.lruCache.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Get returns the cached listing, or false when absent or expired
func (c *responseCache) Get(key string) ([]models.CommentView, bool) {
	item, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}
	return item.data, true
}

func (c *responseCache) Delete(key string) {
	c.lruCache.Remove(key)
}
