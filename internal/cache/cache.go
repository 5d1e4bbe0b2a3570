// Package cache holds the process-local book cache. It is a pure
// performance layer: the books table is always the source of truth and
// every write path invalidates the affected entry.
package cache

import (
	"time"

	"github.com/viccon/sturdyc"

	"shelfwise/internal/domain"
)

const (
	capacity           = 10000
	numShards          = 64
	evictionPercentage = 10
)

// BookCache is a TTL cache keyed by book id. sturdyc shards the key
// space internally, so Get/Put/Invalidate are safe from any number of
// request goroutines.
type BookCache struct {
	client *sturdyc.Client[domain.Book]
}

func New(ttl time.Duration) *BookCache {
	return &BookCache{
		client: sturdyc.New[domain.Book](capacity, numShards, ttl, evictionPercentage),
	}
}

// Get returns the cached book for id. ok is false on a miss or once
// the entry has outlived the TTL.
func (c *BookCache) Get(id string) (domain.Book, bool) {
	return c.client.Get(id)
}

// Put stores a snapshot of b, overwriting any prior entry for the id.
func (c *BookCache) Put(b domain.Book) {
	c.client.Set(b.ID, b)
}

// Invalidate removes the entry for id. No-op on an absent key.
func (c *BookCache) Invalidate(id string) {
	c.client.Delete(id)
}
