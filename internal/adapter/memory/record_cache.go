package memory

import (
	"context"
	"sync"

	"github.com/user/scrape-service/internal/entity"
)

// RecordCache is an in-process RecordCache. It is safe for concurrent use and
// keeps its own copies so stored records cannot be mutated by callers.
type RecordCache struct {
	mu    sync.RWMutex
	store map[string]*entity.ScrapedRecord
}

func NewRecordCache() *RecordCache {
	return &RecordCache{store: make(map[string]*entity.ScrapedRecord)}
}

func (c *RecordCache) Get(_ context.Context, url string) (*entity.ScrapedRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store[url].Clone(), nil
}

func (c *RecordCache) Put(_ context.Context, record *entity.ScrapedRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[record.URL] = record.Clone()
	return nil
}

func (c *RecordCache) Ping(context.Context) error { return nil }

// Len returns the number of stored records.
func (c *RecordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
