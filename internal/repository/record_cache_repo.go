package repository

import (
	"context"

	"github.com/user/scrape-service/internal/entity"
)

// RecordCache stores scraped records keyed by the exact URL string.
type RecordCache interface {
	// Get returns the most recently stored record for url, or nil on a miss.
	Get(ctx context.Context, url string) (*entity.ScrapedRecord, error)
	// Put upserts the record under record.URL.
	Put(ctx context.Context, record *entity.ScrapedRecord) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
