package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/pkg/utils"
)

const recordKeyPrefix = "scrape:record:"

// RecordCacheImpl provides a concrete implementation for the RecordCache interface using Redis.
// Records are stored as JSON without expiry.
type RecordCacheImpl struct {
	client redis.UniversalClient
}

// NewRecordCache creates a new instance of RecordCacheImpl.
func NewRecordCache(client redis.UniversalClient) *RecordCacheImpl {
	return &RecordCacheImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
// The hash is taken over the exact URL string, so no normalization happens.
func (r *RecordCacheImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", recordKeyPrefix, utils.HashURL(url))
}

// Get returns the stored record for url, or nil if there is none.
func (r *RecordCacheImpl) Get(ctx context.Context, url string) (*entity.ScrapedRecord, error) {
	payload, err := r.client.Get(ctx, r.generateKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &entity.CacheError{Op: "get", Err: err}
	}

	var record entity.ScrapedRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, &entity.CacheError{Op: "get", Err: fmt.Errorf("decode record: %w", err)}
	}
	return &record, nil
}

// Put upserts the record. A zero expiration keeps it until overwritten or evicted externally.
func (r *RecordCacheImpl) Put(ctx context.Context, record *entity.ScrapedRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return &entity.CacheError{Op: "put", Err: fmt.Errorf("encode record: %w", err)}
	}
	if err := r.client.Set(ctx, r.generateKey(record.URL), payload, 0).Err(); err != nil {
		return &entity.CacheError{Op: "put", Err: err}
	}
	return nil
}

// Ping checks connectivity to Redis.
func (r *RecordCacheImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
