package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/scrape-service/internal/entity"
)

// DBTX is the subset of *pgxpool.Pool used by the repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// RecordCacheImpl provides a concrete implementation for the RecordCache interface using PostgreSQL.
type RecordCacheImpl struct {
	db DBTX
}

// NewRecordCache creates a new instance of RecordCacheImpl.
func NewRecordCache(db DBTX) *RecordCacheImpl {
	return &RecordCacheImpl{db: db}
}

// Put stores or replaces the record for its URL.
func (r *RecordCacheImpl) Put(ctx context.Context, record *entity.ScrapedRecord) error {
	query := `
		INSERT INTO scraped_records (url, title, description, links, category, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			links = EXCLUDED.links,
			category = EXCLUDED.category,
			scraped_at = EXCLUDED.scraped_at;
	`
	links := record.Links
	if links == nil {
		links = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		record.URL,
		record.Title,
		record.Description,
		links,
		nullable(record.Category),
		record.ScrapedAt,
	)
	if err != nil {
		return &entity.CacheError{Op: "put", Err: err}
	}
	return nil
}

// Get retrieves the record stored for exactly url, or nil if there is none.
func (r *RecordCacheImpl) Get(ctx context.Context, url string) (*entity.ScrapedRecord, error) {
	query := `
		SELECT url, title, description, links, category, scraped_at
		FROM scraped_records
		WHERE url = $1;
	`
	var (
		record   entity.ScrapedRecord
		category *string
	)
	err := r.db.QueryRow(ctx, query, url).Scan(
		&record.URL,
		&record.Title,
		&record.Description,
		&record.Links,
		&category,
		&record.ScrapedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &entity.CacheError{Op: "get", Err: err}
	}
	if category != nil {
		record.Category = *category
	}
	record.ScrapedAt = record.ScrapedAt.UTC()
	return &record, nil
}

// Ping checks connectivity to PostgreSQL.
func (r *RecordCacheImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
