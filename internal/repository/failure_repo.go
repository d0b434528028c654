package repository

import (
	"context"

	"github.com/user/scrape-service/internal/entity"
)

// FailureRepository keeps the last failure seen for each URL.
type FailureRepository interface {
	// SaveOrUpdate records a failure, incrementing the attempt count on conflict.
	SaveOrUpdate(ctx context.Context, failure *entity.ScrapeFailure) error
	// FindByURL returns the failure for url, or nil if none is recorded.
	FindByURL(ctx context.Context, url string) (*entity.ScrapeFailure, error)
	// Delete removes a failure record, typically after a successful scrape.
	Delete(ctx context.Context, url string) error
}
