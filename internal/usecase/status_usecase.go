package usecase

import (
	"context"
	"fmt"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/repository"
)

// StatusReader reports what the service knows about a URL.
type StatusReader interface {
	GetStatus(ctx context.Context, url string) (*entity.ScrapeStatus, error)
}

type statusUseCase struct {
	cache    repository.RecordCache
	failures repository.FailureRepository
}

// NewStatusReader creates a StatusReader. failures may be nil when the
// configured backend keeps no failure log.
func NewStatusReader(cache repository.RecordCache, failures repository.FailureRepository) StatusReader {
	return &statusUseCase{cache: cache, failures: failures}
}

func (uc *statusUseCase) GetStatus(ctx context.Context, url string) (*entity.ScrapeStatus, error) {
	record, err := uc.cache.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached record for %s: %w", url, err)
	}
	if record != nil {
		scrapedAt := record.ScrapedAt
		return &entity.ScrapeStatus{
			URL:           url,
			CurrentStatus: entity.StatusCached,
			ScrapedAt:     &scrapedAt,
			Category:      record.Category,
		}, nil
	}

	if uc.failures != nil {
		failure, err := uc.failures.FindByURL(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to read failure record for %s: %w", url, err)
		}
		if failure != nil {
			lastAttempt := failure.LastAttempt
			return &entity.ScrapeStatus{
				URL:           url,
				CurrentStatus: entity.StatusFailed,
				FailureReason: failure.Reason,
				LastAttempt:   &lastAttempt,
			}, nil
		}
	}

	return &entity.ScrapeStatus{URL: url, CurrentStatus: entity.StatusNotFound}, nil
}
