package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/user/scrape-service/internal/entity"
)

// FailureRepoImpl provides a concrete implementation for the FailureRepository interface using PostgreSQL.
type FailureRepoImpl struct {
	db DBTX
}

// NewFailureRepo creates a new instance of FailureRepoImpl.
func NewFailureRepo(db DBTX) *FailureRepoImpl {
	return &FailureRepoImpl{db: db}
}

// SaveOrUpdate creates or updates a record for a failed URL.
// It increments the attempts counter on conflict.
func (r *FailureRepoImpl) SaveOrUpdate(ctx context.Context, failure *entity.ScrapeFailure) error {
	query := `
		INSERT INTO scrape_failures (url, stage, reason, http_status_code, attempts, last_attempt)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (url) DO UPDATE SET
			stage = EXCLUDED.stage,
			reason = EXCLUDED.reason,
			http_status_code = EXCLUDED.http_status_code,
			attempts = scrape_failures.attempts + 1,
			last_attempt = EXCLUDED.last_attempt;
	`
	_, err := r.db.Exec(ctx, query,
		failure.URL,
		string(failure.Stage),
		failure.Reason,
		failure.HTTPStatusCode,
		failure.LastAttempt,
	)
	return err
}

// FindByURL returns the failure recorded for url, or nil.
func (r *FailureRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ScrapeFailure, error) {
	query := `
		SELECT url, stage, reason, http_status_code, attempts, last_attempt
		FROM scrape_failures
		WHERE url = $1;
	`
	var (
		f     entity.ScrapeFailure
		stage string
	)
	err := r.db.QueryRow(ctx, query, url).Scan(
		&f.URL,
		&stage,
		&f.Reason,
		&f.HTTPStatusCode,
		&f.Attempts,
		&f.LastAttempt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.Stage = entity.Stage(stage)
	return &f, nil
}

// Delete removes a failure record, typically after a successful scrape.
func (r *FailureRepoImpl) Delete(ctx context.Context, url string) error {
	query := `DELETE FROM scrape_failures WHERE url = $1;`
	_, err := r.db.Exec(ctx, query, url)
	return err
}
