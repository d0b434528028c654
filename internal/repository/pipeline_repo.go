package repository

import (
	"context"

	"github.com/user/scrape-service/internal/entity"
)

// Detector decides whether a page needs a rendered-browser pass.
type Detector interface {
	// NeedsRendering reports true when static retrieval is not enough. On a
	// failed probe it returns true together with the error.
	NeedsRendering(ctx context.Context, url string) (bool, error)
}

// Extractor turns a page into its raw field set using one strategy.
type Extractor interface {
	Extract(ctx context.Context, req entity.ScrapeRequest) (*entity.ExtractedContent, error)
	Strategy() entity.Strategy
}

// Classifier maps free text to one label of a fixed category table. It never fails.
type Classifier interface {
	Classify(ctx context.Context, text string) string
}
