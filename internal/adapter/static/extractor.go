package static

import (
	"context"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
)

// Extractor reads page fields from the delivered markup only. Content
// injected client-side is invisible to it.
type Extractor struct {
	fetcher *Fetcher
}

func NewExtractor(fetcher *Fetcher) *Extractor {
	return &Extractor{fetcher: fetcher}
}

func (e *Extractor) Strategy() entity.Strategy { return entity.StrategyStatic }

// Extract implements repository.Extractor. The browser field of req is ignored.
func (e *Extractor) Extract(ctx context.Context, req entity.ScrapeRequest) (*entity.ExtractedContent, error) {
	doc, err := e.fetcher.FetchDocument(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	return extract.Fields(ctx, doc)
}
