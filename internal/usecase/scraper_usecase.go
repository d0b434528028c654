package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/repository"
	"github.com/user/scrape-service/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Scraper defines the interface for the adaptive extraction pipeline.
type Scraper interface {
	// Scrape returns the cached record for req.URL or extracts, classifies and
	// caches a fresh one. Failures are returned as *entity.ScrapeError.
	Scrape(ctx context.Context, req entity.ScrapeRequest) (*entity.ScrapedRecord, error)
	// Lookup reads the cache only; it returns nil on a miss.
	Lookup(ctx context.Context, url string) (*entity.ScrapedRecord, error)
}

// ScraperDeps groups the collaborators of the scraper. Classifier and
// Failures are optional.
type ScraperDeps struct {
	Cache      repository.RecordCache
	Detector   repository.Detector
	Static     repository.Extractor
	Rendered   repository.Extractor
	Classifier repository.Classifier
	Failures   repository.FailureRepository
	Metrics    *metrics.Metrics
	Logger     *zap.Logger

	// Coalesce joins concurrent calls for the same request onto one pipeline run.
	Coalesce bool
	// CoalesceTimeout bounds a shared run, which outlives the caller that
	// started it; defaults to defaultCoalesceTimeout.
	CoalesceTimeout time.Duration
	// Now is the clock used to stamp records; defaults to time.Now.
	Now func() time.Time
}

const defaultCoalesceTimeout = 2 * time.Minute

type scraperUseCase struct {
	ScraperDeps
	inflight singleflight.Group
}

// NewScraper creates a new instance of the scraper use case.
func NewScraper(deps ScraperDeps) Scraper {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.CoalesceTimeout <= 0 {
		deps.CoalesceTimeout = defaultCoalesceTimeout
	}
	return &scraperUseCase{ScraperDeps: deps}
}

func (uc *scraperUseCase) Lookup(ctx context.Context, url string) (*entity.ScrapedRecord, error) {
	return uc.Cache.Get(ctx, url)
}

func (uc *scraperUseCase) Scrape(ctx context.Context, req entity.ScrapeRequest) (*entity.ScrapedRecord, error) {
	if !uc.Coalesce {
		return uc.run(ctx, req)
	}

	// The shared run must not end when the caller that started it goes away.
	ch := uc.inflight.DoChan(string(req.Browser)+"|"+req.URL, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.CoalesceTimeout)
		defer cancel()
		return uc.run(runCtx, req)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		record := res.Val.(*entity.ScrapedRecord)
		if res.Shared {
			uc.Logger.Debug("Joined in-flight scrape", zap.String("url", req.URL))
			return record.Clone(), nil
		}
		return record, nil
	case <-ctx.Done():
		return nil, &entity.ScrapeError{URL: req.URL, Stage: entity.StageFailed, Err: ctx.Err()}
	}
}

func (uc *scraperUseCase) run(ctx context.Context, req entity.ScrapeRequest) (*entity.ScrapedRecord, error) {
	log := uc.Logger.With(zap.String("url", req.URL))

	cached, err := uc.Cache.Get(ctx, req.URL)
	if err != nil {
		uc.Metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, uc.fail(ctx, req.URL, entity.StageCacheLookup, "", err)
	}
	if cached != nil {
		uc.Metrics.CacheLookups.WithLabelValues("hit").Inc()
		uc.Metrics.ScrapesTotal.WithLabelValues("none", "cached").Inc()
		log.Debug("Cache hit")
		return cached, nil
	}
	uc.Metrics.CacheLookups.WithLabelValues("miss").Inc()

	extractor := uc.chooseExtractor(ctx, req.URL, log)
	strategy := extractor.Strategy()

	start := time.Now()
	content, err := extractor.Extract(ctx, req)
	uc.Metrics.ScrapeDuration.WithLabelValues(string(strategy)).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("Extraction failed", zap.String("strategy", string(strategy)), zap.Error(err))
		return nil, uc.fail(ctx, req.URL, entity.StageExtracting, strategy, err)
	}

	record := &entity.ScrapedRecord{
		URL:         req.URL,
		Title:       content.Title,
		Description: content.Description,
		Links:       content.Links,
		ScrapedAt:   uc.Now().UTC().Truncate(time.Millisecond),
	}
	if record.Links == nil {
		record.Links = []string{}
	}
	if uc.Classifier != nil {
		record.Category = uc.Classifier.Classify(ctx, content.ClassificationText())
	}

	if err := uc.Cache.Put(ctx, record); err != nil {
		// The caller still gets the fresh record.
		uc.Metrics.CacheWriteFailures.Inc()
		log.Warn("Failed to persist scraped record, returning it uncached", zap.Error(err))
	}

	if uc.Failures != nil {
		if err := uc.Failures.Delete(ctx, req.URL); err != nil {
			log.Warn("Failed to clear failure record after successful scrape", zap.Error(err))
		}
	}

	uc.Metrics.ScrapesTotal.WithLabelValues(string(strategy), "success").Inc()
	log.Info("Scrape successful",
		zap.String("strategy", string(strategy)),
		zap.Int("links", len(record.Links)),
		zap.String("category", record.Category),
		zap.Duration("duration", time.Since(start)),
	)
	return record, nil
}

// chooseExtractor runs the detector. A failed probe selects the rendered path.
func (uc *scraperUseCase) chooseExtractor(ctx context.Context, url string, log *zap.Logger) repository.Extractor {
	needsRendering, err := uc.Detector.NeedsRendering(ctx, url)
	switch {
	case err != nil:
		uc.Metrics.DetectorDecisions.WithLabelValues("error").Inc()
		log.Warn("Renderability probe failed, using rendered extraction", zap.Error(err))
		return uc.Rendered
	case needsRendering:
		uc.Metrics.DetectorDecisions.WithLabelValues(string(entity.StrategyRendered)).Inc()
		return uc.Rendered
	default:
		uc.Metrics.DetectorDecisions.WithLabelValues(string(entity.StrategyStatic)).Inc()
		return uc.Static
	}
}

func (uc *scraperUseCase) fail(ctx context.Context, url string, stage entity.Stage, strategy entity.Strategy, cause error) error {
	label := string(strategy)
	if label == "" {
		label = "none"
	}
	uc.Metrics.ScrapesTotal.WithLabelValues(label, "failure").Inc()

	if uc.Failures != nil {
		failure := &entity.ScrapeFailure{
			URL:            url,
			Stage:          stage,
			Reason:         cause.Error(),
			HTTPStatusCode: entity.HTTPStatusOf(cause),
			LastAttempt:    uc.Now().UTC(),
		}
		if err := uc.Failures.SaveOrUpdate(ctx, failure); err != nil {
			uc.Logger.Warn("Failed to record scrape failure", zap.String("url", url), zap.Error(err))
		}
	}

	var scrapeErr *entity.ScrapeError
	if errors.As(cause, &scrapeErr) {
		return cause
	}
	return &entity.ScrapeError{URL: url, Stage: stage, Err: cause}
}
