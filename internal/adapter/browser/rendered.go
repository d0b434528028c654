package browser

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
)

// RenderedExtractor loads a page in a real browser and reads the same field
// set as the static extractor from the live document.
//
// Readiness is time based: wait for <body> up to waitTimeout, then sleep
// settleDelay for late asynchronous content. Pages that keep loading past the
// settle delay are read as they are at that moment.
type RenderedExtractor struct {
	launcher    Launcher
	defaultKind entity.BrowserKind
	waitTimeout time.Duration
	settleDelay time.Duration
	logger      *zap.Logger
	sessions    *semaphore.Weighted
}

func NewRenderedExtractor(launcher Launcher, defaultKind entity.BrowserKind, waitTimeout, settleDelay time.Duration, logger *zap.Logger) *RenderedExtractor {
	return &RenderedExtractor{
		launcher:    launcher,
		defaultKind: defaultKind,
		waitTimeout: waitTimeout,
		settleDelay: settleDelay,
		logger:      logger,
	}
}

// WithMaxSessions bounds the number of browser sessions open at once.
// Callers over the limit wait for a free slot or for ctx to end. n <= 0
// removes the bound.
func (e *RenderedExtractor) WithMaxSessions(n int) *RenderedExtractor {
	if n <= 0 {
		e.sessions = nil
		return e
	}
	e.sessions = semaphore.NewWeighted(int64(n))
	return e
}

func (e *RenderedExtractor) Strategy() entity.Strategy { return entity.StrategyRendered }

// Extract implements repository.Extractor. The session is closed on every
// return path.
func (e *RenderedExtractor) Extract(ctx context.Context, req entity.ScrapeRequest) (*entity.ExtractedContent, error) {
	kind := req.Browser
	if kind == "" {
		kind = e.defaultKind
	}

	if e.sessions != nil {
		if err := e.sessions.Acquire(ctx, 1); err != nil {
			return nil, e.wrap(kind, "acquire session slot", err)
		}
		defer e.sessions.Release(1)
	}

	session, err := e.launcher.Start(ctx, kind)
	if err != nil {
		var driverErr *entity.DriverError
		if errors.As(err, &driverErr) {
			return nil, err
		}
		return nil, &entity.DriverError{Browser: kind, Err: err}
	}
	defer func() {
		if err := session.Close(); err != nil {
			e.logger.Warn("failed to close browser session", zap.String("url", req.URL), zap.String("browser", string(kind)), zap.Error(err))
		}
	}()

	loadCtx, cancel := context.WithTimeout(ctx, e.waitTimeout)
	defer cancel()

	if err := session.Navigate(loadCtx, req.URL); err != nil {
		return nil, e.wrap(kind, "navigate", err)
	}
	if err := session.WaitFor(loadCtx, "body", e.waitTimeout); err != nil {
		return nil, e.wrap(kind, "wait for body", err)
	}

	select {
	case <-time.After(e.settleDelay):
	case <-ctx.Done():
		return nil, e.wrap(kind, "settle", ctx.Err())
	}

	content, err := extract.Fields(ctx, session)
	if err != nil {
		return nil, e.wrap(kind, "extract", err)
	}
	return content, nil
}

func (e *RenderedExtractor) wrap(kind entity.BrowserKind, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &entity.TimeoutError{Op: op, After: e.waitTimeout, Err: err}
	}
	return &entity.DriverError{Browser: kind, Err: err}
}
