// Package browser drives real browser engines for pages that need script
// execution. Every session is isolated: one engine process per request.
package browser

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
	"github.com/user/scrape-service/internal/proxy"
)

// Session is a single automation session. All methods must return an error
// instead of blocking once the session is closed or its engine has died.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	Query(ctx context.Context, selector string) ([]extract.Node, error)
	// Close ends the session. It is idempotent.
	Close() error
}

// Launcher starts sessions for a browser kind.
type Launcher interface {
	Start(ctx context.Context, kind entity.BrowserKind) (Session, error)
}

// Options configure every engine started by a DriverLauncher.
type Options struct {
	Headless bool
	ExecPath string
	Stealth  bool
	Proxies  *proxy.Manager
	Logger   *zap.Logger
}

// EngineFunc starts a session on one engine.
type EngineFunc func(ctx context.Context, opts Options) (Session, error)

// DriverLauncher maps browser kinds to engines. Unknown kinds fail
// immediately; there is no fallback to another engine.
type DriverLauncher struct {
	opts    Options
	engines map[entity.BrowserKind]EngineFunc
}

// NewDriverLauncher registers the chromedp engine as "chrome" and the go-rod
// engine as "chromium".
func NewDriverLauncher(opts Options) *DriverLauncher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &DriverLauncher{
		opts: opts,
		engines: map[entity.BrowserKind]EngineFunc{
			entity.BrowserChrome:   startChromedp,
			entity.BrowserChromium: startRod,
		},
	}
}

// Register replaces or adds the engine for kind.
func (l *DriverLauncher) Register(kind entity.BrowserKind, fn EngineFunc) {
	l.engines[kind] = fn
}

// Start implements Launcher. Failures are *entity.DriverError.
func (l *DriverLauncher) Start(ctx context.Context, kind entity.BrowserKind) (Session, error) {
	start, ok := l.engines[kind]
	if !ok {
		return nil, &entity.DriverError{Browser: kind, Err: entity.ErrUnsupportedBrowser}
	}
	s, err := start(ctx, l.opts)
	if err != nil {
		return nil, &entity.DriverError{Browser: kind, Err: err}
	}
	return s, nil
}
