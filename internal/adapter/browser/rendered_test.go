package browser

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
)

type fakeElement struct {
	text  string
	attrs map[string]string
}

func (e fakeElement) Text(context.Context) (string, error) { return e.text, nil }

func (e fakeElement) Attr(_ context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

type fakeSession struct {
	dom         map[string][]fakeElement
	navigateErr error
	waitErr     error
	queryErr    error
	navigated   string
	closes      atomic.Int32
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	if s.closes.Load() > 0 {
		return entity.ErrSessionClosed
	}
	s.navigated = url
	return s.navigateErr
}

func (s *fakeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if s.closes.Load() > 0 {
		return entity.ErrSessionClosed
	}
	return s.waitErr
}

func (s *fakeSession) Query(_ context.Context, selector string) ([]extract.Node, error) {
	if s.closes.Load() > 0 {
		return nil, entity.ErrSessionClosed
	}
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []extract.Node
	for _, el := range s.dom[selector] {
		out = append(out, el)
	}
	return out, nil
}

func (s *fakeSession) Close() error {
	s.closes.Add(1)
	return nil
}

func newExtractor(session *fakeSession) (*RenderedExtractor, *DriverLauncher) {
	l := NewDriverLauncher(Options{})
	l.Register(entity.BrowserChrome, func(context.Context, Options) (Session, error) {
		return session, nil
	})
	l.Register(entity.BrowserChromium, func(context.Context, Options) (Session, error) {
		return nil, errors.New("no chromium binary")
	})
	return NewRenderedExtractor(l, entity.BrowserChrome, time.Second, time.Millisecond, zap.NewNop()), l
}

func TestRenderedExtractor_ExtractsLiveDocument(t *testing.T) {
	session := &fakeSession{dom: map[string][]fakeElement{
		"title":                    {{text: " Rendered "}},
		`meta[name="description"]`: {{attrs: map[string]string{"content": "Client side"}}},
		"a":                        {{attrs: map[string]string{"href": "/next"}}, {attrs: map[string]string{}}},
		"img":                      {{attrs: map[string]string{"src": "hero.png"}}},
		"iframe":                   {{attrs: map[string]string{"src": "embed"}}},
	}}
	e, _ := newExtractor(session)

	got, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://example.com/app"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/app", session.navigated)
	assert.Equal(t, "Rendered", got.Title)
	assert.Equal(t, "Client side", got.Description)
	assert.Equal(t, []string{"/next"}, got.Links)
	assert.Equal(t, []string{"hero.png"}, got.Images)
	assert.Equal(t, []string{"embed"}, got.Media)
	assert.Equal(t, int32(1), session.closes.Load())
	assert.Equal(t, entity.StrategyRendered, e.Strategy())
}

func TestRenderedExtractor_WaitTimeoutClosesSession(t *testing.T) {
	session := &fakeSession{waitErr: context.DeadlineExceeded}
	e, _ := newExtractor(session)

	_, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://example.com/slow"})

	var timeoutErr *entity.TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, time.Second, timeoutErr.After)
	assert.Equal(t, int32(1), session.closes.Load())
}

func TestRenderedExtractor_ExtractionErrorClosesSession(t *testing.T) {
	session := &fakeSession{queryErr: errors.New("target crashed")}
	e, _ := newExtractor(session)

	_, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://example.com/crash"})

	var driverErr *entity.DriverError
	require.True(t, errors.As(err, &driverErr))
	assert.Equal(t, entity.BrowserChrome, driverErr.Browser)
	assert.Equal(t, int32(1), session.closes.Load())
}

func TestRenderedExtractor_NavigateErrorClosesSession(t *testing.T) {
	session := &fakeSession{navigateErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	e, _ := newExtractor(session)

	_, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://nowhere.invalid"})

	var driverErr *entity.DriverError
	require.True(t, errors.As(err, &driverErr))
	assert.Equal(t, int32(1), session.closes.Load())
}

func TestRenderedExtractor_UnsupportedBrowser(t *testing.T) {
	session := &fakeSession{}
	e, _ := newExtractor(session)

	_, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://example.com", Browser: "opera"})

	var driverErr *entity.DriverError
	require.True(t, errors.As(err, &driverErr))
	assert.Equal(t, entity.BrowserKind("opera"), driverErr.Browser)
	assert.True(t, errors.Is(err, entity.ErrUnsupportedBrowser))
	assert.Zero(t, session.closes.Load(), "no session was started")
}

func TestRenderedExtractor_EngineStartFailure(t *testing.T) {
	e, _ := newExtractor(&fakeSession{})

	_, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://example.com", Browser: entity.BrowserChromium})

	var driverErr *entity.DriverError
	require.True(t, errors.As(err, &driverErr))
	assert.Equal(t, entity.BrowserChromium, driverErr.Browser)
	assert.Contains(t, err.Error(), "no chromium binary")
}

func TestDriverLauncher_RejectsUnknownKindWithoutStarting(t *testing.T) {
	l := NewDriverLauncher(Options{})

	s, err := l.Start(context.Background(), "opera")

	assert.Nil(t, s)
	assert.True(t, errors.Is(err, entity.ErrUnsupportedBrowser))
}

func TestRenderedExtractor_MaxSessionsWaitsForSlot(t *testing.T) {
	session := &fakeSession{dom: map[string][]fakeElement{"title": {{text: "ok"}}}}
	e, _ := newExtractor(session)
	e.WithMaxSessions(1)

	require.NoError(t, e.sessions.Acquire(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.Extract(ctx, entity.ScrapeRequest{URL: "https://example.com/busy"})

	var timeoutErr *entity.TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Empty(t, session.navigated, "no session is started without a slot")

	e.sessions.Release(1)
	got, err := e.Extract(context.Background(), entity.ScrapeRequest{URL: "https://example.com/busy"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Title)
}
