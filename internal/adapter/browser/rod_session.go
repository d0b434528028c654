package browser

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
)

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	closed   atomic.Bool
}

// startRod launches a dedicated Chromium through go-rod for one session.
func startRod(_ context.Context, opts Options) (Session, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(true)
	if opts.ExecPath != "" {
		l = l.Bin(opts.ExecPath)
	}
	if p := opts.Proxies.GetProxy(); p != "" {
		l = l.Proxy(p)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	s := &rodSession{launcher: l, browser: rod.New().ControlURL(controlURL)}
	if err := s.browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	if opts.Stealth {
		s.page, err = stealth.Page(s.browser)
	} else {
		s.page, err = s.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.Proxies.GetUserAgent()}); err != nil {
		s.Close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}
	return s, nil
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	if s.closed.Load() {
		return entity.ErrSessionClosed
	}
	return s.page.Context(ctx).Navigate(url)
}

func (s *rodSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if s.closed.Load() {
		return entity.ErrSessionClosed
	}
	_, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	return err
}

func (s *rodSession) Query(ctx context.Context, selector string) ([]extract.Node, error) {
	if s.closed.Load() {
		return nil, entity.ErrSessionClosed
	}
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]extract.Node, len(els))
	for i, el := range els {
		out[i] = &rodElement{session: s, el: el}
	}
	return out, nil
}

func (s *rodSession) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	if s.page != nil {
		err = s.page.Close()
	}
	if cerr := s.browser.Close(); err == nil {
		err = cerr
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	return err
}

type rodElement struct {
	session *rodSession
	el      *rod.Element
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	if e.session.closed.Load() {
		return "", entity.ErrSessionClosed
	}
	return textContent(e.el.Context(ctx))
}

type propertyReader interface {
	Property(name string) (gson.JSON, error)
}

// textContent reads the DOM textContent property, which is what chromedp and
// goquery return. rod's Text reads innerText instead.
func textContent(el propertyReader) (string, error) {
	v, err := el.Property("textContent")
	if err != nil || v.Nil() {
		return "", err
	}
	return v.Str(), nil
}

func (e *rodElement) Attr(ctx context.Context, name string) (string, bool, error) {
	if e.session.closed.Load() {
		return "", false, entity.ErrSessionClosed
	}
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return *v, true, nil
}
