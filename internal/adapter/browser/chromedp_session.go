package browser

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
)

type chromedpSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closed      atomic.Bool
}

// startChromedp launches a dedicated headless Chrome for one session.
func startChromedp(_ context.Context, opts Options) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.Proxies.GetUserAgent()),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if p := opts.Proxies.GetProxy(); p != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(p))
	}

	// The browser lives as long as the session, not the request context.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(opts.Logger.Sugar().Debugf))

	s := &chromedpSession{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}

	// The first Run allocates the browser and must get the unbounded tab context.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// run executes actions on the tab, bounded by ctx's deadline and cancellation.
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.closed.Load() {
		return entity.ErrSessionClosed
	}
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromedpSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (s *chromedpSession) Query(ctx context.Context, selector string) ([]extract.Node, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	out := make([]extract.Node, len(nodes))
	for i, n := range nodes {
		out[i] = &chromedpElement{session: s, node: n}
	}
	return out, nil
}

func (s *chromedpSession) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	return err
}

type chromedpElement struct {
	session *chromedpSession
	node    *cdp.Node
}

func (e *chromedpElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.session.run(ctx, chromedp.TextContent([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	return text, err
}

func (e *chromedpElement) Attr(_ context.Context, name string) (string, bool, error) {
	if e.session.closed.Load() {
		return "", false, entity.ErrSessionClosed
	}
	v, ok := e.node.Attribute(name)
	return v, ok, nil
}
