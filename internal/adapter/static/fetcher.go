package static

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/extract"
	"github.com/user/scrape-service/internal/proxy"
)

// Read body with a 10 MB limit to prevent unbounded memory use.
const maxBodySize = 10 << 20

// Fetcher issues single, time-bounded GET requests. It never executes scripts.
type Fetcher struct {
	client  *http.Client
	proxies *proxy.Manager
	timeout time.Duration
}

// NewFetcher creates a Fetcher whose every request is bounded by timeout.
func NewFetcher(timeout time.Duration, proxies *proxy.Manager) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxies.HTTPProxy
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		proxies: proxies,
		timeout: timeout,
	}
}

// Fetch retrieves rawURL. Transport failures and timeouts are returned as
// *entity.FetchError, non-2xx responses as *entity.HTTPError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &entity.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.proxies.GetUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &entity.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &entity.HTTPError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &entity.FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// FetchDocument fetches rawURL and parses the body as markup.
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (*extract.HTMLDocument, error) {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := extract.ParseHTML(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}
