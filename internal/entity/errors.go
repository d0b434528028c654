package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	ErrSessionClosed      = errors.New("browser session closed")
	ErrModelNotFound      = errors.New("classifier model not found")
)

// FetchError is a network, DNS, connection or timeout failure of a static fetch.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response to a static fetch.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// DriverError is an unsupported browser or a browser automation failure.
type DriverError struct {
	Browser BrowserKind
	Err     error
}

func (e *DriverError) Error() string { return fmt.Sprintf("browser %q: %v", e.Browser, e.Err) }
func (e *DriverError) Unwrap() error { return e.Err }

// TimeoutError is a page load or wait that exceeded its bound.
type TimeoutError struct {
	Op    string
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s: %v", e.Op, e.After, e.Err)
}
func (e *TimeoutError) Unwrap() error { return e.Err }

// CacheError is a failure of the result cache backend.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string { return fmt.Sprintf("cache %s: %v", e.Op, e.Err) }
func (e *CacheError) Unwrap() error { return e.Err }

// ScrapeError is the single failure surfaced to callers of the scraper. It
// wraps the first unrecoverable error and records the stage it came from.
type ScrapeError struct {
	URL   string
	Stage Stage
	Err   error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s failed at %s: %v", e.URL, e.Stage, e.Err)
}
func (e *ScrapeError) Unwrap() error { return e.Err }

// HTTPStatusOf returns the upstream status code carried by err, or 0.
func HTTPStatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
