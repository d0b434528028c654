package entity

import "time"

const (
	StatusCached   = "cached"
	StatusFailed   = "failed"
	StatusNotFound = "not_found"
)

// ScrapeStatus describes what the service knows about a URL.
type ScrapeStatus struct {
	URL           string
	CurrentStatus string // "cached", "failed", "not_found"
	ScrapedAt     *time.Time
	Category      string
	FailureReason string
	LastAttempt   *time.Time
}

// ScrapeFailure mirrors the `scrape_failures` PostgreSQL table schema.
type ScrapeFailure struct {
	URL            string
	Stage          Stage
	Reason         string
	HTTPStatusCode int
	Attempts       int
	LastAttempt    time.Time
}
