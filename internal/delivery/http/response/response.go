package response

import "time"

// ScrapeStatusResponse is a DTO for scrape status, mirroring entity.ScrapeStatus
type ScrapeStatusResponse struct {
	URL           string     `json:"url"`
	CurrentStatus string     `json:"current_status"` // "cached", "failed"
	ScrapedAt     *time.Time `json:"scraped_at,omitempty"`
	Category      string     `json:"category,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	LastAttempt   *time.Time `json:"last_attempt,omitempty"`
}

// ErrorResponse is written for every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}
