package request

// ScrapeRequest is the body of POST /api/scrape.
type ScrapeRequest struct {
	URL     string `json:"url"`
	Browser string `json:"browser,omitempty"` // "chrome" or "chromium"; empty uses the configured default
}
