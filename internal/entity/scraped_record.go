package entity

import (
	"slices"
	"time"
)

// ScrapeRequest identifies a page to scrape. URL is used verbatim as the
// cache key; Browser picks the engine for the rendered path and may be empty.
type ScrapeRequest struct {
	URL     string
	Browser BrowserKind
}

// ScrapedRecord is the durable, cacheable result of a scrape. Records are
// never mutated once created; a re-scrape replaces the stored record.
type ScrapedRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Links       []string  `json:"links"`
	Category    string    `json:"category,omitempty"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Clone returns a deep copy of the record.
func (r *ScrapedRecord) Clone() *ScrapedRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Links = slices.Clone(r.Links)
	return &c
}

// Equal reports whether both records carry the same field values.
func (r *ScrapedRecord) Equal(o *ScrapedRecord) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.URL == o.URL &&
		r.Title == o.Title &&
		r.Description == o.Description &&
		slices.Equal(r.Links, o.Links) &&
		r.Category == o.Category &&
		r.ScrapedAt.Equal(o.ScrapedAt)
}
