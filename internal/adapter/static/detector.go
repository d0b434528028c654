package static

import (
	"context"
)

// Detector probes a page with a static fetch to decide whether it needs
// script execution. It is a heuristic: a noscript fallback or an empty body
// means the page is treated as dynamic.
type Detector struct {
	fetcher *Fetcher
}

func NewDetector(fetcher *Fetcher) *Detector {
	return &Detector{fetcher: fetcher}
}

// NeedsRendering implements repository.Detector. A failed probe fails open:
// it reports true alongside the error.
func (d *Detector) NeedsRendering(ctx context.Context, url string) (bool, error) {
	doc, err := d.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return true, err
	}
	if doc.Has("noscript") {
		return true, nil
	}
	return doc.VisibleText() == "", nil
}
