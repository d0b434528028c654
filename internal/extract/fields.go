// Package extract holds the field-extraction rules shared by the static and
// rendered extractors. Both run the same selectors in the same order; only the
// document backend differs.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/scrape-service/internal/entity"
)

// Node is a single element of a queried document.
type Node interface {
	Text(ctx context.Context) (string, error)
	// Attr returns the attribute value and whether the attribute is present.
	Attr(ctx context.Context, name string) (string, bool, error)
}

// Document is anything that can answer CSS selector queries in document order.
type Document interface {
	Query(ctx context.Context, selector string) ([]Node, error)
}

// Fields extracts the title, description, links and media of doc.
//
// title:       first <title>, else first <h1>, else ""
// description: meta[name=description] content, else first <p>, else ""
// links:       every a[href], verbatim and unresolved
// images:      every img[src]
// media:       every video source[src], then every iframe[src]
func Fields(ctx context.Context, doc Document) (*entity.ExtractedContent, error) {
	var (
		out entity.ExtractedContent
		err error
	)

	if out.Title, err = firstText(ctx, doc, "title"); err != nil {
		return nil, err
	}
	if out.Title == "" {
		if out.Title, err = firstText(ctx, doc, "h1"); err != nil {
			return nil, err
		}
	}

	if out.Description, err = firstAttr(ctx, doc, `meta[name="description"]`, "content"); err != nil {
		return nil, err
	}
	if out.Description == "" {
		if out.Description, err = firstText(ctx, doc, "p"); err != nil {
			return nil, err
		}
	}

	if out.Links, err = allAttrs(ctx, doc, "a", "href"); err != nil {
		return nil, err
	}
	if out.Images, err = allAttrs(ctx, doc, "img", "src"); err != nil {
		return nil, err
	}
	videos, err := allAttrs(ctx, doc, "video source", "src")
	if err != nil {
		return nil, err
	}
	frames, err := allAttrs(ctx, doc, "iframe", "src")
	if err != nil {
		return nil, err
	}
	out.Media = append(videos, frames...)

	return &out, nil
}

func firstText(ctx context.Context, doc Document, selector string) (string, error) {
	nodes, err := doc.Query(ctx, selector)
	if err != nil {
		return "", fmt.Errorf("query %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return "", nil
	}
	text, err := nodes[0].Text(ctx)
	if err != nil {
		return "", fmt.Errorf("text of %q: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

func firstAttr(ctx context.Context, doc Document, selector, name string) (string, error) {
	nodes, err := doc.Query(ctx, selector)
	if err != nil {
		return "", fmt.Errorf("query %q: %w", selector, err)
	}
	for _, n := range nodes {
		v, ok, err := n.Attr(ctx, name)
		if err != nil {
			return "", fmt.Errorf("attr %s of %q: %w", name, selector, err)
		}
		if ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", nil
}

// allAttrs keeps empty values; only elements lacking the attribute are skipped.
func allAttrs(ctx context.Context, doc Document, selector, name string) ([]string, error) {
	nodes, err := doc.Query(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		v, ok, err := n.Attr(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("attr %s of %q: %w", name, selector, err)
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}
