package extract

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDocument is a Document backed by statically parsed markup.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseHTML parses markup without executing any script.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &HTMLDocument{doc: doc}, nil
}

// Query implements Document.
func (d *HTMLDocument) Query(_ context.Context, selector string) ([]Node, error) {
	sel := d.doc.Find(selector)
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, htmlNode{s})
	})
	return nodes, nil
}

// Has reports whether any element matches selector.
func (d *HTMLDocument) Has(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

// VisibleText returns the trimmed body text with script and style contents dropped.
func (d *HTMLDocument) VisibleText() string {
	body := d.doc.Find("body").Clone()
	body.Find("script, style").Remove()
	return strings.TrimSpace(body.Text())
}

type htmlNode struct {
	s *goquery.Selection
}

func (n htmlNode) Text(context.Context) (string, error) {
	return n.s.Text(), nil
}

func (n htmlNode) Attr(_ context.Context, name string) (string, bool, error) {
	v, ok := n.s.Attr(name)
	return v, ok, nil
}
