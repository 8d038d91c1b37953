// Package htmlpage implements the scraper fetch contracts over static HTML:
// goquery for the document tree and colly for the transport.
package htmlpage

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-jobmarket-insights/internal/scraper"
)

// Document wraps a parsed page.
type Document struct {
	root *goquery.Selection
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: doc.Selection}, nil
}

func ParseString(html string) (*Document, error) {
	return Parse(strings.NewReader(html))
}

func FromSelection(sel *goquery.Selection) *Document {
	return &Document{root: sel}
}

func (d *Document) Fragments(selector string) ([]scraper.Fragment, error) {
	var out []scraper.Fragment
	d.root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, fragment{sel: s})
	})
	return out, nil
}

type fragment struct {
	sel *goquery.Selection
}

func (f fragment) Text(selector string) (string, error) {
	m := f.sel.Find(selector)
	if m.Length() == 0 {
		return "", scraper.ErrNotFound
	}
	return m.First().Text(), nil
}

func (f fragment) Texts(selector string) ([]string, error) {
	var out []string
	f.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out, nil
}

func (f fragment) ParentText(selector string) (string, error) {
	m := f.sel.Find(selector)
	if m.Length() == 0 {
		return "", scraper.ErrNotFound
	}
	return m.First().Parent().Text(), nil
}
