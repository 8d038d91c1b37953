package htmlpage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly/v2"

	"go-jobmarket-insights/internal/scraper"
)

// Fetcher downloads server rendered pages with colly. It does not execute
// JavaScript, so ready is only used to warn about pages that came back
// without listings.
type Fetcher struct {
	userAgent string
	timeout   time.Duration
}

var _ scraper.Fetcher = (*Fetcher)(nil)

func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{userAgent: userAgent, timeout: timeout}
}

func (f *Fetcher) newCollector() *colly.Collector {
	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if f.userAgent != "" {
		opts = append(opts, colly.UserAgent(f.userAgent))
	}
	c := colly.NewCollector(opts...)
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}
	return c
}

func (f *Fetcher) Fetch(ctx context.Context, url string, ready string) (scraper.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		doc      *Document
		fetchErr error
	)

	c := f.newCollector()
	c.OnHTML("html", func(e *colly.HTMLElement) {
		doc = FromSelection(e.DOM)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("request failed with status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if doc == nil {
		return nil, fmt.Errorf("no HTML document at %s", url)
	}

	if ready != "" && doc.root.Find(ready).Length() == 0 {
		log.Printf("    ⚠️ No element matches %q on %s", ready, url)
	}
	return doc, nil
}
