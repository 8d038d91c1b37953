package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobmarket-insights/internal/models"
)

// SiteScraper drives one Site: it walks the result pages in order, extracts
// every listing card and isolates failures to the card that caused them.
type SiteScraper struct {
	site    Site
	fetcher Fetcher
	limiter *HostLimiter
	now     func() time.Time
}

var _ Scraper = (*SiteScraper)(nil)

func NewSiteScraper(site Site, fetcher Fetcher, limiter *HostLimiter) *SiteScraper {
	return &SiteScraper{
		site:    site,
		fetcher: fetcher,
		limiter: limiter,
		now:     time.Now,
	}
}

// WithClock replaces the reference time used for relative posting dates.
func (s *SiteScraper) WithClock(now func() time.Time) *SiteScraper {
	s.now = now
	return s
}

func (s *SiteScraper) Name() string {
	return s.site.Name()
}

// Scrape fetches pages 1..pages for query. Records come back in page order,
// then card order. A page that cannot be fetched ends the run with a
// *FetchError; records of the earlier pages were already handed to sink.
func (s *SiteScraper) Scrape(ctx context.Context, query string, pages int, sink PageSink) ([]models.Job, error) {
	if pages < 1 {
		return nil, fmt.Errorf("%s: page count must be positive, got %d", s.Name(), pages)
	}

	var allJobs []models.Job
	sel := s.site.Selectors()

	for page := 1; page <= pages; page++ {
		url := s.site.SearchURL(query, page)

		if err := s.limiter.WaitURL(ctx, url); err != nil {
			return allJobs, &FetchError{Site: s.Name(), Page: page, URL: url, Err: err}
		}

		log.Printf("🔍 Scraping %s page %d: %s", s.Name(), page, url)
		doc, err := s.fetcher.Fetch(ctx, url, sel.Card)
		if err != nil {
			return allJobs, &FetchError{Site: s.Name(), Page: page, URL: url, Err: err}
		}

		cards, err := doc.Fragments(sel.Card)
		if err != nil {
			return allJobs, &FetchError{Site: s.Name(), Page: page, URL: url, Err: err}
		}
		log.Printf("    📦 Found %d job cards", len(cards))

		result := PageResult{Site: s.Name(), Page: page, URL: url}
		now := s.now()
		for i, card := range cards {
			job, err := Extract(card, s.site, now)
			if err != nil {
				log.Printf("    ⛔ Skipping %s card %d on page %d: %v", s.Name(), i+1, page, err)
				result.Skipped++
				continue
			}
			result.Jobs = append(result.Jobs, job)
		}

		if sink != nil {
			if err := sink(result); err != nil {
				return allJobs, fmt.Errorf("%s page %d: %w", s.Name(), page, err)
			}
		}
		allJobs = append(allJobs, result.Jobs...)
	}

	return allJobs, nil
}
