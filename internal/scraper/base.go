// Shared contracts for every job board: the fetch capability the scrapers
// consume, the per-site adapter and the error taxonomy.

package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobmarket-insights/internal/models"
)

var (
	// ErrNotFound is returned by Fragment lookups when a selector matches nothing.
	ErrNotFound = errors.New("selector matched nothing")

	// ErrFieldExtraction marks a fragment that is missing a required field.
	ErrFieldExtraction = errors.New("field extraction failed")
)

// Fetcher loads a search results page. ready is the CSS selector of a
// listing card; implementations may wait (bounded) for it to appear.
type Fetcher interface {
	Fetch(ctx context.Context, url string, ready string) (Document, error)
}

// Document is a fetched page.
type Document interface {
	Fragments(selector string) ([]Fragment, error)
}

// Fragment is the subtree of a page holding a single listing.
type Fragment interface {
	//Text returns the text of the first match, or ErrNotFound
	Text(selector string) (string, error)
	//Texts returns the text of every match, possibly none
	Texts(selector string) ([]string, error)
	//ParentText returns the text of the first match's parent element
	ParentText(selector string) (string, error)
}

// Site adapts one job board: where its result pages live, how its markup is
// laid out and how it codes posting dates.
type Site interface {
	Name() string
	SearchURL(query string, page int) string
	Selectors() Selectors
	NormalizeDate(raw string, now time.Time) string
}

// Scraper defines the interface that every source scraper implements.
type Scraper interface {
	//Scrape pages 1..pages of the results for query
	Scrape(ctx context.Context, query string, pages int, sink PageSink) ([]models.Job, error)

	//Name is the platform name (Rozee, Glassdoor, ...)
	Name() string
}

// PageResult is handed to a PageSink after each page is processed.
type PageResult struct {
	Site    string
	Page    int
	URL     string
	Jobs    []models.Job
	Skipped int
}

// PageSink receives each page's records as soon as the page is done. A
// non-nil error stops the run.
type PageSink func(PageResult) error

// FieldExtractionError reports which required field a fragment lacked.
type FieldExtractionError struct {
	Field string
	Err   error
}

func (e *FieldExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrFieldExtraction, e.Field, e.Err)
	}
	return fmt.Sprintf("%v: %s is empty", ErrFieldExtraction, e.Field)
}

func (e *FieldExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFieldExtraction}
	}
	return []error{ErrFieldExtraction, e.Err}
}

// FetchError is a page level failure. It aborts the rest of that source's run.
type FetchError struct {
	Site string
	Page int
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s page %d (%s): %v", e.Site, e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
