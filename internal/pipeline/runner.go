package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-jobmarket-insights/internal/models"
	"go-jobmarket-insights/internal/reporter"
	"go-jobmarket-insights/internal/scraper"
)

var (
	ErrRunInProgress  = errors.New("a scrape run is already in progress")
	ErrInvalidRequest = errors.New("invalid scrape request")
)

type Request struct {
	Query string `json:"query"`
	Pages int    `json:"pages"`
}

// Appender persists one page worth of jobs.
type Appender interface {
	Append(jobs []models.Job) error
}

// Opener prepares a fetcher for one run. The returned func releases it.
type Opener func(ctx context.Context) (scraper.Fetcher, func() error, error)

// Source is a site plus its page cap (0 means the request decides).
type Source struct {
	Site     scraper.Site
	MaxPages int
}

type Options struct {
	Sources  []Source
	Open     Opener
	Store    Appender
	Limiter  *scraper.HostLimiter
	Reporter reporter.Reporter
	MaxPages int
}

// Runner executes scrape runs, one at a time per process.
type Runner struct {
	sources  []Source
	open     Opener
	store    Appender
	limiter  *scraper.HostLimiter
	reporter reporter.Reporter
	maxPages int

	now   func() time.Time
	newID func() string
	mu    sync.Mutex
}

func NewRunner(opts Options) *Runner {
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.LogReporter{}
	}
	return &Runner{
		sources:  opts.Sources,
		open:     opts.Open,
		store:    opts.Store,
		limiter:  opts.Limiter,
		reporter: rep,
		maxPages: opts.MaxPages,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Validate trims the query and checks the page count against the
// configured maximum.
func (r *Runner) Validate(req Request) (Request, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	if req.Pages < 1 {
		return req, fmt.Errorf("%w: pages must be at least 1, got %d", ErrInvalidRequest, req.Pages)
	}
	if r.maxPages > 0 && req.Pages > r.maxPages {
		return req, fmt.Errorf("%w: pages must be between 1 and %d, got %d", ErrInvalidRequest, r.maxPages, req.Pages)
	}
	return req, nil
}

// Run scrapes every source in order and appends each page to the store as
// soon as it is extracted. A failing source does not stop the others; all
// source failures are joined into the returned error. The summary is valid
// even when err is not nil.
func (r *Runner) Run(ctx context.Context, req Request) (models.RunSummary, error) {
	req, err := r.Validate(req)
	if err != nil {
		return models.RunSummary{}, err
	}

	if !r.mu.TryLock() {
		return models.RunSummary{}, ErrRunInProgress
	}
	defer r.mu.Unlock()

	summary := models.RunSummary{
		RunID:     r.newID(),
		Query:     req.Query,
		StartedAt: r.now(),
	}
	log.Printf("🚀 Starting run %s: %q, %d page(s)", summary.RunID, req.Query, req.Pages)

	fetcher, release, err := r.open(ctx)
	if err != nil {
		err = fmt.Errorf("run %s: failed to open fetcher: %w", summary.RunID, err)
		if rerr := r.reporter.SendError(err); rerr != nil {
			log.Printf("⚠️ Failed to report error: %v", rerr)
		}
		return summary, err
	}
	defer func() {
		if err := release(); err != nil {
			log.Printf("⚠️ Failed to release fetcher: %v", err)
		}
	}()

	var errs []error
	for _, src := range r.sources {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		srcSummary, err := r.runSource(ctx, src, fetcher, req)
		summary.Sources = append(summary.Sources, srcSummary)
		if err != nil {
			log.Printf("❌ %s failed: %v", src.Site.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Site.Name(), err))
		}
	}

	summary.FinishedAt = r.now()
	if err := r.reporter.ReportRun(summary); err != nil {
		log.Printf("⚠️ Failed to report run: %v", err)
	}
	return summary, errors.Join(errs...)
}

func (r *Runner) runSource(ctx context.Context, src Source, fetcher scraper.Fetcher, req Request) (models.SourceSummary, error) {
	sum := models.SourceSummary{Name: src.Site.Name()}

	pages := req.Pages
	if src.MaxPages > 0 && pages > src.MaxPages {
		log.Printf("ℹ️ %s is capped at %d page(s)", sum.Name, src.MaxPages)
		pages = src.MaxPages
	}

	sink := func(page scraper.PageResult) error {
		if err := r.store.Append(page.Jobs); err != nil {
			return fmt.Errorf("failed to save page: %w", err)
		}
		sum.Pages++
		sum.Records += len(page.Jobs)
		sum.Skipped += page.Skipped
		return nil
	}

	_, err := scraper.NewSiteScraper(src.Site, fetcher, r.limiter).
		WithClock(r.now).
		Scrape(ctx, req.Query, pages, sink)
	if err != nil {
		sum.Error = err.Error()
	}
	return sum, err
}
