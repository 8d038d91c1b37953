package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"go-jobmarket-insights/internal/insights"
	"go-jobmarket-insights/internal/models"
	"go-jobmarket-insights/internal/pipeline"
)

// Runner is the part of *pipeline.Runner the dashboard drives.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (models.RunSummary, error)
	Validate(req pipeline.Request) (pipeline.Request, error)
}

type Options struct {
	Runner          Runner
	Cache           *insights.Cache
	Country         string
	RefreshInterval time.Duration
	DefaultRequest  pipeline.Request
}

// Server serves the insights dashboard API and owns the background scrape
// runs it starts.
type Server struct {
	runner   Runner
	cache    *insights.Cache
	country  string
	refresh  time.Duration
	defaults pipeline.Request

	ctx     context.Context
	running atomic.Bool
	status  atomic.Value // ScrapeStatus
	wg      sync.WaitGroup
}

// New returns a Server whose background runs are bound to ctx.
func New(ctx context.Context, opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		cache:    opts.Cache,
		country:  opts.Country,
		refresh:  opts.RefreshInterval,
		defaults: opts.DefaultRequest,
		ctx:      ctx,
	}
	s.status.Store(ScrapeStatus{})
	return s
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", s.health)

	api := r.Group("/api")
	api.GET("/insights", s.insights)
	api.GET("/jobs", s.jobs)
	api.POST("/scrape", s.startScrape)
	api.GET("/scrape/status", s.scrapeStatus)
	api.POST("/cache/clear", s.clearCache)
	return r
}

func (s *Server) Status() ScrapeStatus {
	return s.status.Load().(ScrapeStatus)
}

// Wait blocks until background runs started by the API have finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// StartScrape validates req and runs it in the background. It fails with
// pipeline.ErrRunInProgress while another run started here is active.
func (s *Server) StartScrape(req pipeline.Request) (pipeline.Request, error) {
	req, err := s.runner.Validate(req)
	if err != nil {
		return req, err
	}
	if !s.begin(req) {
		return req, pipeline.ErrRunInProgress
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(s.ctx, req)
	}()
	return req, nil
}

// ScheduledScrape runs the default request synchronously. A run already in
// progress is skipped.
func (s *Server) ScheduledScrape(ctx context.Context) error {
	req, err := s.runner.Validate(s.defaults)
	if err != nil {
		return err
	}
	if !s.begin(req) {
		log.Println("⏭️ Scheduled scrape skipped, a run is in progress")
		return nil
	}
	return s.execute(ctx, req)
}

func (s *Server) begin(req pipeline.Request) bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	prev := s.Status()
	s.status.Store(ScrapeStatus{
		Running:   true,
		Query:     req.Query,
		Pages:     req.Pages,
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  prev.LastOkAt,
	})
	return true
}

func (s *Server) execute(ctx context.Context, req pipeline.Request) error {
	defer s.running.Store(false)

	summary, err := s.runner.Run(ctx, req)

	// new rows may have landed even when a source failed
	s.cache.Invalidate()

	now := time.Now().Format(time.RFC3339)
	next := s.Status()
	next.Running = false
	next.RunID = summary.RunID
	next.LastRunAt = now
	next.LastAdded = summary.Total()
	next.Sources = summary.Sources
	if err != nil {
		next.LastError = err.Error()
	} else {
		next.LastError = ""
		next.LastOkAt = now
	}
	s.status.Store(next)

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Scrape %q finished with errors: %v", req.Query, err)
	}
	return err
}
