package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"go-jobmarket-insights/internal/config"
	"go-jobmarket-insights/internal/insights"
	"go-jobmarket-insights/internal/pipeline"
	"go-jobmarket-insights/internal/scheduler"
	"go-jobmarket-insights/internal/server"
	"go-jobmarket-insights/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	runner, err := pipeline.NewFromConfig(cfg, nil)
	if err != nil {
		log.Fatalf("❌ Failed to set up scraper: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := server.New(ctx, server.Options{
		Runner:          runner,
		Cache:           insights.NewCache(store.NewCSVStore(cfg.StorePath), cfg.Dashboard.CacheTTL),
		Country:         cfg.Dashboard.Country,
		RefreshInterval: cfg.Dashboard.RefreshInterval,
		DefaultRequest:  pipeline.Request{Query: cfg.Query, Pages: cfg.Pages},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Dashboard.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server listening on port %s", cfg.Dashboard.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Every(gctx, cfg.Dashboard.AutoScrapeInterval, "auto-scrape", api.ScheduledScrape)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("🛑 Shutting down...")
		err := srv.Shutdown(shutdownCtx)
		api.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
