package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-jobmarket-insights/internal/config"
	"go-jobmarket-insights/internal/models"
	"go-jobmarket-insights/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	query := flag.String("query", "", "job title to search for (default from config)")
	pages := flag.Int("pages", 0, "result pages per source (default from config)")
	sources := flag.String("sources", "", "comma separated sources to run, e.g. rozee,glassdoor (default all enabled)")
	timeout := flag.Duration("timeout", 10*time.Minute, "give up after this long")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	req := pipeline.Request{Query: cfg.Query, Pages: cfg.Pages}
	if *query != "" {
		req.Query = *query
	}
	if *pages != 0 {
		req.Pages = *pages
	}

	var only []string
	if *sources != "" {
		only = strings.Split(*sources, ",")
	}

	runner, err := pipeline.NewFromConfig(cfg, only)
	if err != nil {
		log.Fatalf("❌ Failed to set up scraper: %v", err)
	}

	//stop between pages on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	log.Printf("🔧 Config loaded. Query: %q, pages: %d, store: %s", req.Query, req.Pages, cfg.StorePath)

	summary, err := runner.Run(ctx, req)
	code := exitCode(summary, err)
	switch code {
	case exitOK:
		log.Printf("✅ Done. %d job(s) saved to %s", summary.Total(), cfg.StorePath)
	case exitPartial:
		log.Printf("⚠️ Run finished with errors: %v", err)
		log.Printf("   %d job(s) saved to %s before the failure", summary.Total(), cfg.StorePath)
	default:
		log.Printf("❌ Run failed: %v", err)
	}
	cancel()
	stop()
	os.Exit(code)
}

const (
	exitOK      = 0
	exitFailed  = 1
	exitPartial = 2
)

//any run error is a failure; partial runs get their own code so cron jobs can tell them apart
func exitCode(summary models.RunSummary, err error) int {
	switch {
	case err == nil:
		return exitOK
	case summary.Total() > 0:
		return exitPartial
	default:
		return exitFailed
	}
}
