package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-jobmarket-insights/internal/browser"
	"go-jobmarket-insights/internal/config"
	"go-jobmarket-insights/internal/htmlpage"
	"go-jobmarket-insights/internal/reporter"
	"go-jobmarket-insights/internal/scraper"
	"go-jobmarket-insights/internal/scraper/glassdoor"
	"go-jobmarket-insights/internal/scraper/rozee"
	"go-jobmarket-insights/internal/store"
)

// SourcesFromConfig builds the enabled sources in their fixed run order
// (Rozee, then Glassdoor). When only is non-empty, sources whose name is
// not listed are left out.
func SourcesFromConfig(cfg *config.Config, only []string) []Source {
	all := []scraper.Site{
		rozee.New(cfg.Source(rozee.Name).Selectors),
		glassdoor.New(cfg.Source(glassdoor.Name).Selectors),
	}

	var out []Source
	for _, site := range all {
		sc := cfg.Source(site.Name())
		if sc.Disabled {
			log.Printf("⏭️ %s is disabled", site.Name())
			continue
		}
		if len(only) > 0 && !contains(only, site.Name()) {
			continue
		}
		out = append(out, Source{Site: site, MaxPages: sc.MaxPages})
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

// OpenerFromConfig returns the fetcher factory for the configured driver.
// The playwright driver starts a fresh browser per run.
func OpenerFromConfig(cfg *config.Config) Opener {
	bc := cfg.Browser
	if bc.Driver == config.DriverStatic {
		return func(context.Context) (scraper.Fetcher, func() error, error) {
			f := htmlpage.NewFetcher(bc.UserAgent, bc.NavigationTimeout)
			return f, func() error { return nil }, nil
		}
	}

	opts := browser.Options{
		Headless:          bc.Headless,
		UserAgent:         bc.UserAgent,
		NavigationTimeout: bc.NavigationTimeout,
		ReadyTimeout:      bc.ReadyTimeout,
		ScreenshotDir:     cfg.ScreenshotDir,
	}
	return func(ctx context.Context) (scraper.Fetcher, func() error, error) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		pm, err := browser.NewPlaywright(opts)
		if err != nil {
			return nil, nil, err
		}
		session, err := pm.NewSession()
		if err != nil {
			pm.Close()
			return nil, nil, err
		}
		log.Println("✅ Browser initialized successfully!")

		release := func() error {
			if err := session.Close(); err != nil {
				log.Printf("⚠️ Failed to close browser session: %v", err)
			}
			return pm.Close()
		}
		return session, release, nil
	}
}

// ReporterFromConfig returns a Telegram reporter when a bot token is set and
// a log reporter otherwise.
func ReporterFromConfig(cfg *config.Config) reporter.Reporter {
	if cfg.TelegramToken == "" {
		return reporter.LogReporter{}
	}
	tr, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ %v, falling back to log reporter", err)
		return reporter.LogReporter{}
	}
	log.Println("🤖 Telegram Bot initialized.")
	return tr
}

// NewFromConfig wires a Runner for the given configuration.
func NewFromConfig(cfg *config.Config, only []string) (*Runner, error) {
	sources := SourcesFromConfig(cfg, only)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	return NewRunner(Options{
		Sources:  sources,
		Open:     OpenerFromConfig(cfg),
		Store:    store.NewCSVStore(cfg.StorePath),
		Limiter:  scraper.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		Reporter: ReporterFromConfig(cfg),
		MaxPages: cfg.MaxPages,
	}), nil
}
