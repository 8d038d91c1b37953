// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobmarket-insights/internal/scraper"
)

const (
	DriverPlaywright = "playwright"
	DriverStatic     = "static"
)

type Config struct {
	//Default search
	Query    string `yaml:"query"`
	Pages    int    `yaml:"pages"`
	MaxPages int    `yaml:"max_pages"`

	//Paths
	StorePath     string `yaml:"store_path" env:"STORE_PATH"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	Sources   map[string]SourceConfig `yaml:"sources"`
	Browser   BrowserConfig           `yaml:"browser"`
	RateLimit RateLimitConfig         `yaml:"rate_limit"`
	Dashboard DashboardConfig         `yaml:"dashboard"`

	//Optional run notifications
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

type SourceConfig struct {
	Disabled  bool              `yaml:"disabled"`
	MaxPages  int               `yaml:"max_pages"`
	Selectors scraper.Selectors `yaml:"selectors"`
}

type BrowserConfig struct {
	Driver            string        `yaml:"driver" env:"BROWSER_DRIVER"`
	Headless          bool          `yaml:"headless" env:"BROWSER_HEADLESS"`
	UserAgent         string        `yaml:"user_agent"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ReadyTimeout      time.Duration `yaml:"ready_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type DashboardConfig struct {
	Port               string        `yaml:"port" env:"PORT"`
	Country            string        `yaml:"country"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
	RefreshInterval    time.Duration `yaml:"refresh_interval"`
	AutoScrapeInterval time.Duration `yaml:"auto_scrape_interval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Query:     "data analyst",
		Pages:     2,
		MaxPages:  5,
		StorePath: "data/combined_jobs.csv",
		Sources: map[string]SourceConfig{
			"glassdoor": {MaxPages: 1},
		},
		Browser: BrowserConfig{
			Driver:            DriverPlaywright,
			Headless:          true,
			NavigationTimeout: 30 * time.Second,
			ReadyTimeout:      10 * time.Second,
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1},
		Dashboard: DashboardConfig{
			Port:            "8080",
			Country:         "Pakistan",
			CacheTTL:        5 * time.Minute,
			RefreshInterval: 5 * time.Minute,
		},
	}
}

// Load reads .env (if any), then the YAML file at path on top of Default,
// then environment overrides. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("⚠️ Config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Dashboard.Port = v
	}
	if v := os.Getenv("BROWSER_DRIVER"); v != "" {
		c.Browser.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("BROWSER_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BROWSER_HEADLESS: %w", err)
		}
		c.Browser.Headless = b
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	return nil
}

//fill zero values a partial YAML file left behind
func (c *Config) applyDefaults() {
	d := Default()
	if c.Query == "" {
		c.Query = d.Query
	}
	if c.MaxPages == 0 {
		c.MaxPages = d.MaxPages
	}
	if c.Pages == 0 {
		c.Pages = min(d.Pages, c.MaxPages)
	}
	if c.StorePath == "" {
		c.StorePath = d.StorePath
	}
	if c.Browser.Driver == "" {
		c.Browser.Driver = d.Browser.Driver
	}
	if c.Dashboard.Port == "" {
		c.Dashboard.Port = d.Dashboard.Port
	}
	if c.Dashboard.Country == "" {
		c.Dashboard.Country = d.Dashboard.Country
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("max_pages must be at least 1, got %d", c.MaxPages))
	}
	if c.Pages < 1 || c.Pages > c.MaxPages {
		errs = append(errs, fmt.Errorf("pages must be between 1 and %d, got %d", c.MaxPages, c.Pages))
	}
	if c.Browser.Driver != DriverPlaywright && c.Browser.Driver != DriverStatic {
		errs = append(errs, fmt.Errorf("unknown browser driver %q", c.Browser.Driver))
	}
	for name, src := range c.Sources {
		if src.MaxPages < 0 {
			errs = append(errs, fmt.Errorf("sources.%s.max_pages must not be negative", name))
		}
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("rate_limit.requests_per_second must not be negative"))
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}
	return errors.Join(errs...)
}

// Source returns the settings for the named source (case-insensitive).
func (c *Config) Source(name string) SourceConfig {
	for k, v := range c.Sources {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return SourceConfig{}
}
