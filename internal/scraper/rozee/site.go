package rozee

import (
	"fmt"
	"net/url"
	"time"

	"go-jobmarket-insights/internal/normalize"
	"go-jobmarket-insights/internal/scraper"
)

const Name = "Rozee"

// Rozee lists the employer and the location segments as sibling links under
// div.cname, and prints calendar dates next to an icon.
var defaultSelectors = scraper.Selectors{
	Card:          "div.job",
	Title:         "div.jobt h3 a bdi",
	Company:       "div.cname a.display-inline",
	Date:          "i.rz-calendar",
	DateInParent:  true,
	SplitSegments: true,
}

type Site struct {
	baseURL   string
	selectors scraper.Selectors
	dates     normalize.DateFunc
}

// New returns the Rozee.pk adapter. Non-empty fields of overrides replace
// the built-in selectors.
func New(overrides scraper.Selectors) *Site {
	return &Site{
		baseURL:   "https://www.rozee.pk",
		selectors: defaultSelectors.Merge(overrides),
		dates:     normalize.Chain(normalize.AbsoluteDate, normalize.UnlessCalendar(normalize.RelativeAge)),
	}
}

// WithBaseURL points the adapter at another host (mirrors, tests).
func (s *Site) WithBaseURL(base string) *Site {
	s.baseURL = base
	return s
}

func (s *Site) Name() string {
	return Name
}

func (s *Site) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/search/job?q=%s&page=%d", s.baseURL, url.QueryEscape(query), page)
}

func (s *Site) Selectors() scraper.Selectors {
	return s.selectors
}

func (s *Site) NormalizeDate(raw string, now time.Time) string {
	return s.dates(raw, now)
}
