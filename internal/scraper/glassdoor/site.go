package glassdoor

import (
	"fmt"
	"net/url"
	"time"

	"go-jobmarket-insights/internal/normalize"
	"go-jobmarket-insights/internal/scraper"
)

const Name = "Glassdoor"

// Class names carry build hashes and change often; override them from
// config when the board ships new markup.
var defaultSelectors = scraper.Selectors{
	Card:     `li[data-test="jobListing"]`,
	Title:    "a.JobCard_jobTitle__GLyJ1",
	Company:  "span.EmployerProfile_compactEmployerName__9MGcV",
	Location: "div.JobCard_location__Ds1fM",
	Date:     "div.JobCard_listingAge__jJsuc",
}

type Site struct {
	baseURL   string
	selectors scraper.Selectors
}

func New(overrides scraper.Selectors) *Site {
	return &Site{
		baseURL:   "https://www.glassdoor.com",
		selectors: defaultSelectors.Merge(overrides),
	}
}

func (s *Site) WithBaseURL(base string) *Site {
	s.baseURL = base
	return s
}

func (s *Site) Name() string {
	return Name
}

func (s *Site) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/Job/jobs.htm?sc.keyword=%s&p=%d", s.baseURL, url.QueryEscape(query), page)
}

func (s *Site) Selectors() scraper.Selectors {
	return s.selectors
}

// NormalizeDate decodes listing ages such as "3d", "30d+" and "5h".
func (s *Site) NormalizeDate(raw string, now time.Time) string {
	return normalize.RelativeAge(raw, now)
}
