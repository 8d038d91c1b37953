package rozee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobmarket-insights/internal/htmlpage"
	"go-jobmarket-insights/internal/models"
	"go-jobmarket-insights/internal/normalize"
	"go-jobmarket-insights/internal/scraper"
)

var refNow = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

func card(title string, segments []string, date string) string {
	html := `<div class="job">`
	if title != "" {
		html += `<div class="jobt"><h3><a href="/job/1"><bdi>` + title + `</bdi></a></h3></div>`
	}
	html += `<div class="cname">`
	for _, s := range segments {
		html += `<a class="display-inline">` + s + `</a>`
	}
	html += `</div>`
	if date != "" {
		html += `<span class="func-area-drn"><i class="rz-calendar"></i> ` + date + `</span>`
	}
	return html + `</div>`
}

func extractAll(t *testing.T, body string) ([]models.Job, []error) {
	t.Helper()
	doc, err := htmlpage.ParseString("<html><body>" + body + "</body></html>")
	require.NoError(t, err)

	site := New(scraper.Selectors{})
	cards, err := doc.Fragments(site.Selectors().Card)
	require.NoError(t, err)

	var jobs []models.Job
	var errs []error
	for _, c := range cards {
		job, err := scraper.Extract(c, site, refNow)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, errs
}

func TestExtract_LocationSplit(t *testing.T) {
	jobs, errs := extractAll(t, card("Data Analyst", []string{"Acme Corp", "Lahore", "Pakistan"}, "Oct 16, 2025"))
	require.Empty(t, errs)
	require.Len(t, jobs, 1)

	assert.Equal(t, models.Job{
		Title:      "Data Analyst",
		Company:    "Acme Corp",
		Location:   "Lahore, Pakistan",
		DatePosted: "October 16, 2025",
	}, jobs[0])
}

func TestExtract_OptionalFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected models.Job
	}{
		{
			name:     "company only",
			body:     card("BI Developer", []string{"Beta Ltd"}, "Oct 01, 2025"),
			expected: models.Job{Title: "BI Developer", Company: "Beta Ltd", Location: "", DatePosted: "October 01, 2025"},
		},
		{
			name:     "no segments no date",
			body:     card("Data Engineer", nil, ""),
			expected: models.Job{Title: "Data Engineer", DatePosted: normalize.Unknown},
		},
		{
			name:     "relative date fallback",
			body:     card("ML Engineer", []string{"Gamma", "Karachi", "Sindh", "Pakistan"}, "2d"),
			expected: models.Job{Title: "ML Engineer", Company: "Gamma", Location: "Karachi, Sindh, Pakistan", DatePosted: "October 15, 2026"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, errs := extractAll(t, tt.body)
			require.Empty(t, errs)
			require.Len(t, jobs, 1)
			assert.Equal(t, tt.expected, jobs[0])
		})
	}
}

func TestExtract_MissingTitle(t *testing.T) {
	body := card("Data Analyst", []string{"Acme"}, "") +
		card("", []string{"Nameless"}, "") +
		card("   ", []string{"Blank"}, "")

	jobs, errs := extractAll(t, body)
	assert.Len(t, jobs, 1)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, scraper.ErrFieldExtraction)
	}
	assert.ErrorIs(t, errs[0], scraper.ErrNotFound)
}

func TestSearchURL(t *testing.T) {
	site := New(scraper.Selectors{})
	assert.Equal(t, "https://www.rozee.pk/search/job?q=data+analyst&page=2", site.SearchURL("data analyst", 2))
	assert.Equal(t, "https://www.rozee.pk/search/job?q=c%2B%2B+dev&page=1", site.SearchURL("c++ dev", 1))
}

func TestSelectorOverride(t *testing.T) {
	site := New(scraper.Selectors{Title: "h2.title", SplitSegments: false})
	sel := site.Selectors()
	assert.Equal(t, "h2.title", sel.Title)
	assert.Equal(t, "div.job", sel.Card)
	assert.True(t, sel.SplitSegments)
	assert.True(t, sel.DateInParent)
}
