package browser

import (
	"context"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobmarket-insights/internal/scraper"
	"go-jobmarket-insights/internal/scraper/rozee"
)

const rozeePage = `<html><body>
<div class="job">
  <div class="jobt"><h3><a><bdi>Go Developer</bdi></a></h3></div>
  <div class="cname"><a class="display-inline">Acme Corp</a><a class="display-inline">Lahore</a><a class="display-inline">Pakistan</a></div>
  <span><i class="rz-calendar"></i>Oct 10, 2026</span>
</div>
<div class="job">
  <div class="cname"><a class="display-inline">No Title Ltd</a></div>
</div>
</body></html>`

//helper start headless browser, skipped when playwright is not installed
func setupSession(t *testing.T, html string) *Session {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	pm, err := NewPlaywright(Options{
		Headless:          true,
		NavigationTimeout: 10 * time.Second,
		ReadyTimeout:      time.Second,
	})
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	t.Cleanup(func() { pm.Close() })

	s, err := pm.NewSession()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	//route every request to the canned page
	err = s.Page().Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        html,
		})
	})
	require.NoError(t, err)
	return s
}

func TestSession_FetchAndExtract(t *testing.T) {
	s := setupSession(t, rozeePage)
	site := rozee.New(scraper.Selectors{})

	doc, err := s.Fetch(context.Background(), site.SearchURL("go", 1), site.Selectors().Card)
	require.NoError(t, err)

	cards, err := doc.Fragments(site.Selectors().Card)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	job, err := scraper.Extract(cards[0], site, now)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", job.Title)
	assert.Equal(t, "Acme Corp", job.Company)
	assert.Equal(t, "Lahore, Pakistan", job.Location)
	assert.Equal(t, "October 10, 2026", job.DatePosted)

	_, err = scraper.Extract(cards[1], site, now)
	assert.ErrorIs(t, err, scraper.ErrFieldExtraction)
}

func TestSession_NoListingsIsNotAnError(t *testing.T) {
	s := setupSession(t, `<html><body><p>No jobs found</p></body></html>`)

	doc, err := s.Fetch(context.Background(), "https://www.rozee.pk/search/job?q=zzz&page=1", "div.job")
	require.NoError(t, err)

	cards, err := doc.Fragments("div.job")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestSession_CancelledContext(t *testing.T) {
	s := &Session{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Fetch(ctx, "https://www.rozee.pk", "div.job")
	assert.ErrorIs(t, err, context.Canceled)
}
