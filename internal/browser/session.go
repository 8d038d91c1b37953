package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/playwright-community/playwright-go"

	"go-jobmarket-insights/internal/scraper"
)

// Session is a single browser page that renders search pages. It satisfies
// scraper.Fetcher. A session must not be shared between goroutines.
type Session struct {
	bctx  playwright.BrowserContext
	page  playwright.Page
	opts  Options
	shots *ScreenshotDebugger
}

var _ scraper.Fetcher = (*Session)(nil)

func (s *Session) Page() playwright.Page {
	return s.page
}

// Fetch navigates to url and waits up to the ready timeout for an element
// matching ready to be attached. A page that never shows one is returned as
// is; it simply has no listings.
func (s *Session) Fetch(ctx context.Context, rawURL string, ready string) (scraper.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := s.page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms(s.opts.NavigationTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	if resp != nil && resp.Status() >= 400 {
		return nil, fmt.Errorf("navigation failed with status %d", resp.Status())
	}

	if ready != "" {
		err := s.page.Locator(ready).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: ms(s.opts.ReadyTimeout),
		})
		switch {
		case errors.Is(err, playwright.ErrTimeout):
			log.Printf("    ⚠️ No element matches %q on %s", ready, rawURL)
			s.shots.CaptureAndLog(s.page, shotName(rawURL), "Page rendered without listings")
		case err != nil:
			return nil, fmt.Errorf("waiting for %q: %w", ready, err)
		}
	}

	return &pageDocument{page: s.page}, nil
}

func (s *Session) Close() error {
	return s.bctx.Close()
}

func shotName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "page"
	}
	return u.Host
}

type pageDocument struct {
	page playwright.Page
}

func (d *pageDocument) Fragments(selector string) ([]scraper.Fragment, error) {
	cards, err := d.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	out := make([]scraper.Fragment, 0, len(cards))
	for _, c := range cards {
		out = append(out, locatorFragment{loc: c})
	}
	return out, nil
}

// locatorFragment resolves selectors inside one card on the live page.
type locatorFragment struct {
	loc playwright.Locator
}

func (f locatorFragment) first(selector string) (playwright.Locator, error) {
	l := f.loc.Locator(selector)
	n, err := l.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, scraper.ErrNotFound
	}
	return l.First(), nil
}

func (f locatorFragment) Text(selector string) (string, error) {
	l, err := f.first(selector)
	if err != nil {
		return "", err
	}
	return l.InnerText()
}

func (f locatorFragment) Texts(selector string) ([]string, error) {
	return f.loc.Locator(selector).AllInnerTexts()
}

func (f locatorFragment) ParentText(selector string) (string, error) {
	l, err := f.first(selector)
	if err != nil {
		return "", err
	}
	return l.Locator("xpath=..").InnerText()
}
