package scraper

import (
	"errors"
	"strings"
	"time"

	"go-jobmarket-insights/internal/models"
	"go-jobmarket-insights/internal/normalize"
)

// Selectors is the CSS selector map of one site's listing cards.
type Selectors struct {
	Card     string `yaml:"card"`
	Title    string `yaml:"title"`
	Company  string `yaml:"company"`
	Location string `yaml:"location"`
	Date     string `yaml:"date"`

	// DateInParent reads the date from the parent of the Date match (an
	// icon sitting next to the text).
	DateInParent bool `yaml:"date_in_parent"`

	// SplitSegments treats every Company match as a segment: the first is
	// the company, the rest joined by ", " are the location. Location is
	// ignored when set.
	SplitSegments bool `yaml:"split_segments"`
}

// Merge returns s with every non-empty selector of override applied. The
// boolean layout flags belong to the site and are not overridden.
func (s Selectors) Merge(override Selectors) Selectors {
	pick := func(base, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return base
	}
	s.Card = pick(s.Card, override.Card)
	s.Title = pick(s.Title, override.Title)
	s.Company = pick(s.Company, override.Company)
	s.Location = pick(s.Location, override.Location)
	s.Date = pick(s.Date, override.Date)
	return s
}

// Extract maps one listing fragment to a Job. Only the title is required;
// company, location and date fall back to "" (date to normalize.Unknown).
func Extract(f Fragment, site Site, now time.Time) (models.Job, error) {
	sel := site.Selectors()

	title, err := f.Text(sel.Title)
	if err != nil {
		return models.Job{}, &FieldExtractionError{Field: "title", Err: err}
	}
	title = normalize.CleanText(title)
	if title == "" {
		return models.Job{}, &FieldExtractionError{Field: "title"}
	}

	job := models.Job{Title: title}

	if sel.SplitSegments {
		segments, err := optionalTexts(f, sel.Company)
		if err != nil {
			return models.Job{}, err
		}
		if len(segments) > 0 {
			job.Company = segments[0]
			job.Location = strings.Join(segments[1:], ", ")
		}
	} else {
		if job.Company, err = optionalText(f.Text, sel.Company); err != nil {
			return models.Job{}, err
		}
		if job.Location, err = optionalText(f.Text, sel.Location); err != nil {
			return models.Job{}, err
		}
	}

	lookup := f.Text
	if sel.DateInParent {
		lookup = f.ParentText
	}
	rawDate, err := optionalText(lookup, sel.Date)
	if err != nil {
		return models.Job{}, err
	}
	job.DatePosted = site.NormalizeDate(rawDate, now)
	if job.DatePosted == "" {
		job.DatePosted = normalize.Unknown
	}

	return job, nil
}

// optionalText treats a missing element as an empty field. Any other error
// (a detached page, a closed browser) is returned.
func optionalText(lookup func(string) (string, error), selector string) (string, error) {
	if selector == "" {
		return "", nil
	}
	txt, err := lookup(selector)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return normalize.CleanText(txt), nil
}

func optionalTexts(f Fragment, selector string) ([]string, error) {
	if selector == "" {
		return nil, nil
	}
	raw, err := f.Texts(selector)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalize.CleanText(r))
	}
	return out, nil
}
