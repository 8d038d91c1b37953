package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical stored format ("October 05, 2026").
	DateLayout = "January 02, 2006"

	// Unknown is stored when a posting date cannot be determined.
	Unknown = "unknown"
)

var (
	digitRun  = regexp.MustCompile(`\d+`)
	monthName = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?(\s|,|-|$)`)
)

// absoluteLayouts are tried in order by AbsoluteDate. Only layouts with a
// spelled-out month or a 4-digit leading year are accepted, so day/month
// order is never ambiguous.
var absoluteLayouts = []string{
	DateLayout,
	"January 2, 2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006-01-02",
}

var datePrefixes = []string{"posted on", "posted", "date posted:", "date:"}

// DateFunc converts a raw, site specific date expression into DateLayout or
// Unknown. now is the reference for relative expressions.
type DateFunc func(raw string, now time.Time) string

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored date_posted value. The Unknown sentinel and
// anything else that is not in DateLayout returns an error.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// RelativeAge handles "N days ago" style codes ("3d", "30d+") and hour codes
// ("5h"). Precedence:
//  1. contains 'd': first digit run N -> now - N days, no digits -> Unknown
//  2. else contains 'h' -> today
//  3. else Unknown
//
// "30d+" is covered by rule 1 and yields exactly 30 days ago.
func RelativeAge(raw string, now time.Time) string {
	raw = CleanText(raw)
	switch {
	case strings.Contains(raw, "d"):
		digits := digitRun.FindString(raw)
		if digits == "" {
			return Unknown
		}
		days, err := strconv.Atoi(digits)
		if err != nil {
			return Unknown
		}
		return FormatDate(now.AddDate(0, 0, -days))
	case strings.Contains(raw, "h"):
		return FormatDate(now)
	}
	return Unknown
}

// AbsoluteDate accepts calendar dates printed by listing pages
// ("Oct 16, 2025", "16 Oct 2025", "2025-10-16") and re-emits them in
// DateLayout.
func AbsoluteDate(raw string, _ time.Time) string {
	s := CleanText(raw)
	lower := strings.ToLower(s)
	for _, p := range datePrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatDate(t)
		}
	}
	return Unknown
}

// UnlessCalendar wraps fn so that text naming a month is Unknown instead of
// being handed to fn. A calendar date no layout matched ("Deadline: Nov 30,
// 2026") must not be read as a relative "Nd" code.
func UnlessCalendar(fn DateFunc) DateFunc {
	return func(raw string, now time.Time) string {
		if monthName.MatchString(raw) {
			return Unknown
		}
		return fn(raw, now)
	}
}

// Chain returns a DateFunc that tries each fn in order and keeps the first
// result that is not Unknown.
func Chain(fns ...DateFunc) DateFunc {
	return func(raw string, now time.Time) string {
		for _, fn := range fns {
			if out := fn(raw, now); out != Unknown {
				return out
			}
		}
		return Unknown
	}
}
