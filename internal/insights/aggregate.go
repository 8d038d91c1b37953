package insights

import (
	"sort"
	"strings"

	"go-jobmarket-insights/internal/normalize"
)

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TopTitles counts identical titles and returns the n most frequent. Ties
// are broken alphabetically so the output is stable.
func TopTitles(rows []Row, n int) []Count {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Title]++
	}
	return topN(counts, n)
}

// Cities counts openings per city among rows located in country. A row
// qualifies when its location contains ", <country>" (case and accents
// ignored); the city is the first comma separated segment.
func Cities(rows []Row, country string, n int) []Count {
	needle := ", " + normalize.FoldKey(country)
	counts := make(map[string]int)
	for _, r := range rows {
		if !strings.Contains(normalize.FoldKey(r.Location), needle) {
			continue
		}
		city := strings.TrimSpace(strings.SplitN(r.Location, ",", 2)[0])
		if city == "" {
			continue
		}
		counts[city]++
	}
	return topN(counts, n)
}

// Trends returns postings per calendar day, oldest first.
func Trends(rows []Row) []DayCount {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Posted.Format("2006-01-02")]++
	}
	out := make([]DayCount, 0, len(counts))
	for day, c := range counts {
		out = append(out, DayCount{Date: day, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

func topN(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for label, c := range counts {
		out = append(out, Count{Label: label, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
