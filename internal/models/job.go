package models

import "time"

// Job is one normalized listing as it is stored in the CSV ledger.
type Job struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	DatePosted string `json:"date_posted"`
}

// CSVHeader is the stable column order of the store.
var CSVHeader = []string{"title", "company", "location", "date_posted"}

// Record returns the job as a CSV row in CSVHeader order.
func (j Job) Record() []string {
	return []string{j.Title, j.Company, j.Location, j.DatePosted}
}

// JobFromRecord maps a CSV row back to a Job. Short rows leave the missing
// columns empty.
func JobFromRecord(rec []string) Job {
	get := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	return Job{
		Title:      get(0),
		Company:    get(1),
		Location:   get(2),
		DatePosted: get(3),
	}
}

type SourceSummary struct {
	Name    string `json:"name"`
	Pages   int    `json:"pages"`
	Records int    `json:"records"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// RunSummary describes one scrape run across all enabled sources.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	Query      string          `json:"query"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Sources    []SourceSummary `json:"sources"`
}

func (s RunSummary) Total() int {
	n := 0
	for _, src := range s.Sources {
		n += src.Records
	}
	return n
}

func (s RunSummary) Failed() bool {
	for _, src := range s.Sources {
		if src.Error != "" {
			return true
		}
	}
	return false
}
