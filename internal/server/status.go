package server

import "go-jobmarket-insights/internal/models"

// ScrapeStatus is what /api/scrape/status reports about the latest run.
type ScrapeStatus struct {
	Running   bool                   `json:"running"`
	RunID     string                 `json:"run_id,omitempty"`
	Query     string                 `json:"query,omitempty"`
	Pages     int                    `json:"pages,omitempty"`
	LastRunAt string                 `json:"last_run_at,omitempty"`
	LastOkAt  string                 `json:"last_ok_at,omitempty"`
	LastError string                 `json:"last_error,omitempty"`
	LastAdded int                    `json:"last_added"`
	Sources   []models.SourceSummary `json:"sources,omitempty"`
}
