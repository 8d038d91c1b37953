package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobmarket-insights/internal/insights"
	"go-jobmarket-insights/internal/pipeline"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Job Market Insights API is running!",
		"status":  "healthy",
	})
}

//positive integer query param with a default
func intParam(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) insights(c *gin.Context) {
	top, ok := intParam(c, "top", 5)
	if !ok {
		badRequest(c, "top must be a positive integer")
		return
	}
	cities, ok := intParam(c, "cities", 10)
	if !ok {
		badRequest(c, "cities must be a positive integer")
		return
	}

	snap, err := s.cache.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"total":                    len(snap.Rows),
		"dropped":                  snap.Dropped,
		"country":                  s.country,
		"refresh_interval_seconds": int(s.refresh.Seconds()),
		"top_titles":               insights.TopTitles(snap.Rows, top),
		"cities":                   insights.Cities(snap.Rows, s.country, cities),
		"trends":                   insights.Trends(snap.Rows),
	}
	if !snap.LastModified.IsZero() {
		resp["last_modified"] = snap.LastModified
	}
	if len(snap.Rows) == 0 {
		resp["message"] = "No data available. Please scrape job data."
	}
	c.JSON(http.StatusOK, resp)
}

// jobs returns the newest stored rows, oldest first.
func (s *Server) jobs(c *gin.Context) {
	limit, ok := intParam(c, "limit", 100)
	if !ok {
		badRequest(c, "limit must be a positive integer")
		return
	}

	snap, err := s.cache.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := snap.Rows
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{
			"title":       r.Title,
			"company":     r.Company,
			"location":    r.Location,
			"date_posted": r.Posted.Format("2006-01-02"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"total": len(snap.Rows), "jobs": out})
}

func (s *Server) startScrape(c *gin.Context) {
	req := s.defaults
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body: "+err.Error())
			return
		}
	}

	req, err := s.StartScrape(req)
	switch {
	case errors.Is(err, pipeline.ErrInvalidRequest):
		badRequest(c, err.Error())
	case errors.Is(err, pipeline.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, gin.H{"ok": true, "query": req.Query, "pages": req.Pages})
	}
}

func (s *Server) scrapeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Status())
}

func (s *Server) clearCache(c *gin.Context) {
	s.cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Cache cleared"})
}
