package reporter

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"go-jobmarket-insights/internal/models"
)

// Reporter announces finished scrape runs.
type Reporter interface {
	ReportRun(summary models.RunSummary) error
	SendError(err error) error
}

// LogReporter writes run summaries to the standard logger. It is used when
// no Telegram bot is configured.
type LogReporter struct{}

func (LogReporter) ReportRun(s models.RunSummary) error {
	log.Printf("📊 Run %s for %q finished in %s: %d job(s) saved", s.RunID, s.Query, runDuration(s), s.Total())
	for _, src := range s.Sources {
		if src.Error != "" {
			log.Printf("   ❌ %s: %d page(s), %d job(s), %d skipped, error: %s", src.Name, src.Pages, src.Records, src.Skipped, src.Error)
			continue
		}
		log.Printf("   ✅ %s: %d page(s), %d job(s), %d skipped", src.Name, src.Pages, src.Records, src.Skipped)
	}
	return nil
}

func (LogReporter) SendError(err error) error {
	log.Printf("❌ Error: %v", err)
	return nil
}

func runDuration(s models.RunSummary) time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt).Round(time.Second)
}

// FormatRun renders a summary as Telegram HTML.
func FormatRun(s models.RunSummary) string {
	var b strings.Builder

	status := "✅"
	if s.Failed() {
		status = "⚠️"
	}
	fmt.Fprintf(&b, "%s <b>Scrape finished</b>: %s\n", status, html.EscapeString(s.Query))
	fmt.Fprintf(&b, "💾 %d job(s) saved in %s\n", s.Total(), runDuration(s))

	for _, src := range s.Sources {
		fmt.Fprintf(&b, "🔖 <b>%s</b>: %d page(s), %d job(s)", html.EscapeString(src.Name), src.Pages, src.Records)
		if src.Skipped > 0 {
			fmt.Fprintf(&b, ", %d skipped", src.Skipped)
		}
		if src.Error != "" {
			fmt.Fprintf(&b, "\n   ❌ %s", html.EscapeString(src.Error))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "🆔 <code>%s</code>", s.RunID)
	return b.String()
}
