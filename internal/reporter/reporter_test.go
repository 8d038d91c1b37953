package reporter

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobmarket-insights/internal/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func summary() models.RunSummary {
	start := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	return models.RunSummary{
		RunID:      "run-1",
		Query:      "R&D <analyst>",
		StartedAt:  start,
		FinishedAt: start.Add(95 * time.Second),
		Sources: []models.SourceSummary{
			{Name: "Rozee", Pages: 2, Records: 5, Skipped: 1},
			{Name: "Glassdoor", Pages: 0, Error: "page 1: timeout"},
		},
	}
}

func TestFormatRun(t *testing.T) {
	text := FormatRun(summary())

	assert.Contains(t, text, "⚠️ <b>Scrape finished</b>: R&amp;D &lt;analyst&gt;")
	assert.Contains(t, text, "💾 5 job(s) saved in 1m35s")
	assert.Contains(t, text, "<b>Rozee</b>: 2 page(s), 5 job(s), 1 skipped")
	assert.Contains(t, text, "❌ page 1: timeout")
	assert.Contains(t, text, "<code>run-1</code>")
}

func TestFormatRun_Success(t *testing.T) {
	s := summary()
	s.Sources = s.Sources[:1]
	assert.Contains(t, FormatRun(s), "✅ <b>Scrape finished</b>")
}

func TestTelegramReporter(t *testing.T) {
	fs := &fakeSender{}
	r := &TelegramReporter{bot: fs, chatID: 42}

	require.NoError(t, r.ReportRun(summary()))
	require.NoError(t, r.SendError(errors.New("store <locked>")))

	require.Len(t, fs.sent, 2)
	assert.Equal(t, int64(42), fs.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, fs.sent[0].ParseMode)
	assert.Contains(t, fs.sent[1].Text, "store &lt;locked&gt;")
}

func TestTelegramReporter_SendFails(t *testing.T) {
	r := &TelegramReporter{bot: &fakeSender{err: errors.New("unauthorized")}, chatID: 1}
	assert.Error(t, r.ReportRun(summary()))
}

func TestLogReporter(t *testing.T) {
	var r Reporter = LogReporter{}
	assert.NoError(t, r.ReportRun(summary()))
	assert.NoError(t, r.SendError(errors.New("x")))
}
