package glassdoor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobmarket-insights/internal/htmlpage"
	"go-jobmarket-insights/internal/normalize"
	"go-jobmarket-insights/internal/scraper"
)

var refNow = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		card    string
		wantErr bool
		title   string
		company string
		loc     string
		date    string
	}{
		{
			name: "full card days",
			card: `<a class="JobCard_jobTitle__GLyJ1">Data Analyst</a>
				<span class="EmployerProfile_compactEmployerName__9MGcV">Acme</span>
				<div class="JobCard_location__Ds1fM">Lahore, Pakistan</div>
				<div class="JobCard_listingAge__jJsuc">3d</div>`,
			title: "Data Analyst", company: "Acme", loc: "Lahore, Pakistan", date: "October 14, 2026",
		},
		{
			name: "hours",
			card: `<a class="JobCard_jobTitle__GLyJ1">Analyst</a>
				<div class="JobCard_listingAge__jJsuc">5h</div>`,
			title: "Analyst", date: "October 17, 2026",
		},
		{
			name: "thirty plus",
			card: `<a class="JobCard_jobTitle__GLyJ1">Analyst II</a>
				<div class="JobCard_listingAge__jJsuc">30d+</div>`,
			title: "Analyst II", date: "September 17, 2026",
		},
		{
			name:  "no age",
			card:  `<a class="JobCard_jobTitle__GLyJ1">Analyst III</a>`,
			title: "Analyst III", date: normalize.Unknown,
		},
		{
			name:    "no title",
			card:    `<span class="EmployerProfile_compactEmployerName__9MGcV">Acme</span>`,
			wantErr: true,
		},
	}

	site := New(scraper.Selectors{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := htmlpage.ParseString(`<ul><li data-test="jobListing">` + tt.card + `</li></ul>`)
			require.NoError(t, err)
			cards, err := doc.Fragments(site.Selectors().Card)
			require.NoError(t, err)
			require.Len(t, cards, 1)

			job, err := scraper.Extract(cards[0], site, refNow)
			if tt.wantErr {
				var fe *scraper.FieldExtractionError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, "title", fe.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, job.Title)
			assert.Equal(t, tt.company, job.Company)
			assert.Equal(t, tt.loc, job.Location)
			assert.Equal(t, tt.date, job.DatePosted)
		})
	}
}

func TestSearchURL(t *testing.T) {
	site := New(scraper.Selectors{}).WithBaseURL("http://127.0.0.1:9999")
	assert.Equal(t, "http://127.0.0.1:9999/Job/jobs.htm?sc.keyword=data+analyst&p=3", site.SearchURL("data analyst", 3))
}
