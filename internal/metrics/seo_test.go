package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEOBotActivity(t *testing.T) {
	a := NewSEOAggregator()

	crawl := rec("66.249.66.1", "/page", 0)
	crawl.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1)"
	a.Observe(crawl)

	a.Observe(rec("203.0.113.1", "/page", time.Minute))

	stats := a.Finalize()
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.BotRequests)
	assert.Equal(t, 1, stats.BotsByEngine["Googlebot"])
	assert.Equal(t, 1, stats.CrawledURLs["Googlebot"])
	assert.Equal(t, 1, stats.BotHourly[13])
	assert.Equal(t, 2, stats.DesktopHits)
}

func TestSEONotFoundForIndexedPage(t *testing.T) {
	a := NewSEOAggregator()

	crawl := rec("66.249.66.1", "/article", 0)
	crawl.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1)"
	a.Observe(crawl)

	gone := rec("203.0.113.1", "/article", time.Hour)
	gone.StatusCode = 404
	a.Observe(gone)

	stats := a.Finalize()
	require.NotEmpty(t, stats.Issues)
	issue := stats.Issues[0]
	assert.Equal(t, IssueNotFoundIndexed, issue.Type)
	assert.Equal(t, "/article", issue.URL)
	assert.Equal(t, "Googlebot", issue.SearchEngine)
}

func TestSEOStaleCrawlIssue(t *testing.T) {
	a := NewSEOAggregator()

	first := rec("66.249.66.1", "/stale", 0)
	first.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1)"
	a.Observe(first)

	second := rec("66.249.66.1", "/stale", 45*24*time.Hour)
	second.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1)"
	a.Observe(second)

	stats := a.Finalize()
	require.Len(t, stats.Issues, 1)
	assert.Equal(t, IssueLowCrawlRate, stats.Issues[0].Type)
	assert.Contains(t, stats.Issues[0].Details, "45 days")
}

func TestSEOOrganicTraffic(t *testing.T) {
	a := NewSEOAggregator()

	r := rec("203.0.113.1", "/landing", 0)
	r.Referrer = "https://www.google.com/search?q=Log+Analysis"
	a.Observe(r)

	stats := a.Finalize()
	assert.Equal(t, 1, stats.OrganicTraffic["google"])
	assert.Equal(t, 1, stats.SearchQueries["log analysis"])
	assert.Equal(t, 1, stats.KeywordsByPage["/landing"]["log analysis"])
	assert.Equal(t, 1, stats.OrganicLandings["/landing"])
	assert.Equal(t, 1, stats.EntryPages["/landing"])
}

func TestSEOScore(t *testing.T) {
	a := NewSEOAggregator()

	// Healthy log: bot traffic present, no issues, all relative URLs.
	for i := 0; i < 150; i++ {
		crawl := rec("66.249.66.1", "/page", time.Duration(i)*time.Minute)
		crawl.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1)"
		a.Observe(crawl)
	}

	stats := a.Finalize()
	assert.Equal(t, 100, stats.Score)
	assert.Equal(t, "Excellent", stats.Status)
}

func TestSEOScoreLowBotActivity(t *testing.T) {
	a := NewSEOAggregator()
	a.Observe(rec("203.0.113.1", "/", 0))

	stats := a.Finalize()
	// No bot requests at all costs 20 points.
	assert.Equal(t, 80, stats.Score)
	assert.Equal(t, "Good", stats.Status)
}
