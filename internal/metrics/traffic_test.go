package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexnews/gunlog/internal/domain"
)

var testBase = time.Date(2023, time.October, 10, 13, 0, 0, 0, time.UTC)

// rec builds a minimal GET record for aggregator tests.
func rec(ip, url string, offset time.Duration) *domain.LogRecord {
	ts := testBase.Add(offset)
	return &domain.LogRecord{
		ClientIP:    ip,
		Timestamp:   ts,
		HourOfDay:   ts.Hour(),
		DayOfWeek:   (int(ts.Weekday()) + 6) % 7,
		Method:      "GET",
		URL:         url,
		StatusCode:  200,
		UserAgent:   "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0",
		RequestLine: "GET " + url + " HTTP/1.1",
	}
}

func TestTrafficCounts(t *testing.T) {
	a := NewTrafficAggregator()

	a.Observe(rec("203.0.113.1", "/", 0))
	a.Observe(rec("203.0.113.1", "/pricing", time.Minute))
	a.Observe(rec("203.0.113.2", "/", 2*time.Minute))

	bot := rec("203.0.113.9", "/", 3*time.Minute)
	bot.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1)"
	a.Observe(bot)

	stats := a.Finalize()
	assert.Equal(t, 4, stats.TotalHits)
	assert.Equal(t, 3, stats.UniqueIPs)
	assert.Equal(t, 3, stats.UniqueVisitors)
	assert.Equal(t, 1, stats.BotHits)
	assert.Equal(t, 3, stats.HumanHits)
	assert.Equal(t, 4, stats.HourlyTraffic[13])
	assert.Equal(t, 4, stats.StatusCodes[200])
	assert.Equal(t, 3, stats.Pages["/"])
}

func TestTrafficBounceRate(t *testing.T) {
	a := NewTrafficAggregator()

	// One bounce: a single page, twice.
	a.Observe(rec("203.0.113.1", "/only", 0))
	a.Observe(rec("203.0.113.1", "/only", time.Minute))

	// One non-bounce: two pages.
	a.Observe(rec("203.0.113.2", "/", 0))
	a.Observe(rec("203.0.113.2", "/next", time.Minute))

	stats := a.Finalize()
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.Bounces)
	assert.Equal(t, 50.0, stats.BounceRate)
}

func TestTrafficStaticAssetsAreNotPageEvents(t *testing.T) {
	a := NewTrafficAggregator()

	a.Observe(rec("203.0.113.1", "/article", 0))
	// Asset fetches 40 minutes later must not keep the session alive or
	// count as pages.
	a.Observe(rec("203.0.113.1", "/style.css", 40*time.Minute))
	a.Observe(rec("203.0.113.1", "/logo.png", 41*time.Minute))

	stats := a.Finalize()
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 0, stats.Pages["/style.css"])
	assert.Equal(t, 1, stats.FileTypes[".css"])
	assert.Equal(t, 1, stats.FileTypes[".png"])
	assert.Equal(t, 1, stats.FileTypes["(none)"])
}

func TestTrafficEntryExitPages(t *testing.T) {
	a := NewTrafficAggregator()

	a.Observe(rec("203.0.113.1", "/landing", 0))
	a.Observe(rec("203.0.113.1", "/detail", time.Minute))
	// Gap beyond the timeout: new session, previous one exits on /detail.
	a.Observe(rec("203.0.113.1", "/return", time.Hour))

	stats := a.Finalize()
	assert.Equal(t, 1, stats.EntryPages["/landing"])
	assert.Equal(t, 1, stats.EntryPages["/return"])
	assert.Equal(t, 1, stats.ExitPages["/detail"])
	assert.Equal(t, 1, stats.ExitPages["/return"])
}

func TestTrafficReferrersAndUTM(t *testing.T) {
	a := NewTrafficAggregator()

	r := rec("203.0.113.1", "/landing?utm_source=news&utm_medium=email&utm_campaign=aug", 0)
	r.Referrer = "https://www.google.com/search?q=widgets"
	a.Observe(r)

	a.Observe(rec("203.0.113.2", "/", time.Minute))

	stats := a.Finalize()
	assert.Equal(t, 1, stats.Referrers["https://www.google.com/search?q=widgets"])
	assert.Equal(t, 1, stats.ReferrerTypes["Search"])
	assert.Equal(t, 1, stats.ReferrerTypes["Direct"])
	assert.Equal(t, 1, stats.SearchEngines["google"])
	assert.Equal(t, 1, stats.SearchTerms["widgets"])
	assert.Equal(t, 1, stats.UTMSources["news"])
	assert.Equal(t, 1, stats.UTMMediums["email"])
	assert.Equal(t, 1, stats.UTMCampaigns["aug"])
}

func TestTrafficVisitorFlow(t *testing.T) {
	a := NewTrafficAggregator()

	a.Observe(rec("203.0.113.1", "/a", 0))
	a.Observe(rec("203.0.113.1", "/b", time.Minute))
	a.Observe(rec("203.0.113.1", "/c", 2*time.Minute))

	stats := a.Finalize()
	require.NotNil(t, stats.Flow)
	assert.Equal(t, 1, stats.Flow.StepCounts[3])
	assert.Equal(t, 1, stats.Flow.Pathways["/a > /b > /c"])
	assert.Equal(t, 1, stats.Flow.Transitions["/a"]["/b"])
	assert.Equal(t, 1, stats.Flow.Transitions["/b"]["/c"])
}
