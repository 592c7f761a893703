package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexnews/gunlog/internal/classify"
	"github.com/alexnews/gunlog/internal/domain"
	"github.com/alexnews/gunlog/internal/session"
)

// staleCrawlDays flags URLs a search engine has not re-crawled for more
// than this many days.
const staleCrawlDays = 30

// SEO issue types.
const (
	IssueNotFoundIndexed = "404 for Indexed Page"
	IssueLowCrawlRate    = "Low Crawl Frequency"
	IssueInsecureURLs    = "Non-HTTPS URLs"
)

// SEOAggregator builds crawler-activity and organic-search statistics.
// Entry/exit pages come from non-bot sessions keyed by client IP.
type SEOAggregator struct {
	stats *domain.SEOStats

	crawled   map[string]map[string]struct{}  // engine -> URLs
	lastCrawl map[string]map[string]time.Time // engine -> URL -> last crawl
	crawlGap  map[string]map[string]int       // engine -> URL -> days between crawls
	notFound  map[string]int                  // URL -> 404 count

	tracker *session.Tracker
}

// NewSEOAggregator creates an empty SEO aggregator.
func NewSEOAggregator() *SEOAggregator {
	return &SEOAggregator{
		stats: &domain.SEOStats{
			BotsByEngine:    make(map[string]int),
			CrawledURLs:     make(map[string]int),
			OrganicTraffic:  make(map[string]int),
			SearchQueries:   make(map[string]int),
			KeywordsByPage:  make(map[string]map[string]int),
			OrganicLandings: make(map[string]int),
			EntryPages:      make(map[string]int),
			ExitPages:       make(map[string]int),
		},
		crawled:   make(map[string]map[string]struct{}),
		lastCrawl: make(map[string]map[string]time.Time),
		crawlGap:  make(map[string]map[string]int),
		notFound:  make(map[string]int),
		tracker:   session.NewTracker(),
	}
}

// Observe feeds one record into the aggregator.
func (a *SEOAggregator) Observe(rec *domain.LogRecord) {
	s := a.stats
	s.TotalRequests++

	if strings.HasPrefix(rec.URL, "https://") {
		s.HTTPSHits++
	} else if strings.HasPrefix(rec.URL, "http://") {
		s.HTTPHits++
	}

	if rec.StatusCode == 404 {
		a.notFound[rec.URL]++
	}

	if classify.IsMobile(rec.UserAgent) {
		s.MobileHits++
	} else {
		s.DesktopHits++
	}

	engine := classify.SearchEngineBot(rec.UserAgent)
	if engine != "" {
		s.BotRequests++
		s.BotsByEngine[engine]++
		s.BotHourly[rec.HourOfDay]++
		s.BotDaily[rec.DayOfWeek]++

		if rec.StatusCode == 200 && rec.Method == "GET" {
			a.observeCrawl(engine, rec)
		}
	}

	if sr := classify.ParseSearchReferrer(rec.Referrer); sr.Engine != "" {
		s.OrganicTraffic[sr.Engine]++
		if sr.Query != "" {
			query := strings.ToLower(sr.Query)
			s.SearchQueries[query]++
			if rec.URL != "" {
				if s.KeywordsByPage[rec.URL] == nil {
					s.KeywordsByPage[rec.URL] = make(map[string]int)
				}
				s.KeywordsByPage[rec.URL][query]++
			}
		}
		if sr.Organic && rec.StatusCode == 200 {
			s.OrganicLandings[rec.URL]++
		}
	}

	if engine == "" {
		a.observeSession(rec)
	}
}

func (a *SEOAggregator) observeCrawl(engine string, rec *domain.LogRecord) {
	if a.crawled[engine] == nil {
		a.crawled[engine] = make(map[string]struct{})
		a.lastCrawl[engine] = make(map[string]time.Time)
		a.crawlGap[engine] = make(map[string]int)
	}
	a.crawled[engine][rec.URL] = struct{}{}

	if last, ok := a.lastCrawl[engine][rec.URL]; ok {
		a.crawlGap[engine][rec.URL] = int(rec.Timestamp.Sub(last).Hours() / 24)
	}
	a.lastCrawl[engine][rec.URL] = rec.Timestamp
}

func (a *SEOAggregator) observeSession(rec *domain.LogRecord) {
	visit := domain.PageVisit{Timestamp: rec.Timestamp, URL: rec.URL}
	change := a.tracker.Observe(domain.ClientKeyFromIP(rec.ClientIP), visit)
	if change == nil {
		return
	}
	if change.Ended != nil {
		a.stats.ExitPages[change.Ended.Last().URL]++
	}
	if change.Started != nil && rec.StatusCode == 200 && rec.Method == "GET" {
		a.stats.EntryPages[rec.URL]++
	}
}

// Finalize detects SEO issues and computes the score. The returned stats
// must not be modified afterwards.
func (a *SEOAggregator) Finalize() *domain.SEOStats {
	s := a.stats

	for _, sess := range a.tracker.Flush() {
		s.ExitPages[sess.Last().URL]++
	}

	for _, engine := range sortedKeys(a.crawled) {
		urls := a.crawled[engine]
		s.CrawledURLs[engine] = len(urls)

		for _, url := range sortedKeys(urls) {
			if a.notFound[url] > 0 {
				s.Issues = append(s.Issues, domain.SEOIssue{
					Type:         IssueNotFoundIndexed,
					URL:          url,
					SearchEngine: engine,
					Details:      fmt.Sprintf("Page is being crawled by %s but returns 404", engine),
				})
			}
		}
	}

	for _, engine := range sortedKeys(a.crawlGap) {
		gaps := a.crawlGap[engine]
		for _, url := range sortedKeys(gaps) {
			if days := gaps[url]; days > staleCrawlDays {
				s.Issues = append(s.Issues, domain.SEOIssue{
					Type:         IssueLowCrawlRate,
					URL:          url,
					SearchEngine: engine,
					Details:      fmt.Sprintf("Not crawled by %s in %d days", engine, days),
				})
			}
		}
	}

	if s.HTTPHits > 0 {
		s.Issues = append(s.Issues, domain.SEOIssue{
			Type:    IssueInsecureURLs,
			Details: fmt.Sprintf("Found %d HTTP (non-secure) URLs", s.HTTPHits),
		})
	}

	score := 100
	if len(s.Issues) > 0 {
		score -= min(30, len(s.Issues)*5)
	}
	if s.BotRequests == 0 {
		score -= 20
	} else if s.BotRequests < 100 {
		score -= 10
	}
	if s.HTTPHits > 0 {
		ratio := float64(s.HTTPHits) / float64(s.HTTPHits+s.HTTPSHits)
		score -= min(20, int(ratio*20))
	}
	if score < 0 {
		score = 0
	}
	s.Score = score
	s.Status = seoStatus(score)

	return s
}

// seoStatus maps a 0-100 score onto a reporting label.
func seoStatus(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Poor"
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
