package metrics

import (
	"sort"
	"time"

	"github.com/alexnews/gunlog/internal/classify"
	"github.com/alexnews/gunlog/internal/domain"
	"github.com/alexnews/gunlog/internal/session"
)

// trendingWindow is how far back from the newest log timestamp a hit
// still counts as trending. Measured in log time, not wall clock, so a
// re-run over the same file yields the same snapshot.
const trendingWindow = 24 * time.Hour

// engagementGapLimit is the longest same-URL revisit gap still counted
// as one reading, in seconds.
const engagementGapLimit = 3600.0

// ReadingTime estimates how long a page of the given byte size takes to
// read, in seconds. Assumes 6 bytes per word of markup and a reading
// speed of 200 words per minute.
func ReadingTime(sizeBytes int64) float64 {
	if sizeBytes <= 0 {
		return 0
	}
	words := float64(sizeBytes) / 6
	return words / 200 * 60
}

// contentHit is one successful human page view, kept for trending.
type contentHit struct {
	url string
	ts  time.Time
}

// urlContent is the per-URL accumulation backing PageStats.
type urlContent struct {
	info     classify.ContentInfo
	title    string
	hits     int
	visitors map[string]struct{}
	first    time.Time
	last     time.Time

	readingTimes []float64
}

// ContentAggregator builds content engagement statistics over successful
// human page views. Bots, static assets and non-200 responses are out of
// scope here. Sessions are keyed by client IP.
type ContentAggregator struct {
	stats   *domain.ContentStats
	byURL   map[string]*urlContent
	hits    []contentHit
	maxTS   time.Time
	tracker *session.Tracker
	closed  []*domain.Session
}

// NewContentAggregator creates an empty content aggregator.
func NewContentAggregator() *ContentAggregator {
	return &ContentAggregator{
		stats: &domain.ContentStats{
			ContentTypes:  make(map[string]int),
			Categories:    make(map[string]int),
			Subcategories: make(map[string]int),
		},
		byURL:   make(map[string]*urlContent),
		tracker: session.NewTracker(),
	}
}

// Observe feeds one record into the aggregator.
func (a *ContentAggregator) Observe(rec *domain.LogRecord) {
	if classify.IsBot(rec.UserAgent) {
		return
	}
	if classify.IsStatic(rec) || rec.StatusCode != 200 {
		return
	}

	s := a.stats
	s.TotalHits++
	s.HourlyTraffic[rec.HourOfDay]++
	s.DailyTraffic[rec.DayOfWeek]++

	info := classify.CategorizeContent(rec.URL)
	s.ContentTypes[info.Type]++
	s.Categories[info.Category]++
	s.Subcategories[info.Subcategory]++

	uc, ok := a.byURL[rec.URL]
	if !ok {
		uc = &urlContent{
			info:     info,
			title:    classify.TitleFromURL(rec.URL),
			visitors: make(map[string]struct{}),
			first:    rec.Timestamp,
		}
		a.byURL[rec.URL] = uc
	}
	uc.hits++
	uc.visitors[rec.ClientIP] = struct{}{}
	uc.last = rec.Timestamp

	if rec.HasSize {
		uc.readingTimes = append(uc.readingTimes, ReadingTime(rec.ResponseSize))
	}

	a.hits = append(a.hits, contentHit{url: rec.URL, ts: rec.Timestamp})
	if rec.Timestamp.After(a.maxTS) {
		a.maxTS = rec.Timestamp
	}

	visit := domain.PageVisit{Timestamp: rec.Timestamp, URL: rec.URL}
	if change := a.tracker.Observe(domain.ClientKeyFromIP(rec.ClientIP), visit); change != nil && change.Ended != nil {
		a.closed = append(a.closed, change.Ended)
	}
}

// Finalize computes page rollups, trending and engagement. The returned
// stats must not be modified afterwards.
func (a *ContentAggregator) Finalize() *domain.ContentStats {
	s := a.stats
	a.closed = append(a.closed, a.tracker.Flush()...)

	s.Pages = a.pageStats()
	s.Trending = a.trending()
	s.Engagement = a.engagement()
	return s
}

func (a *ContentAggregator) pageStats() []domain.PageStats {
	pages := make([]domain.PageStats, 0, len(a.byURL))
	for url, uc := range a.byURL {
		pages = append(pages, domain.PageStats{
			URL:            url,
			Title:          uc.title,
			ContentType:    uc.info.Type,
			Category:       uc.info.Category,
			Subcategory:    uc.info.Subcategory,
			Hits:           uc.hits,
			UniqueVisitors: len(uc.visitors),
			FirstAccessed:  uc.first,
			LastAccessed:   uc.last,
		})
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Hits != pages[j].Hits {
			return pages[i].Hits > pages[j].Hits
		}
		return pages[i].URL < pages[j].URL
	})
	return pages
}

func (a *ContentAggregator) trending() map[string]int {
	if len(a.hits) == 0 {
		return nil
	}
	cutoff := a.maxTS.Add(-trendingWindow)

	trending := make(map[string]int)
	for _, hit := range a.hits {
		if hit.ts.After(cutoff) {
			trending[hit.url]++
		}
	}
	return trending
}

func (a *ContentAggregator) engagement() []domain.Engagement {
	// Sessions touching each URL, for per-URL bounce rates.
	views := make(map[string]int)
	bounces := make(map[string]int)
	gaps := make(map[string][]float64)

	for _, sess := range a.closed {
		seen := make(map[string]struct{})
		for _, v := range sess.Visits {
			seen[v.URL] = struct{}{}
		}
		bounce := sess.IsBounce()
		for url := range seen {
			views[url]++
			if bounce {
				bounces[url]++
			}
		}

		// Gaps between consecutive visits to the same URL approximate
		// time spent on the page.
		lastVisit := make(map[string]time.Time)
		for _, v := range sess.Visits {
			if prev, ok := lastVisit[v.URL]; ok {
				gap := v.Timestamp.Sub(prev).Seconds()
				if gap > 0 && gap <= engagementGapLimit {
					gaps[v.URL] = append(gaps[v.URL], gap)
				}
			}
			lastVisit[v.URL] = v.Timestamp
		}
	}

	var out []domain.Engagement
	for url, uc := range a.byURL {
		samples := append(gaps[url], uc.readingTimes...)
		if len(samples) == 0 {
			continue
		}
		var sum float64
		for _, v := range samples {
			sum += v
		}
		avg := sum / float64(len(samples))

		var bounceRate float64
		if views[url] > 0 {
			bounceRate = float64(bounces[url]) / float64(views[url]) * 100
		}

		score := 0.0
		if bounceRate < 100 {
			score = avg * (1 - bounceRate/100)
		}

		out = append(out, domain.Engagement{
			URL:           url,
			AvgTimeOnPage: avg,
			BounceRate:    bounceRate,
			Score:         score,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].URL < out[j].URL
	})
	return out
}
