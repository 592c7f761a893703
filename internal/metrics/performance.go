package metrics

import (
	"sort"

	"github.com/alexnews/gunlog/internal/domain"
)

const (
	// slowThreshold marks a request as slow, in seconds.
	slowThreshold = 1.0
	// topURLCount bounds the slowest/largest URL lists.
	topURLCount = 50
)

// PerformanceAggregator builds response time, size and status statistics.
// Every matched record counts; bots and static assets are performance
// traffic like any other.
type PerformanceAggregator struct {
	stats *domain.PerformanceStats

	times []float64
	sizes []float64

	timesByURL map[string]*urlSample
	sizesByURL map[string]*urlSample

	slow []domain.SlowRequest
}

// NewPerformanceAggregator creates an empty performance aggregator.
func NewPerformanceAggregator() *PerformanceAggregator {
	return &PerformanceAggregator{
		stats: &domain.PerformanceStats{
			RequestMethods:   make(map[string]int),
			StatusCodes:      make(map[int]int),
			StatusCategories: make(map[string]int),
			FileTypes:        make(map[string]int),
		},
		timesByURL: make(map[string]*urlSample),
		sizesByURL: make(map[string]*urlSample),
	}
}

// Observe feeds one record into the aggregator.
func (a *PerformanceAggregator) Observe(rec *domain.LogRecord) {
	s := a.stats

	s.TotalRequests++
	s.RequestMethods[rec.Method]++
	s.StatusCodes[rec.StatusCode]++
	s.StatusCategories[statusCategory(rec.StatusCode)]++

	if ext := rec.FileExt(); ext != "" {
		s.FileTypes[ext]++
	}

	if rec.HasSize {
		size := float64(rec.ResponseSize)
		a.sizes = append(a.sizes, size)
		s.TotalBytes += rec.ResponseSize
		urlSampleFor(a.sizesByURL, rec.URL).add(size)
	}

	if rec.HasResponseTime {
		a.times = append(a.times, rec.ResponseTime)
		urlSampleFor(a.timesByURL, rec.URL).add(rec.ResponseTime)

		if rec.ResponseTime > slowThreshold {
			a.slow = append(a.slow, domain.SlowRequest{
				URL:          rec.URL,
				ResponseTime: rec.ResponseTime,
				StatusCode:   rec.StatusCode,
			})
		}
	}
}

// Finalize computes distributions and top lists. The returned stats must
// not be modified afterwards.
func (a *PerformanceAggregator) Finalize() *domain.PerformanceStats {
	s := a.stats

	s.ResponseTimes = summarize(a.times)
	s.ResponseSizes = summarize(a.sizes)

	sort.SliceStable(a.slow, func(i, j int) bool {
		return a.slow[i].ResponseTime > a.slow[j].ResponseTime
	})
	if len(a.slow) > topURLCount {
		a.slow = a.slow[:topURLCount]
	}
	s.SlowRequests = a.slow

	s.SlowestURLs = topSamples(a.timesByURL, topURLCount)
	s.LargestURLs = topSamples(a.sizesByURL, topURLCount)

	return s
}

func statusCategory(code int) string {
	switch code / 100 {
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "other"
	}
}

func urlSampleFor(m map[string]*urlSample, url string) *urlSample {
	s, ok := m[url]
	if !ok {
		s = &urlSample{}
		m[url] = s
	}
	return s
}
