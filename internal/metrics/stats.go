// Package metrics aggregates parsed log records into per-project
// snapshots.
package metrics

import (
	"sort"

	"github.com/alexnews/gunlog/internal/domain"
)

// Percentile returns the value at index floor(len(sorted)*p) of an
// ascending sample, clamped to the last element. The truncation is part
// of the output contract; do not interpolate.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// summarize builds distribution statistics from a raw sample. The input
// slice is sorted in place.
func summarize(samples []float64) *domain.DistStats {
	if len(samples) == 0 {
		return nil
	}
	sort.Float64s(samples)

	var sum float64
	for _, v := range samples {
		sum += v
	}

	n := len(samples)
	median := samples[n/2]
	if n%2 == 0 {
		median = (samples[n/2-1] + samples[n/2]) / 2
	}

	return &domain.DistStats{
		Count:  n,
		Min:    samples[0],
		Max:    samples[n-1],
		Avg:    sum / float64(n),
		Median: median,
		P90:    Percentile(samples, 0.90),
		P95:    Percentile(samples, 0.95),
		P99:    Percentile(samples, 0.99),
	}
}

// topSamples averages per-URL samples and returns the top n by average,
// descending, ties broken by URL for stable output.
func topSamples(byURL map[string]*urlSample, n int) []domain.URLSample {
	out := make([]domain.URLSample, 0, len(byURL))
	for url, s := range byURL {
		if s.count == 0 {
			continue
		}
		out = append(out, domain.URLSample{
			URL:   url,
			Value: s.sum / float64(s.count),
			Hits:  s.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].URL < out[j].URL
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// urlSample accumulates a numeric sample for one URL.
type urlSample struct {
	sum   float64
	count int
}

func (s *urlSample) add(v float64) {
	s.sum += v
	s.count++
}
