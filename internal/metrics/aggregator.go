package metrics

import (
	"time"

	"github.com/alexnews/gunlog/internal/classify"
	"github.com/alexnews/gunlog/internal/domain"
)

// Aggregator fans parsed records out to the per-domain aggregators and
// assembles the final snapshot. It is single-writer: one goroutine owns
// it for the duration of a project run.
type Aggregator struct {
	project string

	traffic     *TrafficAggregator
	performance *PerformanceAggregator
	content     *ContentAggregator
	security    *SecurityAggregator
	seo         *SEOAggregator
	errors      *ErrorAggregator

	diag domain.Diagnostics
}

// NewAggregator creates an aggregator for one project.
func NewAggregator(project string) *Aggregator {
	return &Aggregator{
		project:     project,
		traffic:     NewTrafficAggregator(),
		performance: NewPerformanceAggregator(),
		content:     NewContentAggregator(),
		security:    NewSecurityAggregator(),
		seo:         NewSEOAggregator(),
		errors:      NewErrorAggregator(),
	}
}

// ObserveAccess feeds one parsed access-log record into every metric
// domain. Traffic and security skip private IPs; the other domains see
// all records.
func (a *Aggregator) ObserveAccess(rec *domain.LogRecord) {
	a.diag.LinesMatched++

	internal := classify.IsPrivateIP(rec.ClientIP)
	if internal {
		a.diag.InternalIPSkips++
	} else {
		a.traffic.Observe(rec)
		a.security.Observe(rec)
	}

	a.performance.Observe(rec)
	a.content.Observe(rec)
	a.seo.Observe(rec)
}

// ObserveErrorLine feeds one raw error-log line.
func (a *Aggregator) ObserveErrorLine(line string) {
	a.errors.ObserveLine(line)
}

// CountLine records one access-log line read, matched or not.
func (a *Aggregator) CountLine() {
	a.diag.LinesRead++
}

// CountParseError records a line the tokenizer rejected.
func (a *Aggregator) CountParseError() {
	a.diag.ParseErrors++
}

// CountTimestampError records a matched line whose timestamp failed to
// parse. Such records are not aggregated; a made-up instant would skew
// sessions and percentiles with no caller-visible signal.
func (a *Aggregator) CountTimestampError() {
	a.diag.TimestampErrors++
}

// Finalize freezes every metric domain into an immutable snapshot.
func (a *Aggregator) Finalize(generatedAt time.Time) *domain.MetricsSnapshot {
	a.diag.ErrorLogLines = a.errors.Lines()

	return &domain.MetricsSnapshot{
		Project:     a.project,
		GeneratedAt: generatedAt,
		Traffic:     a.traffic.Finalize(),
		Performance: a.performance.Finalize(),
		Content:     a.content.Finalize(),
		Security:    a.security.Finalize(),
		SEO:         a.seo.Finalize(),
		Errors:      a.errors.Finalize(),
		Diagnostics: a.diag,
	}
}
