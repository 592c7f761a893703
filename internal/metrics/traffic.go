package metrics

import (
	"strings"

	"github.com/alexnews/gunlog/internal/classify"
	"github.com/alexnews/gunlog/internal/domain"
	"github.com/alexnews/gunlog/internal/session"
)

// maxFlowSteps caps the session depth bucket in visitor flow analysis.
const maxFlowSteps = 5

// TrafficAggregator builds visitor and traffic-source statistics.
// Sessions are keyed by client IP; static assets are not page events and
// never touch the session window.
type TrafficAggregator struct {
	stats    *domain.TrafficStats
	flow     *domain.VisitorFlow
	ips      map[string]struct{}
	visitors map[string]struct{}
	tracker  *session.Tracker
}

// NewTrafficAggregator creates an empty traffic aggregator.
func NewTrafficAggregator() *TrafficAggregator {
	return &TrafficAggregator{
		stats: &domain.TrafficStats{
			StatusCodes:   make(map[int]int),
			Pages:         make(map[string]int),
			EntryPages:    make(map[string]int),
			ExitPages:     make(map[string]int),
			Referrers:     make(map[string]int),
			ReferrerTypes: make(map[string]int),
			SearchEngines: make(map[string]int),
			SearchTerms:   make(map[string]int),
			UTMSources:    make(map[string]int),
			UTMMediums:    make(map[string]int),
			UTMCampaigns:  make(map[string]int),
			FileTypes:     make(map[string]int),
		},
		flow: &domain.VisitorFlow{
			StepCounts:  make(map[int]int),
			Pathways:    make(map[string]int),
			Transitions: make(map[string]map[string]int),
		},
		ips:      make(map[string]struct{}),
		visitors: make(map[string]struct{}),
		tracker:  session.NewTracker(),
	}
}

// Observe feeds one record into the aggregator.
func (a *TrafficAggregator) Observe(rec *domain.LogRecord) {
	s := a.stats

	s.TotalHits++
	a.ips[rec.ClientIP] = struct{}{}
	a.visitors[rec.VisitorID()] = struct{}{}

	if classify.IsBot(rec.UserAgent) {
		s.BotHits++
	} else {
		s.HumanHits++
	}

	s.HourlyTraffic[rec.HourOfDay]++
	s.DailyTraffic[rec.DayOfWeek]++
	s.StatusCodes[rec.StatusCode]++

	ext := rec.FileExt()
	if ext == "" {
		ext = "(none)"
	}
	s.FileTypes[ext]++

	static := classify.IsStatic(rec)
	if !static && rec.StatusCode == 200 && rec.Method == "GET" {
		s.Pages[rec.URL]++
	}

	if rec.HasReferrer() {
		s.Referrers[rec.Referrer]++
		s.ReferrerTypes[classify.ClassifyReferrer(rec.Referrer)]++

		if sr := classify.ParseSearchReferrer(rec.Referrer); sr.Engine != "" {
			s.SearchEngines[sr.Engine]++
			if sr.Query != "" {
				s.SearchTerms[strings.ToLower(sr.Query)]++
			}
		}
	} else {
		s.ReferrerTypes[classify.ReferrerDirect]++
	}

	for param, value := range classify.ExtractUTM(rec.URL) {
		switch param {
		case "utm_source":
			s.UTMSources[value]++
		case "utm_medium":
			s.UTMMediums[value]++
		case "utm_campaign":
			s.UTMCampaigns[value]++
		}
	}

	if static {
		return
	}

	visit := domain.PageVisit{Timestamp: rec.Timestamp, URL: rec.URL}
	change := a.tracker.Observe(domain.ClientKeyFromIP(rec.ClientIP), visit)
	if change == nil {
		return
	}
	if change.Ended != nil {
		a.closeSession(change.Ended)
	}
	if change.Started != nil && rec.StatusCode == 200 {
		s.EntryPages[rec.URL]++
	}
}

// closeSession folds a finished session into exit pages, bounce counts
// and visitor flow.
func (a *TrafficAggregator) closeSession(sess *domain.Session) {
	a.stats.ExitPages[sess.Last().URL]++
	if sess.IsBounce() {
		a.stats.Bounces++
	}

	depth := len(sess.Visits)
	if depth > maxFlowSteps {
		depth = maxFlowSteps
	}
	a.flow.StepCounts[depth]++

	if len(sess.Visits) >= 3 {
		pathway := sess.Visits[0].URL + " > " + sess.Visits[1].URL + " > " + sess.Visits[2].URL
		a.flow.Pathways[pathway]++
	}

	for i := 0; i+1 < len(sess.Visits); i++ {
		from, to := sess.Visits[i].URL, sess.Visits[i+1].URL
		if a.flow.Transitions[from] == nil {
			a.flow.Transitions[from] = make(map[string]int)
		}
		a.flow.Transitions[from][to]++
	}
}

// Finalize flushes open sessions and computes the derived scalars. The
// returned stats must not be modified afterwards.
func (a *TrafficAggregator) Finalize() *domain.TrafficStats {
	for _, sess := range a.tracker.Flush() {
		a.closeSession(sess)
	}

	s := a.stats
	s.UniqueIPs = len(a.ips)
	s.UniqueVisitors = len(a.visitors)
	s.TotalSessions = a.tracker.Opened()
	if s.TotalSessions > 0 {
		s.BounceRate = float64(s.Bounces) / float64(s.TotalSessions) * 100
	}
	s.Flow = a.flow
	return s
}
