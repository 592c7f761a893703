package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexnews/gunlog/internal/classify"
	"github.com/alexnews/gunlog/internal/domain"
)

const (
	// rateLimitWindow and rateLimitThreshold define the high-frequency
	// client check: more than rateLimitThreshold requests inside the
	// window flags the IP, once.
	rateLimitWindow    = 60 * time.Second
	rateLimitThreshold = 60
	// rateLimitHistory bounds the per-IP timestamp ring.
	rateLimitHistory = 100

	// authFailureThreshold is the per-IP 401/403 count that starts
	// emitting auth-failure events.
	authFailureThreshold = 3

	// maxSuspicious caps the retained suspicious request samples.
	maxSuspicious = 100
)

// securityStatusCodes are the status codes worth tracking separately for
// security review.
var securityStatusCodes = map[int]string{
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	429: "Too Many Requests",
}

// SecurityAggregator detects threats and suspicious client behavior.
// Behavioral checks (rate limit, auth failures) key on client IP.
type SecurityAggregator struct {
	stats *domain.SecurityStats

	requestTimes map[string][]time.Time
	highFreq     map[string]int
	authFailures map[string]int

	recommendations map[string]struct{}
	authEvents      int
}

// NewSecurityAggregator creates an empty security aggregator.
func NewSecurityAggregator() *SecurityAggregator {
	return &SecurityAggregator{
		stats: &domain.SecurityStats{
			AttackTypes:         make(map[string]int),
			AttackVectors:       make(map[string]map[string]int),
			AttackSources:       make(map[string]int),
			StatusCodes:         make(map[int]int),
			SecurityStatusCodes: make(map[int]int),
			HTTPMethods:         make(map[string]int),
			SensitiveURLs:       make(map[string]int),
			SuspiciousAgents:    make(map[string]int),
		},
		requestTimes:    make(map[string][]time.Time),
		highFreq:        make(map[string]int),
		authFailures:    make(map[string]int),
		recommendations: make(map[string]struct{}),
	}
}

// Observe feeds one record into the aggregator.
func (a *SecurityAggregator) Observe(rec *domain.LogRecord) {
	s := a.stats

	s.TotalRequests++
	s.HTTPMethods[rec.Method]++
	s.StatusCodes[rec.StatusCode]++
	if _, ok := securityStatusCodes[rec.StatusCode]; ok {
		s.SecurityStatusCodes[rec.StatusCode]++
	}

	a.observeAuthFailure(rec)
	a.observeSensitive(rec)
	a.observeRate(rec)
	a.observeThreats(rec)
}

func (a *SecurityAggregator) observeAuthFailure(rec *domain.LogRecord) {
	if rec.StatusCode != 401 && rec.StatusCode != 403 {
		return
	}
	a.authFailures[rec.ClientIP]++

	if n := a.authFailures[rec.ClientIP]; n >= authFailureThreshold {
		a.authEvents++
		a.addEvent(rec, domain.EventAuthFailure, fmt.Sprintf("Multiple auth failures (%d attempts)", n))
		a.recommendations[fmt.Sprintf("Block IP %s - Multiple auth failures", rec.ClientIP)] = struct{}{}
	}
}

func (a *SecurityAggregator) observeSensitive(rec *domain.LogRecord) {
	resource := classify.SensitiveResource(rec.URL)
	if resource == "" {
		return
	}
	a.stats.SensitiveURLs[rec.URL]++
	a.addEvent(rec, domain.EventSensitiveResource, "Access to "+resource)
}

func (a *SecurityAggregator) observeRate(rec *domain.LogRecord) {
	times := append(a.requestTimes[rec.ClientIP], rec.Timestamp)
	if len(times) > rateLimitHistory {
		times = times[len(times)-rateLimitHistory:]
	}
	a.requestTimes[rec.ClientIP] = times

	recent := 0
	for _, t := range times {
		if rec.Timestamp.Sub(t) < rateLimitWindow {
			recent++
		}
	}
	if recent <= rateLimitThreshold {
		return
	}

	a.highFreq[rec.ClientIP]++
	if a.highFreq[rec.ClientIP] == 1 {
		a.addEvent(rec, domain.EventRateLimitExceeded, fmt.Sprintf("%d requests in <60 seconds", recent))
		a.recommendations["Rate limit IP "+rec.ClientIP] = struct{}{}
	}
}

func (a *SecurityAggregator) observeThreats(rec *domain.LogRecord) {
	hits := classify.MatchThreats(classify.ThreatTargets{
		RequestLine: rec.RequestLine,
		UserAgent:   rec.UserAgent,
		Referrer:    rec.Referrer,
	})
	if len(hits) == 0 {
		return
	}
	s := a.stats

	categories := make([]string, 0, len(hits))
	for _, hit := range hits {
		categories = append(categories, hit.Category)

		s.AttackTypes[hit.Category]++
		if s.AttackVectors[hit.Category] == nil {
			s.AttackVectors[hit.Category] = make(map[string]int)
		}
		s.AttackVectors[hit.Category][rec.URL]++
		s.AttackSources[rec.ClientIP]++
		s.HourlyAttacks[rec.HourOfDay]++

		if len(s.Suspicious) < maxSuspicious {
			s.Suspicious = append(s.Suspicious, domain.ThreatMatch{
				Category:     hit.Category,
				ClientIP:     rec.ClientIP,
				Timestamp:    rec.Timestamp,
				MatchedField: hit.Field,
			})
		}
	}

	s.SuspiciousAgents[rec.UserAgent]++
	a.addEvent(rec, domain.EventAttackDetected, strings.Join(categories, ", "))

	for _, category := range categories {
		if category == classify.ThreatSQLInjection || category == classify.ThreatXSS {
			a.recommendations[fmt.Sprintf("Block IP %s - Attack attempts", rec.ClientIP)] = struct{}{}
			break
		}
	}
}

func (a *SecurityAggregator) addEvent(rec *domain.LogRecord, eventType, details string) {
	a.stats.Events = append(a.stats.Events, domain.SecurityEvent{
		Timestamp:  rec.Timestamp,
		ClientIP:   rec.ClientIP,
		EventType:  eventType,
		Details:    details,
		URL:        rec.URL,
		UserAgent:  rec.UserAgent,
		StatusCode: rec.StatusCode,
	})
}

// Finalize computes the security score and status. The returned stats
// must not be modified afterwards.
func (a *SecurityAggregator) Finalize() *domain.SecurityStats {
	s := a.stats

	recs := make([]string, 0, len(a.recommendations))
	for r := range a.recommendations {
		recs = append(recs, r)
	}
	sort.Strings(recs)
	s.Recommendations = recs

	var attacks int
	for _, n := range s.AttackTypes {
		attacks += n
	}
	var sensitive int
	for _, n := range s.SensitiveURLs {
		sensitive += n
	}

	score := 100
	if attacks > 0 {
		score -= min(50, attacks)
	}
	if a.authEvents > 0 {
		score -= min(20, a.authEvents*5)
	}
	if sensitive > 0 {
		score -= min(20, sensitive*2)
	}
	if score < 0 {
		score = 0
	}
	s.Score = score
	s.Status = scoreStatus(score)

	return s
}

// scoreStatus maps a 0-100 score onto a reporting label.
func scoreStatus(score int) string {
	switch {
	case score >= 90:
		return "Good"
	case score >= 70:
		return "Fair"
	case score >= 50:
		return "Poor"
	default:
		return "Critical"
	}
}
