package domain

import (
	"fmt"
	"time"
)

// SessionTimeout is the inactivity gap that closes a session. A gap
// strictly greater than this starts a new session.
const SessionTimeout = 30 * time.Minute

// ClientKey identifies the client a session belongs to. The grouping
// policy (IP alone vs IP+UserAgent) is chosen by the caller and must be
// explicit per aggregator.
type ClientKey string

// ClientKeyFromIP groups sessions by client IP only.
func ClientKeyFromIP(ip string) ClientKey {
	return ClientKey(ip)
}

// ClientKeyFromVisitor groups sessions by IP and user agent.
func ClientKeyFromVisitor(ip, userAgent string) ClientKey {
	return ClientKey(ip + "|" + userAgent)
}

// PageVisit is one page event inside a session.
type PageVisit struct {
	Timestamp time.Time
	URL       string
}

// Session is an ordered, append-only run of page visits from one client,
// bounded by the inactivity timeout. Closed sessions are never reopened.
type Session struct {
	ID     string
	Key    ClientKey
	Visits []PageVisit
}

// NewSession opens a session for key seeded with the first visit. The ID
// is derived deterministically from the key and the first timestamp.
func NewSession(key ClientKey, first PageVisit) *Session {
	return &Session{
		ID:     fmt.Sprintf("%s_%d", key, first.Timestamp.Unix()),
		Key:    key,
		Visits: []PageVisit{first},
	}
}

// Append adds a visit to the session.
func (s *Session) Append(v PageVisit) {
	s.Visits = append(s.Visits, v)
}

// First returns the opening visit.
func (s *Session) First() PageVisit {
	return s.Visits[0]
}

// Last returns the most recent visit.
func (s *Session) Last() PageVisit {
	return s.Visits[len(s.Visits)-1]
}

// DistinctURLs returns the number of distinct URLs visited.
func (s *Session) DistinctURLs() int {
	seen := make(map[string]struct{}, len(s.Visits))
	for _, v := range s.Visits {
		seen[v.URL] = struct{}{}
	}
	return len(seen)
}

// IsBounce reports whether the session touched exactly one distinct URL.
func (s *Session) IsBounce() bool {
	return s.DistinctURLs() == 1
}
