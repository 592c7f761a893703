package domain

import "time"

// ThreatMatch records one detected threat category on a request. A record
// may produce several matches, at most one per category.
type ThreatMatch struct {
	Category     string    `json:"category"`
	ClientIP     string    `json:"client_ip"`
	Timestamp    time.Time `json:"timestamp"`
	MatchedField string    `json:"matched_field"` // "request", "user_agent" or "referrer"
}

// SecurityEvent is a notable security observation surfaced in reports.
type SecurityEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	ClientIP   string    `json:"client_ip"`
	EventType  string    `json:"event_type"`
	Details    string    `json:"details"`
	URL        string    `json:"url"`
	UserAgent  string    `json:"user_agent"`
	StatusCode int       `json:"status_code"`
}

// Security event types.
const (
	EventAttackDetected    = "Attack Detected"
	EventAuthFailure       = "Authentication Failure"
	EventSensitiveResource = "Sensitive Resource Access"
	EventRateLimitExceeded = "Rate Limit Exceeded"
)
