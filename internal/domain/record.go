package domain

import (
	"path"
	"strings"
	"time"
)

// LogRecord is one parsed access-log event. Immutable once parsed.
type LogRecord struct {
	ClientIP   string    `json:"client_ip"`
	AuthUser   string    `json:"auth_user,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	HourOfDay  int       `json:"hour_of_day"`  // 0-23, from the log's local time
	DayOfWeek  int       `json:"day_of_week"`  // Monday=0 ... Sunday=6
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Protocol   string    `json:"protocol,omitempty"`
	StatusCode int       `json:"status_code"`

	// ResponseSize is only meaningful when HasSize is true; the combined
	// format writes "-" for responses without a body size.
	ResponseSize int64 `json:"response_size,omitempty"`
	HasSize      bool  `json:"has_size"`

	Referrer  string `json:"referrer,omitempty"` // empty when the log had "-"
	UserAgent string `json:"user_agent"`

	// ResponseTime is the optional trailing seconds field some formats
	// append; HasResponseTime distinguishes 0 from absent.
	ResponseTime    float64 `json:"response_time,omitempty"`
	HasResponseTime bool    `json:"has_response_time"`

	// RequestLine is the raw "<method> <url> HTTP/<ver>" text, kept for
	// threat matching against the full request.
	RequestLine string `json:"request_line"`
}

// HasReferrer reports whether the record carried a real referrer.
func (r *LogRecord) HasReferrer() bool {
	return r.Referrer != "" && r.Referrer != "-"
}

// FileExt returns the lowercased extension of the request URL, without
// any query string.
func (r *LogRecord) FileExt() string {
	u := r.URL
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return strings.ToLower(path.Ext(u))
}

// VisitorID is the IP+UserAgent identity used for visitor uniqueness.
func (r *LogRecord) VisitorID() string {
	return r.ClientIP + "|" + r.UserAgent
}
