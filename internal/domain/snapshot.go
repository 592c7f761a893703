package domain

import "time"

// MetricsSnapshot is the finalized aggregation result for one project and
// one run. Built incrementally during the scan, finalized once, immutable
// afterwards.
type MetricsSnapshot struct {
	Project     string    `json:"project"`
	GeneratedAt time.Time `json:"generated_at"`

	Traffic     *TrafficStats     `json:"traffic,omitempty"`
	Performance *PerformanceStats `json:"performance,omitempty"`
	Content     *ContentStats     `json:"content,omitempty"`
	Security    *SecurityStats    `json:"security,omitempty"`
	SEO         *SEOStats         `json:"seo,omitempty"`
	Errors      *ErrorStats       `json:"errors,omitempty"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// Diagnostics surfaces data-quality counters so downstream reporting can
// show problems instead of hiding them.
type Diagnostics struct {
	LinesRead       int `json:"lines_read"`
	LinesMatched    int `json:"lines_matched"`
	ParseErrors     int `json:"parse_errors"`
	TimestampErrors int `json:"timestamp_errors"`
	InternalIPSkips int `json:"internal_ip_skips"`
	ErrorLogLines   int `json:"error_log_lines,omitempty"`
}

// TrafficStats covers visitor behavior and traffic sources.
type TrafficStats struct {
	TotalHits      int `json:"total_hits"`
	UniqueIPs      int `json:"unique_ips"`
	UniqueVisitors int `json:"unique_visitors"` // distinct IP+UserAgent pairs
	BotHits        int `json:"bot_hits"`
	HumanHits      int `json:"human_hits"`

	HourlyTraffic [24]int `json:"hourly_traffic"`
	DailyTraffic  [7]int  `json:"daily_traffic"` // Monday=0

	StatusCodes   map[int]int    `json:"status_codes"`
	Pages         map[string]int `json:"pages"` // GET+200, non-static
	EntryPages    map[string]int `json:"entry_pages"`
	ExitPages     map[string]int `json:"exit_pages"`
	Referrers     map[string]int `json:"referrers"`
	ReferrerTypes map[string]int `json:"referrer_types"`
	SearchEngines map[string]int `json:"search_engines"`
	SearchTerms   map[string]int `json:"search_terms"`
	UTMSources    map[string]int `json:"utm_sources"`
	UTMMediums    map[string]int `json:"utm_mediums"`
	UTMCampaigns  map[string]int `json:"utm_campaigns"`
	FileTypes     map[string]int `json:"file_types"`

	TotalSessions int     `json:"total_sessions"`
	Bounces       int     `json:"bounces"`
	BounceRate    float64 `json:"bounce_rate"` // percent

	Flow *VisitorFlow `json:"flow,omitempty"`
}

// VisitorFlow describes how visitors move between pages.
type VisitorFlow struct {
	StepCounts  map[int]int               `json:"step_counts"` // session depth, capped
	Pathways    map[string]int            `json:"pathways"`    // first three pages joined by " > "
	Transitions map[string]map[string]int `json:"transitions"` // from URL -> to URL -> count
}

// DistStats summarizes a numeric sample distribution. Percentiles use the
// value at index floor(N*p) of the ascending sort.
type DistStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// URLSample pairs a URL with an averaged sample value.
type URLSample struct {
	URL   string  `json:"url"`
	Value float64 `json:"value"`
	Hits  int     `json:"hits"`
}

// SlowRequest is a request whose response time exceeded the slow
// threshold.
type SlowRequest struct {
	URL          string  `json:"url"`
	ResponseTime float64 `json:"response_time"`
	StatusCode   int     `json:"status_code"`
}

// PerformanceStats covers response times, sizes and status outcomes.
type PerformanceStats struct {
	TotalRequests    int            `json:"total_requests"`
	RequestMethods   map[string]int `json:"request_methods"`
	StatusCodes      map[int]int    `json:"status_codes"`
	StatusCategories map[string]int `json:"status_categories"` // 2xx/3xx/4xx/5xx/other
	FileTypes        map[string]int `json:"file_types"`

	ResponseTimes *DistStats `json:"response_times,omitempty"`
	ResponseSizes *DistStats `json:"response_sizes,omitempty"`
	TotalBytes    int64      `json:"total_bytes"`

	SlowRequests []SlowRequest `json:"slow_requests,omitempty"`
	SlowestURLs  []URLSample   `json:"slowest_urls,omitempty"`
	LargestURLs  []URLSample   `json:"largest_urls,omitempty"`
}

// PageStats is the per-URL rollup used by content analytics.
type PageStats struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	ContentType    string    `json:"content_type"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory"`
	Hits           int       `json:"hits"`
	UniqueVisitors int       `json:"unique_visitors"`
	FirstAccessed  time.Time `json:"first_accessed"`
	LastAccessed   time.Time `json:"last_accessed"`
}

// Engagement is the per-URL engagement rollup.
type Engagement struct {
	URL           string  `json:"url"`
	AvgTimeOnPage float64 `json:"avg_time_on_page"` // seconds
	BounceRate    float64 `json:"bounce_rate"`      // percent
	Score         float64 `json:"score"`
}

// ContentStats covers content engagement for human traffic.
type ContentStats struct {
	TotalHits     int            `json:"total_hits"`
	ContentTypes  map[string]int `json:"content_types"`
	Categories    map[string]int `json:"categories"`
	Subcategories map[string]int `json:"subcategories"`
	HourlyTraffic [24]int        `json:"hourly_traffic"`
	DailyTraffic  [7]int         `json:"daily_traffic"`

	Pages      []PageStats    `json:"pages,omitempty"`    // by hits, descending
	Trending   map[string]int `json:"trending,omitempty"` // hits in the last day of log time
	Engagement []Engagement   `json:"engagement,omitempty"`
}

// SecurityStats covers threats and suspicious activity.
type SecurityStats struct {
	TotalRequests       int                       `json:"total_requests"`
	AttackTypes         map[string]int            `json:"attack_types"`
	AttackVectors       map[string]map[string]int `json:"attack_vectors"` // category -> URL -> count
	AttackSources       map[string]int            `json:"attack_sources"` // IP -> count
	HourlyAttacks       [24]int                   `json:"hourly_attacks"`
	StatusCodes         map[int]int               `json:"status_codes"`
	SecurityStatusCodes map[int]int               `json:"security_status_codes"`
	HTTPMethods         map[string]int            `json:"http_methods"`
	SensitiveURLs       map[string]int            `json:"sensitive_urls"`
	SuspiciousAgents    map[string]int            `json:"suspicious_agents"`

	Events          []SecurityEvent `json:"events,omitempty"`
	Suspicious      []ThreatMatch   `json:"suspicious,omitempty"` // capped
	Recommendations []string        `json:"recommendations,omitempty"`

	Score  int    `json:"score"` // 0-100
	Status string `json:"status"`
}

// SEOIssue is one detected search-optimization problem.
type SEOIssue struct {
	Type         string `json:"type"`
	URL          string `json:"url,omitempty"`
	SearchEngine string `json:"search_engine,omitempty"`
	Details      string `json:"details"`
}

// SEOStats covers crawler activity and organic search traffic.
type SEOStats struct {
	TotalRequests int            `json:"total_requests"`
	BotRequests   int            `json:"bot_requests"`
	BotsByEngine  map[string]int `json:"bots_by_engine"`
	CrawledURLs   map[string]int `json:"crawled_urls"` // engine -> distinct URL count
	BotHourly     [24]int        `json:"bot_hourly"`
	BotDaily      [7]int         `json:"bot_daily"`

	OrganicTraffic  map[string]int            `json:"organic_traffic"` // engine -> hits
	SearchQueries   map[string]int            `json:"search_queries"`
	KeywordsByPage  map[string]map[string]int `json:"keywords_by_page"` // URL -> query -> hits
	OrganicLandings map[string]int            `json:"organic_landings"`
	EntryPages      map[string]int            `json:"entry_pages"` // non-bot sessions
	ExitPages       map[string]int            `json:"exit_pages"`

	MobileHits  int `json:"mobile_hits"`
	DesktopHits int `json:"desktop_hits"`
	HTTPHits    int `json:"http_hits"`
	HTTPSHits   int `json:"https_hits"`

	Issues []SEOIssue `json:"issues,omitempty"`
	Score  int        `json:"score"` // 0-100
	Status string     `json:"status"`
}

// ErrorStats covers the project's error log.
type ErrorStats struct {
	TotalErrors  int            `json:"total_errors"`
	UniqueErrors int            `json:"unique_errors"`
	ByMessage    map[string]int `json:"by_message"` // "msg in file on line N" -> count
	ByDay        map[string]int `json:"by_day"`     // "YYYY-MM-DD" -> count
}
