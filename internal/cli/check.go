package cli

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/alexnews/gunlog/internal/classify"
	"github.com/alexnews/gunlog/internal/domain"
	"github.com/alexnews/gunlog/internal/output"
)

// CheckCmd classifies a single request the way the analyzers would
type CheckCmd struct {
	URL       string `short:"u" help:"Request URL or path"`
	UserAgent string `short:"a" help:"User agent string"`
	Referrer  string `short:"r" help:"Referrer URL"`
	IP        string `help:"Client IP address"`
}

// CheckReport is the classification verdict for one request.
type CheckReport struct {
	Type          string `json:"type"` // Always "check"
	SchemaVersion int    `json:"schemaVersion"`

	Bot          bool     `json:"bot"`
	SearchEngine string   `json:"search_engine,omitempty"`
	Mobile       bool     `json:"mobile"`
	Threats      []string `json:"threats,omitempty"`
	Static       bool     `json:"static"`
	Sensitive    string   `json:"sensitive,omitempty"`
	PrivateIP    bool     `json:"private_ip"`
	ReferrerType string   `json:"referrer_type,omitempty"`
	SearchQuery  string   `json:"search_query,omitempty"`
	ContentType  string   `json:"content_type,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// Run executes the check command
func (c *CheckCmd) Run(globals *Globals) error {
	if c.URL == "" && c.UserAgent == "" && c.Referrer == "" && c.IP == "" {
		return fmt.Errorf("nothing to check: pass --url, --user-agent, --referrer, or --ip")
	}

	report := CheckReport{
		Type:          "check",
		SchemaVersion: output.SchemaVersion,
	}

	if c.UserAgent != "" {
		report.Bot = classify.IsBot(c.UserAgent)
		report.SearchEngine = classify.SearchEngineBot(c.UserAgent)
		report.Mobile = classify.IsMobile(c.UserAgent)
	}
	if c.URL != "" {
		rec := &domain.LogRecord{URL: c.URL}
		report.Static = classify.IsStatic(rec)
		report.Sensitive = classify.SensitiveResource(c.URL)
		info := classify.CategorizeContent(c.URL)
		report.ContentType = info.Type
		report.Category = info.Category
	}
	if c.IP != "" {
		report.PrivateIP = classify.IsPrivateIP(c.IP)
	}
	if c.Referrer != "" {
		report.ReferrerType = classify.ClassifyReferrer(c.Referrer)
		if sr := classify.ParseSearchReferrer(c.Referrer); sr.Engine != "" {
			report.SearchQuery = sr.Query
		}
	}
	for _, hit := range classify.MatchThreats(classify.ThreatTargets{
		RequestLine: c.URL,
		UserAgent:   c.UserAgent,
		Referrer:    c.Referrer,
	}) {
		report.Threats = append(report.Threats, hit.Category)
	}

	if globals.Format == "ndjson" {
		enc := json.NewEncoder(globals.Stdout)
		enc.SetEscapeHTML(false)
		return enc.Encode(report)
	}

	fmt.Fprintf(globals.Stdout, "bot: %v\n", report.Bot)
	if report.SearchEngine != "" {
		fmt.Fprintf(globals.Stdout, "search engine: %s\n", report.SearchEngine)
	}
	fmt.Fprintf(globals.Stdout, "mobile: %v\n", report.Mobile)
	if len(report.Threats) > 0 {
		fmt.Fprintf(globals.Stdout, "threats: %s\n", strings.Join(report.Threats, ", "))
	}
	if c.URL != "" {
		fmt.Fprintf(globals.Stdout, "static: %v\n", report.Static)
		fmt.Fprintf(globals.Stdout, "content: %s / %s\n", report.ContentType, report.Category)
		if report.Sensitive != "" {
			fmt.Fprintf(globals.Stdout, "sensitive resource: %s\n", report.Sensitive)
		}
	}
	if c.IP != "" {
		fmt.Fprintf(globals.Stdout, "private ip: %v\n", report.PrivateIP)
	}
	if report.ReferrerType != "" {
		fmt.Fprintf(globals.Stdout, "referrer: %s\n", report.ReferrerType)
		if report.SearchQuery != "" {
			fmt.Fprintf(globals.Stdout, "search query: %s\n", report.SearchQuery)
		}
	}
	return nil
}
