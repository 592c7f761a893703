package classify

import "regexp"

// Threat category names.
const (
	ThreatSQLInjection     = "SQL Injection"
	ThreatXSS              = "XSS Attack"
	ThreatPathTraversal    = "Path Traversal"
	ThreatCommandInjection = "Command Injection"
	ThreatServerScan       = "Server Scan"
	ThreatSuspiciousAgent  = "Suspicious User Agent"
)

// threatCategory is a named category backed by an ordered pattern list.
// The first pattern/target pair that matches marks the category as
// present; which pattern hit is not reported.
type threatCategory struct {
	name     string
	patterns []*regexp.Regexp
}

// threatTable is data, not control flow: new categories extend the slice
// without touching the matcher. Order is fixed for deterministic output.
var threatTable = []threatCategory{
	{ThreatSQLInjection, compileAll(
		`union\s+select`,
		`select.+from`,
		`1=1`,
		`or\s+1\s*=`,
		`drop\s+table`,
	)},
	{ThreatXSS, compileAll(
		`<script`,
		`javascript:`,
		`onerror=`,
		`onload=`,
		`onclick=`,
	)},
	{ThreatPathTraversal, compileAll(
		`\.\./`,
		`\.\.%2f`,
		`/etc/passwd`,
	)},
	{ThreatCommandInjection, compileAll(
		`;\s*[a-z]+`,
		`\|\s*[a-z]+`,
	)},
	{ThreatServerScan, compileAll(
		`/admin`,
		`/wp-admin`,
		`/phpmyadmin`,
		`/\.git`,
		`/\.env`,
	)},
	{ThreatSuspiciousAgent, compileAll(
		`sqlmap`,
		`nikto`,
		`nmap`,
		`gobuster`,
		`dirbuster`,
	)},
}

// ThreatTargets are the record fields a threat pattern is evaluated
// against.
type ThreatTargets struct {
	RequestLine string
	UserAgent   string
	Referrer    string
}

// targetFields names the matched field in ThreatMatch output, in the
// order targets are probed.
var targetFields = [...]string{"request", "user_agent", "referrer"}

// MatchThreats evaluates the category table against the given targets and
// returns the matched category names with the field that triggered each.
// Categories are independent: a record can match several, and within one
// category evaluation stops at the first hit.
func MatchThreats(t ThreatTargets) []CategoryHit {
	targets := [...]string{t.RequestLine, t.UserAgent, t.Referrer}

	var hits []CategoryHit
	for _, cat := range threatTable {
	patterns:
		for _, p := range cat.patterns {
			for i, target := range targets {
				if target == "" {
					continue
				}
				if p.MatchString(target) {
					hits = append(hits, CategoryHit{Category: cat.name, Field: targetFields[i]})
					break patterns
				}
			}
		}
	}
	return hits
}

// CategoryHit is one matched threat category.
type CategoryHit struct {
	Category string
	Field    string
}

// ThreatCategories lists the known category names in table order.
func ThreatCategories() []string {
	names := make([]string, len(threatTable))
	for i, cat := range threatTable {
		names[i] = cat.name
	}
	return names
}
