package classify

import (
	"regexp"
	"strings"
)

// botSignatures is the fixed crawler/automation signature list. Matching
// is a case-insensitive substring test.
var botSignatures = []string{
	"bot", "crawl", "spider", "slurp", "baidu", "bing", "google",
	"yandex", "facebook", "archive", "lighthouse", "pagespeed", "pingdom",
	"uptimerobot", "semrush", "ahrefs", "screaming", "yahoo",
}

// IsBot reports whether a user agent looks like a bot or crawler.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

// searchBot is one named search-engine crawler with its ordered
// user-agent patterns.
type searchBot struct {
	name     string
	patterns []*regexp.Regexp
}

// searchBots identifies crawlers of the major search engines. Order is
// fixed so classification is deterministic; "Other" catches well-known
// SEO tooling crawlers.
var searchBots = []searchBot{
	{"Googlebot", compileAll(`googlebot`, `google-site-verification`, `google web preview`, `google favicon`)},
	{"Bingbot", compileAll(`bingbot`, `msnbot`, `adidxbot`, `bingpreview`)},
	{"Yandex", compileAll(`yandex`, `yandexbot`, `yandeximages`)},
	{"Baidu", compileAll(`baiduspider`, `baidu`)},
	{"DuckDuckGo", compileAll(`duckduckbot`, `duckduckgo`)},
	{"Yahoo", compileAll(`yahoo! slurp`, `yahooseeker`)},
	{"Other", compileAll(`ahrefsbot`, `semrushbot`, `mj12bot`, `dotbot`, `blexbot`, `seznambot`)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// SearchEngineBot returns the search engine a crawler user agent belongs
// to, or "" when the agent is not a known search-engine bot.
func SearchEngineBot(userAgent string) string {
	for _, bot := range searchBots {
		for _, p := range bot.patterns {
			if p.MatchString(userAgent) {
				return bot.name
			}
		}
	}
	return ""
}

// IsMobile reports whether a user agent looks like a mobile device.
func IsMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	return strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone")
}
