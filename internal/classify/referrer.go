package classify

import (
	"net/url"
	"strings"
)

// Referrer type names.
const (
	ReferrerDirect      = "Direct"
	ReferrerSocial      = "Social"
	ReferrerSearch      = "Search"
	ReferrerAdvertising = "Advertising"
	ReferrerEmail       = "Email"
	ReferrerReferral    = "Referral"
)

var socialDomains = []string{
	"facebook.com", "twitter.com", "instagram.com", "linkedin.com",
	"pinterest.com", "reddit.com", "t.co", "youtube.com", "tiktok.com",
}

var searchDomains = []string{
	"google.", "bing.com", "yahoo.com", "yandex.", "baidu.com",
	"duckduckgo.com", "search.",
}

var adDomains = []string{
	"doubleclick.net", "adwords", "analytics", "googleadservices",
	"ad.", "ads.", "advert", "campaign",
}

// ClassifyReferrer buckets a referrer URL into a traffic-source category.
func ClassifyReferrer(referrer string) string {
	if referrer == "" || referrer == "-" {
		return ReferrerDirect
	}

	parsed, err := url.Parse(referrer)
	if err != nil {
		return ReferrerReferral
	}
	domain := strings.ToLower(parsed.Host)

	for _, d := range socialDomains {
		if strings.Contains(domain, d) {
			return ReferrerSocial
		}
	}
	for _, d := range searchDomains {
		if strings.Contains(domain, d) {
			return ReferrerSearch
		}
	}
	for _, d := range adDomains {
		if strings.Contains(domain, d) {
			return ReferrerAdvertising
		}
	}

	// A utm_source hints at the channel even when the domain does not.
	if source := strings.ToLower(parsed.Query().Get("utm_source")); source != "" {
		if containsAny(source, "email", "newsletter", "mail") {
			return ReferrerEmail
		}
		if containsAny(source, "social", "facebook", "twitter", "instagram") {
			return ReferrerSocial
		}
		if containsAny(source, "ad", "advert", "campaign", "banner") {
			return ReferrerAdvertising
		}
	}

	return ReferrerReferral
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// searchEngine describes how one engine's referrer URLs carry queries.
type searchEngine struct {
	name        string
	domains     []string
	params      []string
	organicPath string
}

var searchEngines = []searchEngine{
	{"google", []string{"google.com", "google.co", "google."}, []string{"q", "query"}, "/search"},
	{"bing", []string{"bing.com"}, []string{"q"}, "/search"},
	{"yahoo", []string{"yahoo.com", "search.yahoo"}, []string{"p"}, "/search"},
	{"yandex", []string{"yandex.", "yandex.ru", "yandex.com"}, []string{"text"}, "/search"},
	{"baidu", []string{"baidu.com"}, []string{"wd", "word"}, "/s"},
	{"duckduckgo", []string{"duckduckgo.com"}, []string{"q"}, "/"},
}

// SearchReferrer is a parsed search-engine referrer.
type SearchReferrer struct {
	Engine  string
	Query   string
	Organic bool
}

// ParseSearchReferrer extracts the search engine, query and organic flag
// from a referrer URL. The zero value is returned for non-search
// referrers.
func ParseSearchReferrer(referrer string) SearchReferrer {
	if referrer == "" || referrer == "-" {
		return SearchReferrer{}
	}

	parsed, err := url.Parse(referrer)
	if err != nil {
		return SearchReferrer{}
	}
	domain := strings.ToLower(parsed.Host)
	path := strings.ToLower(parsed.Path)
	values := parsed.Query()

	for _, engine := range searchEngines {
		if !containsAny(domain, engine.domains...) {
			continue
		}
		sr := SearchReferrer{
			Engine:  engine.name,
			Organic: strings.Contains(path, engine.organicPath),
		}
		for _, param := range engine.params {
			if q := values.Get(param); q != "" {
				sr.Query = q
				break
			}
		}
		return sr
	}

	return SearchReferrer{}
}

// ExtractUTM returns the utm_* parameters of a URL.
func ExtractUTM(rawURL string) map[string]string {
	if rawURL == "" {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	var utm map[string]string
	for param, values := range parsed.Query() {
		if strings.HasPrefix(param, "utm_") && len(values) > 0 {
			if utm == nil {
				utm = make(map[string]string)
			}
			utm[param] = values[0]
		}
	}
	return utm
}
