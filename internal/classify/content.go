package classify

import (
	"net/url"
	"path"
	"strings"

	"github.com/alexnews/gunlog/internal/domain"
)

var contentTypeExts = []struct {
	name string
	exts []string
}{
	{"Page", []string{".html", ".htm", ".php", ".asp", ".aspx", ".jsp"}},
	{"Image", []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".bmp"}},
	{"Style", []string{".css", ".scss", ".less"}},
	{"Script", []string{".js", ".jsx", ".ts", ".tsx"}},
	{"Document", []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}},
	{"Media", []string{".mp3", ".mp4", ".avi", ".mov", ".webm", ".ogg", ".wav"}},
	{"Download", []string{".zip", ".rar", ".tar", ".gz", ".7z"}},
	{"Data", []string{".json", ".xml", ".csv", ".txt"}},
}

var categoryPatterns = []struct {
	markers     []string
	category    string
	subcategory string
}{
	{[]string{"/blog/", "/news/", "/article/"}, "Content", "Article"},
	{[]string{"/product/", "/shop/", "/item/"}, "Products", ""},
	{[]string{"/category/", "/catalog/"}, "Categories", ""},
	{[]string{"/tag/"}, "Tags", ""},
	{[]string{"/search/"}, "Search", ""},
	{[]string{"/user/", "/account/", "/profile/"}, "User", ""},
	{[]string{"/api/"}, "API", ""},
	{[]string{"/admin/", "/dashboard/"}, "Admin", ""},
	{[]string{"/forum/", "/community/", "/discussion/"}, "Community", ""},
}

// ContentInfo describes a URL's place in the site's content structure.
type ContentInfo struct {
	Type        string
	Category    string
	Subcategory string
}

// CategorizeContent derives a content type from the URL's extension and a
// category and subcategory from its path segments.
func CategorizeContent(rawURL string) ContentInfo {
	info := ContentInfo{Type: "Page", Category: "Unknown", Subcategory: "Other"}

	ext := strings.ToLower(path.Ext(rawURL))
	for _, ct := range contentTypeExts {
		if slicesContains(ct.exts, ext) {
			info.Type = ct.name
			break
		}
	}

	parts := strings.Split(strings.Trim(rawURL, "/"), "/")
	if len(parts) >= 1 {
		if parts[0] == "" {
			info.Category = "Root"
		} else {
			info.Category = capitalize(parts[0])
		}
		if len(parts) >= 2 {
			if parts[1] == "" {
				info.Subcategory = "General"
			} else {
				info.Subcategory = capitalize(parts[1])
			}
		}
	}

	for _, cp := range categoryPatterns {
		if containsAny(rawURL, cp.markers...) {
			info.Category = cp.category
			if cp.subcategory != "" {
				info.Subcategory = cp.subcategory
			}
			break
		}
	}

	return info
}

// TitleFromURL builds a human-readable page title from a URL's last path
// segment.
func TitleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	p := rawURL
	if err == nil {
		p = parsed.Path
	}
	p = strings.TrimSuffix(p, path.Ext(p))

	var last string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			last = seg
		}
	}
	if last == "" {
		return "Home Page"
	}

	last = strings.ReplaceAll(last, "-", " ")
	last = strings.ReplaceAll(last, "_", " ")

	words := strings.Fields(last)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

var staticExts = []string{
	".jpg", ".jpeg", ".png", ".gif", ".ico", ".css", ".js",
	".svg", ".woff", ".woff2", ".ttf", ".eot",
}

// IsStatic reports whether the record requests a static asset.
func IsStatic(rec *domain.LogRecord) bool {
	return slicesContains(staticExts, rec.FileExt())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slicesContains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
