package classify

import "strings"

var privatePrefixes = []string{
	"10.",
	"172.16.", "172.17.", "172.18.", "172.19.",
	"172.20.", "172.21.", "172.22.", "172.23.",
	"172.24.", "172.25.", "172.26.", "172.27.",
	"172.28.", "172.29.", "172.30.", "172.31.",
	"192.168.",
	"127.",
	"localhost",
}

// IsPrivateIP reports whether an address belongs to a private or loopback
// range. The check is prefix based so hostnames like "localhost" match too.
func IsPrivateIP(ip string) bool {
	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}

var sensitiveResources = []string{
	"/admin", "/wp-admin", "/login", "/wp-login", "/administrator",
	"/phpmyadmin", "/myadmin", "/.git", "/.env", "/config",
	"/wp-config", "/backup", "/db", "/database",
}

// SensitiveResource returns the monitored resource prefix a URL touches,
// or "" when the URL is not sensitive.
func SensitiveResource(url string) string {
	for _, resource := range sensitiveResources {
		if strings.Contains(url, resource) {
			return resource
		}
	}
	return ""
}
