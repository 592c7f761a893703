package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchThreats(t *testing.T) {
	tests := []struct {
		name    string
		targets ThreatTargets
		want    []CategoryHit
	}{
		{
			name:    "union select in request",
			targets: ThreatTargets{RequestLine: "GET /products?id=1 UNION SELECT username,password FROM users HTTP/1.1"},
			want:    []CategoryHit{{Category: ThreatSQLInjection, Field: "request"}},
		},
		{
			name:    "script tag in request",
			targets: ThreatTargets{RequestLine: "GET /search?q=<script>alert(1)</script> HTTP/1.1"},
			want:    []CategoryHit{{Category: ThreatXSS, Field: "request"}},
		},
		{
			name:    "dot dot slash traversal",
			targets: ThreatTargets{RequestLine: "GET /../../etc/passwd HTTP/1.1"},
			want:    []CategoryHit{{Category: ThreatPathTraversal, Field: "request"}},
		},
		{
			name:    "env probe",
			targets: ThreatTargets{RequestLine: "GET /.env HTTP/1.1"},
			want:    []CategoryHit{{Category: ThreatServerScan, Field: "request"}},
		},
		{
			name:    "scanner user agent",
			targets: ThreatTargets{RequestLine: "GET / HTTP/1.1", UserAgent: "sqlmap/1.7"},
			want:    []CategoryHit{{Category: ThreatSuspiciousAgent, Field: "user_agent"}},
		},
		{
			name:    "clean page request",
			targets: ThreatTargets{RequestLine: "GET /about HTTP/1.1", UserAgent: "Mozilla/5.0 Chrome/120.0"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchThreats(tt.targets)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchThreatsOneHitPerCategory(t *testing.T) {
	// Multiple SQL injection patterns in one request still yield a single
	// SQL Injection hit.
	got := MatchThreats(ThreatTargets{
		RequestLine: "GET /items?id=1' OR 1=1 UNION SELECT * FROM users-- HTTP/1.1",
	})

	var sqlHits int
	for _, hit := range got {
		if hit.Category == ThreatSQLInjection {
			sqlHits++
		}
	}
	assert.Equal(t, 1, sqlHits)
}
