package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/alexnews/gunlog/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleAccessLog = `203.0.113.1 - - [10/Oct/2023:13:55:36 +0200] "GET / HTTP/1.1" 200 5120 "-" "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0" 0.132
203.0.113.1 - - [10/Oct/2023:13:56:01 +0200] "GET /pricing HTTP/1.1" 200 2048 "https://www.google.com/search?q=widgets" "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0" 0.201
66.249.66.1 - - [10/Oct/2023:14:00:00 +0200] "GET / HTTP/1.1" 200 5120 "-" "Mozilla/5.0 (compatible; Googlebot/2.1)" 0.090
203.0.113.66 - - [10/Oct/2023:14:01:00 +0200] "GET /items?id=1 UNION SELECT password FROM users HTTP/1.1" 403 128 "-" "sqlmap/1.7" 0.050
192.168.1.5 - - [10/Oct/2023:14:02:00 +0200] "GET /internal HTTP/1.1" 200 256 "-" "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0" 0.010
not a log line at all
203.0.113.2 - - [not-a-timestamp] "GET /broken HTTP/1.1" 200 100 "-" "Mozilla/5.0 (X11; Linux x86_64)" 0.020
`

const sampleErrorLog = `[Tue Oct 10 13:55:36 2023] PHP Warning:  Undefined variable $cart in /var/www/shop/cart.php on line 12
[Tue Oct 10 13:58:00 2023] PHP Warning:  Undefined variable $cart in /var/www/shop/cart.php on line 12
noise line
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunnerAnalyzesProject(t *testing.T) {
	dir := t.TempDir()
	access := writeFile(t, dir, "access.log", sampleAccessLog)
	errorLog := writeFile(t, dir, "error.log", sampleErrorLog)

	runner := NewRunner(zap.NewNop())
	results, err := runner.Run(context.Background(), []domain.Project{
		{Name: "shop", AccessLog: access, ErrorLog: errorLog},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.NoError(t, res.Err)
	require.NotNil(t, res.Snapshot)

	d := res.Snapshot.Diagnostics
	assert.Equal(t, 7, d.LinesRead)
	assert.Equal(t, 5, d.LinesMatched)
	assert.Equal(t, 1, d.ParseErrors)
	assert.Equal(t, 1, d.TimestampErrors)
	assert.Equal(t, 1, d.InternalIPSkips)
	assert.Equal(t, 3, d.ErrorLogLines)

	traffic := res.Snapshot.Traffic
	assert.Equal(t, 4, traffic.TotalHits) // internal IP excluded
	assert.Equal(t, 1, traffic.BotHits)
	assert.Equal(t, 1, traffic.SearchEngines["google"])

	assert.Equal(t, 5, res.Snapshot.Performance.TotalRequests)
	assert.Equal(t, 1, res.Snapshot.Security.AttackTypes["SQL Injection"])
	assert.Equal(t, 1, res.Snapshot.SEO.BotsByEngine["Googlebot"])
	assert.Equal(t, 2, res.Snapshot.Errors.TotalErrors)
	assert.Equal(t, 1, res.Snapshot.Errors.UniqueErrors)
}

func TestRunnerDropsTimestampFailedRecords(t *testing.T) {
	dir := t.TempDir()
	access := writeFile(t, dir, "access.log", `203.0.113.1 - - [10/Oct/2023:13:55:36 +0200] "GET /ok HTTP/1.1" 200 100 "-" "Mozilla/5.0 (X11; Linux x86_64)" 0.020
203.0.113.2 - - [not-a-timestamp] "GET /broken HTTP/1.1" 200 100 "-" "Mozilla/5.0 (X11; Linux x86_64)" 0.020
`)

	runner := NewRunner(zap.NewNop())
	results, err := runner.Run(context.Background(), []domain.Project{
		{Name: "shop", AccessLog: access},
	})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	snap := results[0].Snapshot

	assert.Equal(t, 1, snap.Diagnostics.TimestampErrors)
	assert.Equal(t, 1, snap.Diagnostics.LinesMatched)

	// A record without a usable time never reaches any aggregate.
	assert.Equal(t, 1, snap.Traffic.TotalHits)
	assert.Equal(t, 1, snap.Performance.TotalRequests)
	assert.Contains(t, snap.Traffic.Pages, "/ok")
	assert.NotContains(t, snap.Traffic.Pages, "/broken")
}

func TestRunnerReadsGzippedLogs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleAccessLog))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	runner := NewRunner(zap.NewNop())
	results, err := runner.Run(context.Background(), []domain.Project{
		{Name: "shop", AccessLog: path},
	})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 7, results[0].Snapshot.Diagnostics.LinesRead)
}

func TestRunnerIsolatesFailedProjects(t *testing.T) {
	dir := t.TempDir()
	access := writeFile(t, dir, "access.log", sampleAccessLog)

	runner := NewRunner(zap.NewNop())
	results, err := runner.Run(context.Background(), []domain.Project{
		{Name: "broken", AccessLog: filepath.Join(dir, "missing.log")},
		{Name: "shop", AccessLog: access},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var srcErr *SourceError
	require.ErrorAs(t, results[0].Err, &srcErr)
	assert.Equal(t, "broken", srcErr.Project)
	assert.Nil(t, results[0].Snapshot)

	require.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Snapshot)
}

func TestRunnerMissingErrorLogIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	access := writeFile(t, dir, "access.log", sampleAccessLog)

	runner := NewRunner(zap.NewNop())
	results, err := runner.Run(context.Background(), []domain.Project{
		{Name: "shop", AccessLog: access, ErrorLog: filepath.Join(dir, "no-such-error.log")},
	})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Zero(t, results[0].Snapshot.Errors.TotalErrors)
}

func TestRunnerNoProjectsIsConfigError(t *testing.T) {
	runner := NewRunner(zap.NewNop())
	_, err := runner.Run(context.Background(), nil)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRunnerSnapshotsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	access := writeFile(t, dir, "access.log", sampleAccessLog)
	project := []domain.Project{{Name: "shop", AccessLog: access}}

	mock := clock.NewMock()
	mock.Set(time.Date(2023, 10, 11, 0, 0, 0, 0, time.UTC))

	run := func() *domain.MetricsSnapshot {
		runner := NewRunner(zap.NewNop(), WithClock(mock))
		results, err := runner.Run(context.Background(), project)
		require.NoError(t, err)
		require.NoError(t, results[0].Err)
		return results[0].Snapshot
	}

	assert.Equal(t, run(), run())
}

func TestRunnerHonorsCancelledContext(t *testing.T) {
	dir := t.TempDir()
	// Enough lines to hit the cancellation checkpoint.
	var sb strings.Builder
	for i := 0; i < 20001; i++ {
		sb.WriteString(`203.0.113.1 - - [10/Oct/2023:13:55:36 +0200] "GET / HTTP/1.1" 200 100 "-" "UA" 0.001` + "\n")
	}
	access := writeFile(t, dir, "access.log", sb.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(zap.NewNop())
	_, err := runner.Run(ctx, []domain.Project{{Name: "shop", AccessLog: access}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
