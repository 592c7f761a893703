package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorRoutesAndCounts(t *testing.T) {
	a := NewAggregator("shop")

	a.CountLine()
	a.ObserveAccess(rec("203.0.113.1", "/", 0))

	a.CountLine()
	internal := rec("192.168.1.10", "/admin-panel", time.Minute)
	a.ObserveAccess(internal)

	a.CountLine()
	a.CountParseError()

	a.ObserveErrorLine(`PHP Notice:  Oops in /srv/a.php on line 1`)

	snap := a.Finalize(time.Date(2023, 10, 11, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "shop", snap.Project)
	require.NotNil(t, snap.Traffic)

	// Internal traffic is invisible to the traffic and security domains
	// but still measured for performance.
	assert.Equal(t, 1, snap.Traffic.TotalHits)
	assert.Equal(t, 1, snap.Security.TotalRequests)
	assert.Equal(t, 2, snap.Performance.TotalRequests)

	d := snap.Diagnostics
	assert.Equal(t, 3, d.LinesRead)
	assert.Equal(t, 2, d.LinesMatched)
	assert.Equal(t, 1, d.ParseErrors)
	assert.Equal(t, 1, d.InternalIPSkips)
	assert.Equal(t, 1, d.ErrorLogLines)
	assert.Equal(t, 1, snap.Errors.TotalErrors)
}

func TestAggregatorSnapshotIsRepeatable(t *testing.T) {
	build := func() interface{} {
		a := NewAggregator("shop")
		a.ObserveAccess(rec("203.0.113.1", "/a", 0))
		a.ObserveAccess(rec("203.0.113.1", "/b", time.Minute))
		a.ObserveAccess(rec("203.0.113.2", "/a", 2*time.Minute))
		return a.Finalize(time.Date(2023, 10, 11, 0, 0, 0, 0, time.UTC))
	}

	assert.Equal(t, build(), build())
}
