package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorAggregator(t *testing.T) {
	a := NewErrorAggregator()

	a.ObserveLine(`[Tue Oct 10 13:55:36 2023] PHP Warning:  Undefined variable $user in /var/www/html/index.php on line 42`)
	a.ObserveLine(`[Tue Oct 10 14:02:11 2023] PHP Warning:  Undefined variable $user in /var/www/html/index.php on line 42`)
	a.ObserveLine(`[Wed Oct 11 09:15:00 2023] PHP Fatal error:  Call to undefined function render() in /var/www/html/lib/view.php on line 7`)
	a.ObserveLine(`plain line without a PHP error`)

	stats := a.Finalize()
	assert.Equal(t, 3, stats.TotalErrors)
	assert.Equal(t, 2, stats.UniqueErrors)
	assert.Equal(t, 2, stats.ByMessage["Undefined variable $user in index.php on line 42"])
	assert.Equal(t, 1, stats.ByMessage["Call to undefined function render() in view.php on line 7"])
	assert.Equal(t, 2, stats.ByDay["2023-10-10"])
	assert.Equal(t, 1, stats.ByDay["2023-10-11"])
	assert.Equal(t, 4, a.Lines())
}

func TestErrorAggregatorNoTimestamp(t *testing.T) {
	a := NewErrorAggregator()

	a.ObserveLine(`PHP Notice:  Trying to access array offset in /srv/app.php on line 3`)

	stats := a.Finalize()
	assert.Equal(t, 1, stats.TotalErrors)
	assert.Empty(t, stats.ByDay)
}
