package metrics

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alexnews/gunlog/internal/domain"
)

// phpErrorPattern matches PHP error lines in a web server error log.
// Groups: message, file path, line number.
var phpErrorPattern = regexp.MustCompile(`PHP (?:Warning|Notice|Error|Fatal error|Parse error):\s+(.*?) in (.*?) on line (\d+)`)

// errorLogTimeLayout is the bracketed Apache error-log timestamp, e.g.
// "[Tue Oct 10 13:55:36 2023]".
const errorLogTimeLayout = "Mon Jan _2 15:04:05 2006"

// ErrorAggregator tallies PHP errors from a project's error log.
type ErrorAggregator struct {
	stats *domain.ErrorStats
	lines int
}

// NewErrorAggregator creates an empty error aggregator.
func NewErrorAggregator() *ErrorAggregator {
	return &ErrorAggregator{
		stats: &domain.ErrorStats{
			ByMessage: make(map[string]int),
			ByDay:     make(map[string]int),
		},
	}
}

// ObserveLine feeds one raw error-log line into the aggregator. Lines
// that are not PHP errors are counted but otherwise ignored.
func (a *ErrorAggregator) ObserveLine(line string) {
	a.lines++

	m := phpErrorPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	msg := strings.TrimSpace(m[1])
	file := strings.TrimSpace(m[2])
	lineNum := strings.TrimSpace(m[3])

	a.stats.TotalErrors++
	key := msg + " in " + filepath.Base(file) + " on line " + lineNum
	a.stats.ByMessage[key]++

	if day, ok := errorLineDay(line); ok {
		a.stats.ByDay[day]++
	}
}

// errorLineDay extracts the YYYY-MM-DD day from the line's leading
// bracketed timestamp.
func errorLineDay(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") {
		return "", false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", false
	}
	t, err := time.Parse(errorLogTimeLayout, line[1:end])
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// Lines returns how many error-log lines were read.
func (a *ErrorAggregator) Lines() int {
	return a.lines
}

// Finalize computes the unique error count. The returned stats must not
// be modified afterwards.
func (a *ErrorAggregator) Finalize() *domain.ErrorStats {
	a.stats.UniqueErrors = len(a.stats.ByMessage)
	return a.stats
}
