package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/alexnews/gunlog/internal/domain"
)

// topRows bounds each ranked table in the text report.
const topRows = 10

// TextReporter renders snapshots as human-readable tables.
type TextReporter struct {
	colored bool
}

// NewTextReporter creates a reporter. Styling is applied only when
// colored is true.
func NewTextReporter(colored bool) *TextReporter {
	return &TextReporter{colored: colored}
}

func (r *TextReporter) styled(style interface{ Render(...string) string }, text string) string {
	if !r.colored {
		return text
	}
	return style.Render(text)
}

// Render writes the full report for one snapshot.
func (r *TextReporter) Render(w io.Writer, snap *domain.MetricsSnapshot) error {
	fmt.Fprintln(w, r.styled(Styles.Header, "Project: "+snap.Project))
	fmt.Fprintln(w)

	r.renderOverview(w, snap)
	r.renderTopPages(w, snap.Traffic)
	r.renderThreats(w, snap.Security)
	r.renderIssues(w, snap.SEO)
	r.renderDiagnostics(w, snap.Diagnostics)
	return nil
}

func (r *TextReporter) renderOverview(w io.Writer, snap *domain.MetricsSnapshot) {
	t := tablewriter.NewWriter(w)
	t.Header("Metric", "Value")

	traffic := snap.Traffic
	t.Append([]string{"Total hits", strconv.Itoa(traffic.TotalHits)})
	t.Append([]string{"Unique visitors", strconv.Itoa(traffic.UniqueVisitors)})
	t.Append([]string{"Bot hits", strconv.Itoa(traffic.BotHits)})
	t.Append([]string{"Sessions", strconv.Itoa(traffic.TotalSessions)})
	t.Append([]string{"Bounce rate", fmt.Sprintf("%.1f%%", traffic.BounceRate)})
	if perf := snap.Performance; perf != nil && perf.ResponseTimes != nil {
		t.Append([]string{"Median response time", fmt.Sprintf("%.3fs", perf.ResponseTimes.Median)})
		t.Append([]string{"p95 response time", fmt.Sprintf("%.3fs", perf.ResponseTimes.P95)})
	}
	t.Append([]string{"Security score", r.styled(scoreStyle(snap.Security.Score), fmt.Sprintf("%d (%s)", snap.Security.Score, snap.Security.Status))})
	t.Append([]string{"SEO score", r.styled(scoreStyle(snap.SEO.Score), fmt.Sprintf("%d (%s)", snap.SEO.Score, snap.SEO.Status))})
	t.Render()
	fmt.Fprintln(w)
}

func (r *TextReporter) renderTopPages(w io.Writer, traffic *domain.TrafficStats) {
	if len(traffic.Pages) == 0 {
		return
	}
	fmt.Fprintln(w, r.styled(Styles.Header, "Top pages"))

	t := tablewriter.NewWriter(w)
	t.Header("URL", "Hits")
	for _, e := range topCounts(traffic.Pages, topRows) {
		t.Append([]string{e.key, strconv.Itoa(e.count)})
	}
	t.Render()
	fmt.Fprintln(w)
}

func (r *TextReporter) renderThreats(w io.Writer, sec *domain.SecurityStats) {
	if len(sec.AttackTypes) == 0 {
		return
	}
	fmt.Fprintln(w, r.styled(Styles.Danger, "Detected attacks"))

	t := tablewriter.NewWriter(w)
	t.Header("Category", "Count")
	for _, e := range topCounts(sec.AttackTypes, topRows) {
		t.Append([]string{e.key, strconv.Itoa(e.count)})
	}
	t.Render()
	fmt.Fprintln(w)
}

func (r *TextReporter) renderIssues(w io.Writer, seo *domain.SEOStats) {
	if len(seo.Issues) == 0 {
		return
	}
	fmt.Fprintln(w, r.styled(Styles.Warning, "SEO issues"))

	t := tablewriter.NewWriter(w)
	t.Header("Type", "URL", "Details")
	for i, issue := range seo.Issues {
		if i == topRows {
			break
		}
		t.Append([]string{issue.Type, issue.URL, issue.Details})
	}
	t.Render()
	fmt.Fprintln(w)
}

func (r *TextReporter) renderDiagnostics(w io.Writer, d domain.Diagnostics) {
	fmt.Fprintln(w, r.styled(Styles.Label, fmt.Sprintf(
		"lines=%d matched=%d parse_errors=%d timestamp_errors=%d internal_skips=%d",
		d.LinesRead, d.LinesMatched, d.ParseErrors, d.TimestampErrors, d.InternalIPSkips)))
}

// countEntry is a ranked counting-map entry.
type countEntry struct {
	key   string
	count int
}

// topCounts ranks a counting map by count descending, key ascending.
func topCounts(m map[string]int, n int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, countEntry{key: k, count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
