// Package output renders analysis results as NDJSON for machine
// consumers and as styled text for humans.
package output

import (
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/alexnews/gunlog/internal/domain"
)

// SchemaVersion is the current version of the NDJSON output schema.
// Increment this when making breaking changes to the output format.
const SchemaVersion = 1

// NDJSONWriter writes analysis results as NDJSON, one type-tagged
// object per line.
type NDJSONWriter struct {
	encoder *json.Encoder
}

// NewNDJSONWriter creates a writer targeting w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // URLs and queries stay readable
	return &NDJSONWriter{encoder: enc}
}

// SnapshotOutput wraps one project's metrics snapshot.
type SnapshotOutput struct {
	Type          string                  `json:"type"` // Always "snapshot"
	SchemaVersion int                     `json:"schemaVersion"`
	Snapshot      *domain.MetricsSnapshot `json:"snapshot"`
}

// ProjectErrorOutput reports a project whose analysis failed.
type ProjectErrorOutput struct {
	Type          string `json:"type"` // Always "project_error"
	SchemaVersion int    `json:"schemaVersion"`
	Project       string `json:"project"`
	Error         string `json:"error"`
}

// RunSummaryOutput closes a run with aggregate counts.
type RunSummaryOutput struct {
	Type          string `json:"type"` // Always "run_summary"
	SchemaVersion int    `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	Projects      int    `json:"projects"`
	Failed        int    `json:"failed"`
	DurationMS    int64  `json:"duration_ms"`
}

// ProjectOutput is one configured project, for machine consumers of
// the projects command.
type ProjectOutput struct {
	Type          string         `json:"type"` // Always "project"
	SchemaVersion int            `json:"schemaVersion"`
	Project       domain.Project `json:"project"`
}

// InfoOutput is an informational message for agents.
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// WriteSnapshot outputs one project snapshot.
func (w *NDJSONWriter) WriteSnapshot(snap *domain.MetricsSnapshot) error {
	return w.encoder.Encode(SnapshotOutput{
		Type:          "snapshot",
		SchemaVersion: SchemaVersion,
		Snapshot:      snap,
	})
}

// WriteProjectError outputs a per-project failure.
func (w *NDJSONWriter) WriteProjectError(project string, err error) error {
	return w.encoder.Encode(ProjectErrorOutput{
		Type:          "project_error",
		SchemaVersion: SchemaVersion,
		Project:       project,
		Error:         err.Error(),
	})
}

// WriteRunSummary outputs the closing run summary.
func (w *NDJSONWriter) WriteRunSummary(at time.Time, projects, failed int, took time.Duration) error {
	return w.encoder.Encode(RunSummaryOutput{
		Type:          "run_summary",
		SchemaVersion: SchemaVersion,
		Timestamp:     at.Format(time.RFC3339),
		Projects:      projects,
		Failed:        failed,
		DurationMS:    took.Milliseconds(),
	})
}

// WriteProject outputs one configured project.
func (w *NDJSONWriter) WriteProject(p domain.Project) error {
	return w.encoder.Encode(ProjectOutput{
		Type:          "project",
		SchemaVersion: SchemaVersion,
		Project:       p,
	})
}

// WriteInfo outputs an informational message.
func (w *NDJSONWriter) WriteInfo(message string) error {
	return w.encoder.Encode(InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}
