package pipeline

import "fmt"

// SourceError marks a project's log source as unavailable. It fails that
// project's run only; other projects continue.
type SourceError struct {
	Project string
	Path    string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("project %s: source %s unavailable: %v", e.Project, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ConfigError marks the run configuration itself as unusable. Nothing
// can proceed; the whole run fails.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
