package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexnews/gunlog/internal/domain"
)

// Project list CSV columns. The header row is required; column order
// does not matter.
const (
	columnProject  = "project"
	columnAccess   = "log_file"
	columnErrorLog = "error_log_file"
)

// LoadProjects reads the project list CSV. Rows without a project name
// or an access log path are skipped; the error log column is optional.
func LoadProjects(path string) ([]domain.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project list: %w", err)
	}
	defer f.Close()

	return readProjects(f)
}

func readProjects(r io.Reader) ([]domain.Project, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("project list: empty file")
		}
		return nil, fmt.Errorf("project list: read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns[columnProject]; !ok {
		return nil, fmt.Errorf("project list: missing %q column", columnProject)
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var projects []domain.Project
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("project list: %w", err)
		}

		p := domain.Project{
			Name:      field(row, columnProject),
			AccessLog: field(row, columnAccess),
			ErrorLog:  field(row, columnErrorLog),
		}
		if p.Name == "" || p.AccessLog == "" {
			continue
		}
		projects = append(projects, p)
	}

	return projects, nil
}
