package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexnews/gunlog/internal/domain"
)

func TestReadProjects(t *testing.T) {
	t.Run("parses rows and trims whitespace", func(t *testing.T) {
		csv := strings.Join([]string{
			"project, log_file, error_log_file",
			"example.com, /var/log/example/access.log, /var/log/example/error.log",
			"shop.example.com, /var/log/shop/access.log,",
		}, "\n")

		projects, err := readProjects(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, projects, 2)

		assert.Equal(t, domain.Project{
			Name:      "example.com",
			AccessLog: "/var/log/example/access.log",
			ErrorLog:  "/var/log/example/error.log",
		}, projects[0])
		assert.Equal(t, "shop.example.com", projects[1].Name)
		assert.Empty(t, projects[1].ErrorLog)
	})

	t.Run("skips incomplete rows", func(t *testing.T) {
		csv := strings.Join([]string{
			"project,log_file,error_log_file",
			",missing-name.log,",
			"no-access.example,,",
			"ok.example,/var/log/ok/access.log,",
		}, "\n")

		projects, err := readProjects(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "ok.example", projects[0].Name)
	})

	t.Run("accepts reordered columns", func(t *testing.T) {
		csv := strings.Join([]string{
			"error_log_file,project,log_file",
			"/var/log/e.log,example.com,/var/log/a.log",
		}, "\n")

		projects, err := readProjects(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "/var/log/e.log", projects[0].ErrorLog)
		assert.Equal(t, "/var/log/a.log", projects[0].AccessLog)
	})

	t.Run("rejects missing project column", func(t *testing.T) {
		_, err := readProjects(strings.NewReader("name,log_file\nfoo,bar"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing "project" column`)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		_, err := readProjects(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestLoadProjects(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list_projects.csv")
		content := "project,log_file,error_log_file\nexample.com,/var/log/a.log,/var/log/e.log\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		projects, err := LoadProjects(path)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "example.com", projects[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProjects("/nonexistent/list_projects.csv")
		require.Error(t, err)
	})
}
