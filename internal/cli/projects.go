package cli

import (
	"github.com/olekukonko/tablewriter"

	"github.com/alexnews/gunlog/internal/config"
	"github.com/alexnews/gunlog/internal/output"
)

// ProjectsCmd lists the configured projects
type ProjectsCmd struct {
	Projects string `short:"p" help:"Project list CSV (default from config)"`
}

// Run executes the projects command
func (c *ProjectsCmd) Run(globals *Globals) error {
	path := c.Projects
	if path == "" {
		path = globals.Config.Defaults.Projects
	}

	projects, err := config.LoadProjects(path)
	if err != nil {
		return err
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, p := range projects {
			if err := w.WriteProject(p); err != nil {
				return err
			}
		}
		return nil
	}

	t := tablewriter.NewWriter(globals.Stdout)
	t.Header("Project", "Access log", "Error log")
	for _, p := range projects {
		t.Append([]string{p.Name, p.AccessLog, p.ErrorLog})
	}
	t.Render()
	return nil
}
