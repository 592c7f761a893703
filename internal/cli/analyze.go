package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexnews/gunlog/internal/config"
	"github.com/alexnews/gunlog/internal/domain"
	"github.com/alexnews/gunlog/internal/output"
	"github.com/alexnews/gunlog/internal/pipeline"
)

// AnalyzeCmd runs the full analysis pipeline over the project list
type AnalyzeCmd struct {
	Projects    string   `short:"p" help:"Project list CSV (default from config)"`
	Concurrency int      `short:"c" help:"Projects analyzed in parallel (default from config)"`
	Only        []string `help:"Restrict the run to these project names"`
}

// Run executes the analyze command
func (c *AnalyzeCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := c.Projects
	if path == "" {
		path = globals.Config.Defaults.Projects
	}
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = globals.Config.Defaults.Concurrency
	}

	projects, err := config.LoadProjects(path)
	if err != nil {
		return err
	}
	projects = c.filterProjects(projects)
	if len(projects) == 0 {
		return fmt.Errorf("no projects to analyze in %s", path)
	}

	logger := globals.Logger()
	defer logger.Sync()

	runner := pipeline.NewRunner(logger, pipeline.WithConcurrency(concurrency))

	started := time.Now()
	results, err := runner.Run(ctx, projects)
	if err != nil {
		return err
	}

	if globals.Format == "ndjson" {
		return c.writeNDJSON(globals, results, started)
	}
	return c.writeText(globals, results)
}

func (c *AnalyzeCmd) filterProjects(projects []domain.Project) []domain.Project {
	if len(c.Only) == 0 {
		return projects
	}
	wanted := make(map[string]bool, len(c.Only))
	for _, name := range c.Only {
		wanted[name] = true
	}
	var kept []domain.Project
	for _, p := range projects {
		if wanted[p.Name] {
			kept = append(kept, p)
		}
	}
	return kept
}

func (c *AnalyzeCmd) writeNDJSON(globals *Globals, results []pipeline.ProjectResult, started time.Time) error {
	w := output.NewNDJSONWriter(globals.Stdout)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			if err := w.WriteProjectError(res.Project, res.Err); err != nil {
				return err
			}
			continue
		}
		if err := w.WriteSnapshot(res.Snapshot); err != nil {
			return err
		}
	}
	return w.WriteRunSummary(time.Now(), len(results), failed, time.Since(started))
}

func (c *AnalyzeCmd) writeText(globals *Globals, results []pipeline.ProjectResult) error {
	colored := false
	if f, ok := globals.Stdout.(*os.File); ok {
		colored = output.ColorEnabled(f)
	}
	reporter := output.NewTextReporter(colored)

	var failures []error
	for _, res := range results {
		if res.Err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", res.Project, res.Err))
			fmt.Fprintf(globals.Stderr, "project %s failed: %v\n", res.Project, res.Err)
			continue
		}
		if err := reporter.Render(globals.Stdout, res.Snapshot); err != nil {
			return err
		}
	}
	if len(failures) == len(results) && len(failures) > 0 {
		return errors.Join(failures...)
	}
	return nil
}
