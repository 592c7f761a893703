package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexnews/gunlog/internal/gen"
)

// GenCmd writes a synthetic access log
type GenCmd struct {
	Lines      int    `short:"n" help:"Access log lines to generate (default from config)"`
	Days       int    `short:"d" help:"Time span in days ending now (default from config)"`
	Seed       uint64 `default:"1" help:"Random seed; the same seed reproduces the same log"`
	Out        string `short:"o" help:"Access log output file (default stdout)"`
	ErrorOut   string `help:"Also write a PHP error log to this file"`
	ErrorLines int    `default:"50" help:"Error log lines when --error-out is set"`
}

// Run executes the gen command
func (c *GenCmd) Run(globals *Globals) error {
	lines := c.Lines
	if lines <= 0 {
		lines = globals.Config.Defaults.Lines
	}
	days := c.Days
	if days <= 0 {
		days = globals.Config.Defaults.Days
	}

	opts := gen.Options{Lines: lines, Days: days, End: time.Now()}
	g := gen.New(c.Seed)

	var w io.Writer = globals.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Out, err)
		}
		defer f.Close()
		w = f
	}
	if err := g.WriteAccessLog(w, opts); err != nil {
		return err
	}

	if c.ErrorOut != "" {
		f, err := os.Create(c.ErrorOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.ErrorOut, err)
		}
		defer f.Close()
		if err := g.WriteErrorLog(f, c.ErrorLines, opts); err != nil {
			return err
		}
	}

	globals.Debug("generated %d lines over %d days", lines, days)
	return nil
}
