package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/alexnews/gunlog/internal/cli"
	"github.com/alexnews/gunlog/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	ctx := kong.Parse(&c,
		kong.Name("gunlog"),
		kong.Description("gunlog: web server log analytics\n\nSTART HERE: gunlog analyze -p list_projects.csv"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"config_format": cfg.Format,
		},
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		fmt.Fprintf(os.Stderr, "gunlog: %v\n", err)
		os.Exit(1)
	}
}
