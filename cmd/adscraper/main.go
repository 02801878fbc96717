// Package main provides the adscraper command-line tool.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"adscraper/internal/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		logger.NewLogger("error").Error("adscraper failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.Command {
	var verbosity int

	return &cli.Command{
		Name:                   "adscraper",
		Usage:                  "Normalize Google Ads Transparency advertiser samples into JSON",
		Writer:                 stdout,
		UseShortOptionHandling: true,
		Commands:               []*cli.Command{verifyCommand()},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Value: "config/settings.example.json", Usage: "path to settings file (.json, .yaml, .toml)"},
			&cli.StringFlag{Name: "advertisers", Value: "data/advertisers.sample.json", Usage: "path to advertisers JSON file"},
			&cli.StringFlag{Name: "output", Usage: "output JSON path (overrides output.path)"},
			&cli.IntFlag{Name: "max-pages", Usage: "max pages per advertiser, 0 means unlimited (overrides maxPages)"},
			&cli.StringFlag{Name: "report", Usage: "Markdown report path (overrides output.reportPath)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "increase log verbosity (-vv for debug)", Config: cli.BoolConfig{Count: &verbosity}},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := options{
				SettingsPath:    c.String("settings"),
				AdvertisersPath: c.String("advertisers"),
				OutputPath:      c.String("output"),
				ReportPath:      c.String("report"),
			}

			if c.IsSet("max-pages") {
				maxPages := c.Int("max-pages")
				opts.MaxPages = &maxPages
			}

			log := logger.NewLogger(logger.LevelFromVerbosity(verbosity))

			return run(ctx, opts, c.Root().Writer, log)
		},
	}
}
