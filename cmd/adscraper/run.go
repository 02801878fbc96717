package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"adscraper/internal/config"
	"adscraper/internal/crawler"
	"adscraper/internal/exporter"
	"adscraper/internal/formatter"
	"adscraper/internal/logger"
	"adscraper/internal/normalizer"
	"adscraper/internal/pipeline"
	"adscraper/internal/store"
)

var errNoAdvertisers = errors.New("no valid advertisers found")

type options struct {
	SettingsPath    string
	AdvertisersPath string
	OutputPath      string
	ReportPath      string
	MaxPages        *int
}

func run(ctx context.Context, opts options, stdout io.Writer, log *logger.Logger) error {
	cfg, err := config.LoadConfig(opts.SettingsPath)
	if err != nil {
		return fmt.Errorf("load settings from %s: %w", opts.SettingsPath, err)
	}

	if cfg.Logging.Level != "" {
		log.SetLevel(cfg.Logging.Level)
	}

	if opts.MaxPages != nil {
		if *opts.MaxPages < 0 {
			return config.ErrInvalidMaxPages
		}

		cfg.MaxPages = *opts.MaxPages
	}

	if opts.OutputPath != "" {
		cfg.Output.Path = opts.OutputPath
	}

	if opts.ReportPath != "" {
		cfg.Output.ReportPath = opts.ReportPath
	}

	log.Debug("Loaded settings", "settings", cfg.String())

	advertisers, err := crawler.LoadAdvertisers(opts.AdvertisersPath, log)
	if err != nil {
		return fmt.Errorf("load advertisers from %s: %w", opts.AdvertisersPath, err)
	}

	if len(advertisers) == 0 {
		return fmt.Errorf("%w in %s", errNoAdvertisers, opts.AdvertisersPath)
	}

	runner := pipeline.NewRunner(crawler.NewFetcher(cfg, log), normalizer.NewProcessor(), cfg.Workers(), log)
	result := runner.Run(ctx, advertisers)

	finalPath, err := exporter.NewJSONExporter(cfg.Output.Path, log).Export(ctx, result.Ads)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if cfg.Output.SQLitePath != "" {
		if err := mirror(ctx, cfg.Output.SQLitePath, result, log); err != nil {
			return err
		}
	}

	if cfg.Output.ReportPath != "" {
		if err := formatter.WriteReport(cfg.Output.ReportPath, result.Ads); err != nil {
			return err
		}

		log.Info("Report written", "path", cfg.Output.ReportPath)
	}

	fmt.Fprintln(stdout, renderSummary(result))
	fmt.Fprintf(stdout, "%d ads written to %s\n", len(result.Ads), finalPath)

	log.Info("Scrape completed successfully", "path", finalPath)

	return nil
}

func mirror(ctx context.Context, path string, result pipeline.Result, log *logger.Logger) error {
	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open sqlite mirror: %w", err)
	}
	defer db.Close()

	n, err := db.SaveAds(ctx, result.Ads)
	if err != nil {
		return fmt.Errorf("mirror ads to sqlite: %w", err)
	}

	log.Info("Mirrored ads to SQLite", "count", n, "path", path)

	return nil
}
