package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"adscraper/pkg/metadata"
)

var errMissingReportPath = errors.New("report path is required")

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-report",
		Usage: "Check that a generated Markdown report matches its metadata hash",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path", UsageText: "report.md"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return verifyReport(c.StringArg("path"), c.Root().Writer)
		},
	}
}

func verifyReport(path string, stdout io.Writer) error {
	if path == "" {
		return errMissingReportPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	if _, err := metadata.Verify(string(content)); err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}

	meta, _ := metadata.Extract(string(content))
	fmt.Fprintf(stdout, "%s: valid (%d records, generated %s)\n", path, meta.Records, meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	return nil
}
