package main

import (
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"adscraper/internal/pipeline"
)

// renderSummary lists every advertiser with its ad count and outcome.
func renderSummary(result pipeline.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Advertiser", "ID", "Ads", "Duration", "Status"})

	for _, s := range result.Stats {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}

		tw.AppendRow(table.Row{s.Name, s.ID, strconv.Itoa(s.Ads), s.Duration.Round(time.Millisecond).String(), status})
	}

	tw.AppendFooter(table.Row{"Total", "", strconv.Itoa(len(result.Ads)), "", strconv.Itoa(result.Failed()) + " failed"})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
