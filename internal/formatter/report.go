// Package formatter renders normalized ads as a signed Markdown report.
package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"adscraper/internal/models"
	"adscraper/pkg/metadata"
)

var reportHeader = []string{"Advertiser", "Ad ID", "Format", "Variations", "YouTube IDs"}

// RenderReport builds the Markdown report for ads, signed with a metadata block.
func RenderReport(ads []models.Ad) string {
	var sb strings.Builder

	sb.WriteString("# Ads Transparency Export\n\n")

	advertisers := make(map[string]struct{})
	for _, ad := range ads {
		advertisers[ad.AdvertiserID] = struct{}{}
	}

	fmt.Fprintf(&sb, "%d ads from %d advertisers.\n", len(ads), len(advertisers))

	if len(ads) > 0 {
		rows := make([][]string, 0, len(ads))

		for i := range ads {
			ad := &ads[i]
			rows = append(rows, []string{
				fmt.Sprintf("%s (%s)", ad.AdvertiserName, ad.AdvertiserID),
				ad.AdID,
				ad.Format,
				strconv.Itoa(len(ad.Variations)),
				strings.Join(ad.YouTubeIDs(), ", "),
			})
		}

		sb.WriteString("\n")
		sb.WriteString(strings.Join(alignTable(reportHeader, rows), "\n"))
		sb.WriteString("\n")
	}

	return metadata.Sign(sb.String(), len(ads))
}

// WriteReport renders ads and writes the report to path.
func WriteReport(path string, ads []models.Ad) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(RenderReport(ads)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// alignTable pads every column to its widest cell by display width.
func alignTable(header []string, rows [][]string) []string {
	widths := make([]int, len(header))

	measure := func(cells []string) {
		for i, cell := range cells {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = escapeCell(rows[i][j])
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	// separator needs at least three dashes
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	separator := make([]string, len(header))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	lines := []string{formatRow(header, widths), formatRow(separator, widths)}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths))
	}

	return lines
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for i, w := range widths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}

		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, w))
		sb.WriteString(" |")
	}

	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")

	return strings.ReplaceAll(s, "|", `\|`)
}
