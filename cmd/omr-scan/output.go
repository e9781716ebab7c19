package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-tools/internal/omr"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// Exit codes for scan failures. Anything else exits 1.
const (
	exitFailure             = 1
	exitNotFound            = 3
	exitInsufficientCorners = 4
	exitAlignmentFailure    = 5
	exitCodeNotFound        = 6
	exitMalformedMetadata   = 7
	exitGeometryError       = 8
)

func exitCode(err error) int {
	switch omr.KindOf(err) {
	case omr.KindNotFound:
		return exitNotFound
	case omr.KindInsufficientCorners:
		return exitInsufficientCorners
	case omr.KindAlignmentFailure:
		return exitAlignmentFailure
	case omr.KindCodeNotFound:
		return exitCodeNotFound
	case omr.KindMalformedMetadata:
		return exitMalformedMetadata
	case omr.KindGeometryError:
		return exitGeometryError
	}
	return exitFailure
}
