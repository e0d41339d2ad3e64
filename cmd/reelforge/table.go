package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableOption func(map[int]table.ColumnConfig)

// withMaxWidth wraps the zero-based column at width characters.
func withMaxWidth(column, width int) tableOption {
	return func(configs map[int]table.ColumnConfig) {
		cfg := configs[column]
		cfg.WidthMax = width
		cfg.WidthMaxEnforcer = text.WrapSoft
		configs[column] = cfg
	}
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, opts ...tableOption) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make(map[int]table.ColumnConfig, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	for _, opt := range opts {
		opt(configs)
	}
	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		columnConfigs = append(columnConfigs, configs[i])
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
