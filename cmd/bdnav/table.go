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

// tableView is a titled grid of string cells with an optional footer row.
type tableView struct {
	Title   string
	Headers []string
	Aligns  []columnAlignment
	Rows    [][]string
	Footer  []string
}

func (v tableView) row(cells []string) table.Row {
	r := make(table.Row, len(v.Headers))
	for i := range r {
		if i < len(cells) {
			r[i] = cells[i]
		}
	}
	return r
}

func (v tableView) Render() string {
	if len(v.Headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if v.Title != "" {
		tw.SetTitle(v.Title)
	}
	tw.AppendHeader(v.row(v.Headers))
	for _, cells := range v.Rows {
		tw.AppendRow(v.row(cells))
	}
	if len(v.Footer) > 0 {
		tw.AppendFooter(v.row(v.Footer))
	}

	configs := make([]table.ColumnConfig, 0, len(v.Headers))
	for i := range v.Headers {
		align := text.AlignLeft
		if i < len(v.Aligns) && v.Aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
