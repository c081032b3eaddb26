package ui

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Output formats accepted by Table.RenderFormat
const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// TableColumn represents a column in the table
type TableColumn struct {
	Header   string
	MaxWidth int    // wrap cells wider than this; 0 means no limit
	Align    string // "left", "right", "center"
}

// Table represents a data table
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates a new table with specified columns
func NewTable(columns []TableColumn) *Table {
	return &Table{
		Columns: columns,
		Rows:    [][]string{},
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells []string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) writer(styled bool) table.Writer {
	columns := len(t.Columns)

	tw := table.NewWriter()
	if styled {
		tw.SetStyle(table.StyleRounded)
		tw.Style().Format.Header = text.FormatDefault
		tw.Style().Color.Header = text.Colors{text.Bold}
	}

	header := make(table.Row, columns)
	for i, col := range t.Columns {
		header[i] = col.Header
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
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
	for i, col := range t.Columns {
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       alignment(col.Align),
			AlignHeader: text.AlignLeft,
		}
		if styled && col.MaxWidth > 0 {
			cfg.WidthMax = col.MaxWidth
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	return tw
}

// Render renders the table for a terminal
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}
	return t.writer(true).Render()
}

// RenderFormat renders the table as "table", "csv" or "markdown"
func (t *Table) RenderFormat(format string) (string, error) {
	if len(t.Columns) == 0 {
		return "", nil
	}
	switch strings.ToLower(format) {
	case "", FormatTable:
		return t.writer(true).Render(), nil
	case FormatCSV:
		return t.writer(false).RenderCSV(), nil
	case FormatMarkdown:
		return t.writer(false).RenderMarkdown(), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, csv or markdown)", format)
	}
}

func alignment(align string) text.Align {
	switch align {
	case "right":
		return text.AlignRight
	case "center":
		return text.AlignCenter
	default:
		return text.AlignLeft
	}
}

// RenderSimpleList renders a simple bulleted list
func RenderSimpleList(items []string) string {
	var builder strings.Builder
	for _, item := range items {
		builder.WriteString(StyleInfo.Render("  • "))
		builder.WriteString(item)
		builder.WriteString("\n")
	}
	return builder.String()
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s",
		styleLabel.Render(key),
		value,
	)
}
