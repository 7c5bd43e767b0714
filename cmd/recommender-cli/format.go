package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", width, cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// tableView is the table rendering of a command result.
type tableView struct {
	headers []string
	rows    [][]string
}

// output renders v in the selected format. quiet lists the values printed one
// per line in quiet mode; table is used for table mode and JSON otherwise.
func output(w io.Writer, v any, table *tableView, quiet ...string) error {
	switch flagFmt {
	case "quiet":
		for _, q := range quiet {
			fmt.Fprintln(w, q)
		}
		return nil
	case "table":
		if table != nil {
			formatTable(w, table.headers, table.rows)
			return nil
		}
		return formatJSON(w, v)
	case "json", "":
		return formatJSON(w, v)
	default:
		return fmt.Errorf("unknown format %q (want json, table or quiet)", flagFmt)
	}
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
