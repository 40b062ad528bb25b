package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"comicrenamer/internal/identification"
	"comicrenamer/internal/logging"
	"comicrenamer/internal/organizer"
	"comicrenamer/internal/services"
)

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
	for i := range columns {
		header[i] = headers[i]
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

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func entryResultLabel(entry organizer.EntryResult) string {
	switch {
	case entry.State == organizer.StateRenamed && entry.Unchanged:
		return "unchanged"
	case entry.State == organizer.StateRenamed && entry.Planned:
		return "planned"
	case entry.State == organizer.StateRenamed:
		return "renamed"
	case entry.Cause == organizer.StateUnresolved:
		return "unresolved"
	default:
		return "failed"
	}
}

func renderSummary(summary organizer.Summary) string {
	rows := make([][]string, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		rows = append(rows, []string{
			entry.Name,
			entryResultLabel(entry),
			entry.NewName,
			services.Kind(entry.Err),
		})
	}
	var b strings.Builder
	if len(rows) > 0 {
		b.WriteString(renderTable([]string{"Entry", "Result", "New name", "Reason"}, rows, nil))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d entries: %d renamed, %d unchanged, %d unresolved, %d failed",
		summary.Total, summary.Renamed, summary.Unchanged, summary.Unresolved, summary.Failed)
	if summary.DryRun {
		fmt.Fprintf(&b, " (dry run, %d planned)", summary.Planned)
	}
	return b.String()
}

func renderFields(fields identification.ResolvedFields) string {
	rows := make([][]string, 0, len(identification.AllFields))
	for _, field := range identification.AllFields {
		value, ok := fields.Get(field)
		if !ok {
			value = "-"
		}
		rows = append(rows, []string{field.Placeholder(), value})
	}
	return renderTable([]string{"Placeholder", "Value"}, rows, nil)
}

func renderIssues(events []logging.LogEvent) string {
	rows := make([][]string, 0, len(events))
	for _, evt := range events {
		entry := evt.Entry
		if entry == "" {
			entry = "-"
		}
		rows = append(rows, []string{entry, strings.ToLower(evt.Level), evt.Message, evt.Fields[logging.FieldReason]})
	}
	return "Issues:\n" + renderTable([]string{"Entry", "Level", "Message", "Reason"}, rows, nil)
}
