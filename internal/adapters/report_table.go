package adapters

import (
	"io"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

const DefaultReportTitle = "Materialization Check Results"
const columnGap = "  "

var reportColumns = []string{
	"Datastack",
	"Server",
	"Server Version",
	"Expected Version",
	"Latest Version",
	"Latest Timestamp",
	"Days Old",
	"Status",
}

// ReportTableWriter renders the audit as an aligned console table. Successful
// rows are green, failed rows bold red.
type ReportTableWriter struct {
	NoColor bool
}

func NewReportTableWriter(noColor bool) ReportTableWriter {
	return ReportTableWriter{NoColor: noColor}
}

func (w ReportTableWriter) Write(out io.Writer, report types.AuditReport) error {
	cells := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		cells = append(cells, reportCells(row))
	}
	widths := columnWidths(reportColumns, cells)
	success := w.style(color.FgGreen)
	failure := w.style(color.FgRed, color.Bold)
	header := w.style(color.Bold)

	title := strings.TrimSpace(report.Title)
	if title == "" {
		title = DefaultReportTitle
	}
	var builder strings.Builder
	builder.WriteString(centerText(title, tableWidth(widths)))
	builder.WriteString("\n")
	builder.WriteString(formatTableLine(reportColumns, widths, header))
	builder.WriteString("\n")
	builder.WriteString(ruleLine(widths))
	builder.WriteString("\n")
	for i, row := range report.Rows {
		style := success
		if !row.Succeeded() {
			style = failure
		}
		builder.WriteString(formatTableLine(cells[i], widths, style))
		builder.WriteString("\n")
	}
	if _, err := io.WriteString(out, builder.String()); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report table").
			WithCause(err)
	}
	return nil
}

func (w ReportTableWriter) style(attrs ...color.Attribute) *color.Color {
	style := color.New(attrs...)
	if w.NoColor {
		style.DisableColor()
	} else {
		style.EnableColor()
	}
	return style
}

func reportCells(row types.ReportRow) []string {
	serverVersion := row.ServerVersion
	if row.ServerOutdated {
		serverVersion += " (outdated)"
	}
	return []string{
		row.Datastack,
		row.Server,
		serverVersion,
		strconv.Itoa(row.ExpectedVersion),
		strconv.Itoa(row.LatestVersion),
		row.LatestTimestamp,
		strconv.Itoa(row.DaysOld),
		string(row.Status),
	}
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, name := range header {
		widths[i] = runewidth.StringWidth(name)
	}
	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}
	return widths
}

func tableWidth(widths []int) int {
	total := 0
	for _, width := range widths {
		total += width
	}
	if len(widths) > 1 {
		total += len(columnGap) * (len(widths) - 1)
	}
	return total
}

// formatTableLine pads before styling so escape codes never count
// towards the column width.
func formatTableLine(cells []string, widths []int, style *color.Color) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		padding := widths[i] - runewidth.StringWidth(cell)
		if padding < 0 {
			padding = 0
		}
		parts[i] = style.Sprint(cell) + strings.Repeat(" ", padding)
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}

func ruleLine(widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width)
	}
	return strings.Join(parts, columnGap)
}

func centerText(text string, width int) string {
	textWidth := runewidth.StringWidth(text)
	if textWidth >= width {
		return text
	}
	return strings.Repeat(" ", (width-textWidth)/2) + text
}

var _ ports.ReportWriterPort = ReportTableWriter{}
