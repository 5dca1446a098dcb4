package adapters

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

type ReportJSONWriter struct{}

type ReportYAMLWriter struct{}

func (ReportJSONWriter) Write(out io.Writer, report types.AuditReport) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(withRows(report)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write json report").
			WithCause(err)
	}
	return nil
}

func (ReportYAMLWriter) Write(out io.Writer, report types.AuditReport) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(withRows(report)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write yaml report").
			WithCause(err)
	}
	if err := encoder.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to flush yaml report").
			WithCause(err)
	}
	return nil
}

// withRows keeps an empty report encoding as an empty list instead of null.
func withRows(report types.AuditReport) types.AuditReport {
	if report.Rows == nil {
		report.Rows = []types.ReportRow{}
	}
	return report
}

func NewReportWriter(format string, noColor bool) (ports.ReportWriterPort, error) {
	switch types.OutputFormat(strings.ToLower(strings.TrimSpace(format))) {
	case "", types.OutputFormatTable:
		return NewReportTableWriter(noColor), nil
	case types.OutputFormatJSON:
		return ReportJSONWriter{}, nil
	case types.OutputFormatYAML:
		return ReportYAMLWriter{}, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported report format: " + format)
	}
}

var _ ports.ReportWriterPort = ReportJSONWriter{}
var _ ports.ReportWriterPort = ReportYAMLWriter{}
