package types

type RowStatus string

const (
	RowStatusSuccess RowStatus = "Success"
	RowStatusFailed  RowStatus = "Failed"
)

type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

const ReportDateLayout = "2006-01-02"

type ReportRow struct {
	Datastack       string    `json:"datastack" yaml:"datastack"`
	Server          string    `json:"server" yaml:"server"`
	ServerVersion   string    `json:"server_version" yaml:"server_version"`
	ExpectedVersion int       `json:"expected_version" yaml:"expected_version"`
	LatestVersion   int       `json:"latest_version" yaml:"latest_version"`
	LatestTimestamp string    `json:"latest_timestamp" yaml:"latest_timestamp"`
	DaysOld         int       `json:"days_old" yaml:"days_old"`
	Status          RowStatus `json:"status" yaml:"status"`
	ServerOutdated  bool      `json:"server_outdated,omitempty" yaml:"server_outdated,omitempty"`
}

func (r ReportRow) Succeeded() bool {
	return r.Status == RowStatusSuccess
}

type AuditReport struct {
	RunID       string      `json:"run_id" yaml:"run_id"`
	Title       string      `json:"title" yaml:"title"`
	GeneratedOn string      `json:"generated_on" yaml:"generated_on"`
	Enumerated  int         `json:"enumerated" yaml:"enumerated"`
	Omitted     int         `json:"omitted" yaml:"omitted"`
	Rows        []ReportRow `json:"rows" yaml:"rows"`
}

func (r AuditReport) FailedCount() int {
	count := 0
	for _, row := range r.Rows {
		if !row.Succeeded() {
			count++
		}
	}
	return count
}
