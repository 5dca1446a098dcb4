package ports

import (
	"io"

	"materialization-audit/internal/types"
)

type ReportWriterPort interface {
	Write(w io.Writer, report types.AuditReport) error
}

// ProgressPort receives coarse progress updates for one named phase.
type ProgressPort interface {
	Start(phase string, total int)
	Increment()
	Finish()
}
