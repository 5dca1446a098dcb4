package adapters

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// OpenReportOutput returns stdout for "" and "-", otherwise a freshly created
// file. The returned close func is always safe to call.
func OpenReportOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0755); err != nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	file, err := os.Create(trimmed)
	if err != nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report file").
			WithCause(err)
	}
	return file, file.Close, nil
}
