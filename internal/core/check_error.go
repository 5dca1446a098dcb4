package core

import (
	"errors"
	"fmt"

	"materialization-audit/internal/types"
)

type CheckErrorKind string

const (
	CheckErrorResolve    CheckErrorKind = "resolve"
	CheckErrorFetch      CheckErrorKind = "fetch"
	CheckErrorNoVersions CheckErrorKind = "no_versions"
	CheckErrorMalformed  CheckErrorKind = "malformed"
)

// CheckError explains why a datastack was left out of the report.
type CheckError struct {
	Datastack types.DatastackID
	Kind      CheckErrorKind
	Step      string
	Err       error
}

func (e *CheckError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("check %s: %s failed (%s)", e.Datastack, e.Step, e.Kind)
	}
	return fmt.Sprintf("check %s: %s failed (%s): %v", e.Datastack, e.Step, e.Kind, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

func newCheckError(datastack types.DatastackID, kind CheckErrorKind, step string, err error) *CheckError {
	return &CheckError{
		Datastack: datastack,
		Kind:      kind,
		Step:      step,
		Err:       err,
	}
}

// CheckErrorKindOf reports the kind of a CheckError anywhere in err's chain.
func CheckErrorKindOf(err error) (CheckErrorKind, bool) {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Kind, true
	}
	return "", false
}
