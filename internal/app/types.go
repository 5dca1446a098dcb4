package app

import (
	"materialization-audit/internal/core"
	"materialization-audit/internal/types"
)

type AuditRequest struct {
	Servers          []string
	Datastacks       []string
	AuthToken        string
	Workers          int
	HTTPTimeoutSec   int
	RateLimit        float64
	RateBurst        int
	MinServerVersion string
}

type OmittedDatastack struct {
	Datastack types.DatastackID
	Kind      core.CheckErrorKind
	Err       error
}

type AuditResult struct {
	Report  types.AuditReport
	Omitted []OmittedDatastack
}
