package core

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

// StalenessChecker compares the latest active materialization of a datastack
// with the latest one it produced, expired versions included.
type StalenessChecker struct {
	Resolver ports.ClientResolverPort
}

func NewStalenessChecker(resolver ports.ClientResolverPort) StalenessChecker {
	return StalenessChecker{Resolver: resolver}
}

// Check returns a VersionRecord or a *CheckError. Every failure, whatever
// the step, ends the check; no partial record is produced.
func (c StalenessChecker) Check(ctx context.Context, datastack types.DatastackID) (types.VersionRecord, error) {
	if strings.TrimSpace(string(datastack)) == "" {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorResolve, "resolve client",
			errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("datastack is empty"))
	}
	if c.Resolver == nil {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorResolve, "resolve client",
			errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("client resolver is required"))
	}
	client, err := c.Resolver.Resolve(ctx, datastack)
	if err != nil {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorResolve, "resolve client", err)
	}

	active, err := client.ListVersions(ctx, false)
	if err != nil {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorFetch, "list versions", err)
	}
	expected, err := client.ListVersions(ctx, true)
	if err != nil {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorFetch, "list expired versions", err)
	}
	latestActive, latestExpected, err := ReduceVersions(active, expected)
	if err != nil {
		kind := CheckErrorMalformed
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			kind = CheckErrorNoVersions
		}
		return types.VersionRecord{}, newCheckError(datastack, kind, "reduce versions", err)
	}

	timestamp, err := client.GetTimestamp(ctx, latestActive)
	if err != nil {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorFetch, "get timestamp", err)
	}
	if timestamp.IsZero() {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorMalformed, "get timestamp",
			errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("version timestamp is empty"))
	}
	serverVersion, err := client.ServerVersion(ctx)
	if err != nil {
		return types.VersionRecord{}, newCheckError(datastack, CheckErrorFetch, "get server version", err)
	}

	record := types.VersionRecord{
		Datastack:             datastack,
		ServerEndpoint:        client.ServerEndpoint(),
		ServerVersionLabel:    serverVersion,
		LatestActiveVersion:   latestActive,
		LatestExpectedVersion: latestExpected,
		LatestTimestamp:       timestamp,
		Success:               latestActive == latestExpected,
	}
	assert.Assert(ctx, record.LatestExpectedVersion >= record.LatestActiveVersion,
		"expected version must not trail active version")
	assert.Assert(ctx, record.Success == (record.LatestActiveVersion == record.LatestExpectedVersion),
		"success must mean active equals expected")
	log.Ctx(ctx).Debug().
		Str("datastack", string(datastack)).
		Int("active", latestActive).
		Int("expected", latestExpected).
		Bool("success", record.Success).
		Msg("datastack checked")
	return record, nil
}
