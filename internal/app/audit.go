package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"materialization-audit/internal/adapters"
	"materialization-audit/internal/core"
	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

type checkOutcome struct {
	record types.VersionRecord
	err    error
}

// Audit enumerates datastacks, checks each one and reduces the results into
// a report ordered like the enumeration. Enumeration failures abort the
// audit; a failed check only drops that datastack from the report.
func (s Service) Audit(ctx context.Context, req AuditRequest) (AuditResult, error) {
	policy, err := core.NewServerVersionPolicy(req.MinServerVersion)
	if err != nil {
		return AuditResult{}, err
	}
	today := timeNow(s.Clock)
	runID := s.runID()
	logger := log.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	config := auditConfig(req)
	lister, resolver := s.auditPorts(req, config)
	progress := s.progress()

	enumerator := core.NewDatastackEnumerator(lister, config)
	enumerator.Progress = progress
	datastacks, err := enumerator.Enumerate(ctx)
	if err != nil {
		return AuditResult{}, err
	}
	if len(datastacks) == 0 {
		logger.Warn().Msg("no datastacks to audit")
	}

	checker := core.NewStalenessChecker(resolver)
	outcomes := checkAll(ctx, checker, datastacks, req.Workers, progress)

	report := types.AuditReport{
		RunID:       runID,
		Title:       adapters.DefaultReportTitle,
		GeneratedOn: today.Format(types.ReportDateLayout),
		Enumerated:  len(datastacks),
		Rows:        []types.ReportRow{},
	}
	var omitted []OmittedDatastack
	for i, outcome := range outcomes {
		if outcome.err != nil {
			kind, _ := core.CheckErrorKindOf(outcome.err)
			logger.Debug().
				Str("datastack", string(datastacks[i])).
				Str("kind", string(kind)).
				Err(outcome.err).
				Msg("datastack omitted")
			omitted = append(omitted, OmittedDatastack{
				Datastack: datastacks[i],
				Kind:      kind,
				Err:       outcome.err,
			})
			continue
		}
		row := buildRow(outcome.record, today, policy)
		if row.ServerOutdated {
			logger.Warn().
				Str("datastack", row.Datastack).
				Str("server_version", row.ServerVersion).
				Msg("server version below minimum")
		}
		report.Rows = append(report.Rows, row)
	}
	report.Omitted = len(omitted)

	logger.Info().
		Int("datastacks", report.Enumerated).
		Int("rows", len(report.Rows)).
		Int("failed", report.FailedCount()).
		Int("omitted", report.Omitted).
		Msg("audit completed")
	return AuditResult{Report: report, Omitted: omitted}, nil
}

// ListDatastacks runs only the enumeration step of an audit.
func (s Service) ListDatastacks(ctx context.Context, req AuditRequest) ([]types.DatastackID, error) {
	config := auditConfig(req)
	lister, _ := s.auditPorts(req, config)
	enumerator := core.NewDatastackEnumerator(lister, config)
	enumerator.Progress = s.progress()
	return enumerator.Enumerate(ctx)
}

// StaleError reports a failed precondition when any audited datastack has
// not promoted its latest version.
func (r AuditResult) StaleError() error {
	failed := r.Report.FailedCount()
	if failed == 0 {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("stale datastacks detected: %d of %d", failed, len(r.Report.Rows)))
}

// checkAll runs the checker once per datastack. With more than one worker
// the checks run concurrently; outcomes stay at their enumeration index.
func checkAll(ctx context.Context, checker core.StalenessChecker, datastacks []types.DatastackID, workers int, progress ports.ProgressPort) []checkOutcome {
	outcomes := make([]checkOutcome, len(datastacks))
	progress.Start("Checking datastacks", len(datastacks))
	defer progress.Finish()

	if workers <= 1 {
		for i, datastack := range datastacks {
			record, err := checker.Check(ctx, datastack)
			outcomes[i] = checkOutcome{record: record, err: err}
			progress.Increment()
		}
		return outcomes
	}

	var group errgroup.Group
	group.SetLimit(workers)
	for i, datastack := range datastacks {
		i, datastack := i, datastack
		group.Go(func() error {
			record, err := checker.Check(ctx, datastack)
			outcomes[i] = checkOutcome{record: record, err: err}
			progress.Increment()
			return nil
		})
	}
	_ = group.Wait()
	return outcomes
}

func buildRow(record types.VersionRecord, today time.Time, policy core.ServerVersionPolicy) types.ReportRow {
	status := types.RowStatusFailed
	if record.Success {
		status = types.RowStatusSuccess
	}
	return types.ReportRow{
		Datastack:       string(record.Datastack),
		Server:          record.ServerEndpoint,
		ServerVersion:   record.ServerVersionLabel,
		ExpectedVersion: record.LatestExpectedVersion,
		LatestVersion:   record.LatestActiveVersion,
		LatestTimestamp: record.LatestTimestamp.Format(types.ReportDateLayout),
		DaysOld:         core.DaysOld(today, record.LatestTimestamp),
		Status:          status,
		ServerOutdated:  policy.Outdated(record.ServerVersionLabel),
	}
}

func auditConfig(req AuditRequest) types.AuditConfig {
	return types.AuditConfig{
		Servers:           types.ServerEndpoints(cleanValues(req.Servers)),
		DatastackOverride: types.DatastackIDs(cleanValues(req.Datastacks)),
	}
}

func (s Service) auditPorts(req AuditRequest, config types.AuditConfig) (ports.DatastackListerPort, ports.ClientResolverPort) {
	lister := s.Lister
	resolver := s.Resolver
	if lister != nil && resolver != nil {
		return lister, resolver
	}
	transport := adapters.NewHTTPTransport(req.HTTPTimeoutSec, req.RateLimit, req.RateBurst, req.AuthToken)
	if lister == nil {
		lister = adapters.NewCAVEInfoAdapter(transport)
	}
	if resolver == nil {
		resolver = adapters.NewCAVEClientResolverAdapter(transport, config.Servers)
	}
	return lister, resolver
}

func (s Service) progress() ports.ProgressPort {
	if s.Progress == nil {
		return adapters.NoopProgressAdapter{}
	}
	return s.Progress
}

func (s Service) runID() string {
	if s.NewRunID == nil {
		return ""
	}
	return s.NewRunID()
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}

func cleanValues(values []string) []string {
	var cleaned []string
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}
