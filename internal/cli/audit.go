package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"materialization-audit/internal/adapters"
	"materialization-audit/internal/app"
	"materialization-audit/internal/ports"
)

var defaultServers = []string{
	string(adapters.DefaultGlobalServer),
	"https://globalv1.em.brain.allentech.org",
}

type connectionOptions struct {
	Servers        []string
	Datastacks     []string
	AuthToken      string
	HTTPTimeoutSec int
	RateLimit      float64
	RateBurst      int
	NoProgress     bool
}

type auditOptions struct {
	connectionOptions
	Format           string
	Output           string
	Workers          int
	MinServerVersion string
	FailOnStale      bool
	NoColor          bool
}

func newAuditCommand() *cobra.Command {
	opts := auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check every datastack for a stale materialization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd.Context(), cmd, opts)
		},
	}
	addConnectionFlags(cmd, &opts.connectionOptions)
	cmd.Flags().StringVar(&opts.Format, "format", "table", "Report format (table, json, or yaml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "Report output path (- for stdout)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "Datastacks checked in parallel (1 = sequential)")
	cmd.Flags().StringVar(&opts.MinServerVersion, "min-server-version", "", "Flag materialization servers older than this version")
	cmd.Flags().BoolVar(&opts.FailOnStale, "fail-on-stale", false, "Exit non-zero when any datastack is stale")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable coloured table rows")

	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("min_server_version", cmd.Flags().Lookup("min-server-version"))
	_ = viper.BindPFlag("fail_on_stale", cmd.Flags().Lookup("fail-on-stale"))
	_ = viper.BindPFlag("no_color", cmd.Flags().Lookup("no-color"))

	return cmd
}

func addConnectionFlags(cmd *cobra.Command, opts *connectionOptions) {
	cmd.Flags().StringSliceVar(&opts.Servers, "server", defaultServers, "Global CAVE server to enumerate datastacks from (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Datastacks, "datastack", nil, "Audit only these datastacks instead of enumerating servers")
	cmd.Flags().StringVar(&opts.AuthToken, "auth-token", "", "CAVE bearer token")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP timeout in seconds (0 = default)")
	cmd.Flags().Float64Var(&opts.RateLimit, "rate-limit", 0, "Maximum requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&opts.RateBurst, "rate-burst", 1, "Request burst size when rate limited")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "Disable progress output on stderr")

	_ = viper.BindPFlag("servers", cmd.Flags().Lookup("server"))
	_ = viper.BindPFlag("datastacks", cmd.Flags().Lookup("datastack"))
	_ = viper.BindPFlag("auth_token", cmd.Flags().Lookup("auth-token"))
	_ = viper.BindPFlag("http_timeout_sec", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("rate_limit", cmd.Flags().Lookup("rate-limit"))
	_ = viper.BindPFlag("rate_burst", cmd.Flags().Lookup("rate-burst"))
	_ = viper.BindPFlag("no_progress", cmd.Flags().Lookup("no-progress"))
}

func runAudit(ctx context.Context, cmd *cobra.Command, opts auditOptions) error {
	output := resolveString(cmd, opts.Output, "output", "output")
	noColor := resolveBool(cmd, opts.NoColor, "no_color", "no-color") || !writesToTerminal(output)
	writer, err := adapters.NewReportWriter(resolveString(cmd, opts.Format, "format", "format"), noColor)
	if err != nil {
		return err
	}

	service := newAppService(cmd, opts.connectionOptions)
	req := connectionRequest(cmd, opts.connectionOptions)
	req.Workers = resolveInt(cmd, opts.Workers, "workers", "workers")
	req.MinServerVersion = resolveString(cmd, opts.MinServerVersion, "min_server_version", "min-server-version")

	ctx = log.Logger.WithContext(ctx)
	result, err := service.Audit(ctx, req)
	if err != nil {
		return err
	}

	out, closeOutput, err := adapters.OpenReportOutput(output, os.Stdout)
	if err != nil {
		return err
	}
	if err := writer.Write(out, result.Report); err != nil {
		_ = closeOutput()
		return err
	}
	if err := closeOutput(); err != nil {
		return err
	}
	if output != "" && output != "-" {
		log.Info().Str("path", output).Msg("wrote report")
	}

	if resolveBool(cmd, opts.FailOnStale, "fail_on_stale", "fail-on-stale") {
		return result.StaleError()
	}
	return nil
}

func connectionRequest(cmd *cobra.Command, opts connectionOptions) app.AuditRequest {
	return app.AuditRequest{
		Servers:        resolveStrings(cmd, opts.Servers, "servers", "server"),
		Datastacks:     resolveStrings(cmd, opts.Datastacks, "datastacks", "datastack"),
		AuthToken:      resolveString(cmd, opts.AuthToken, "auth_token", "auth-token"),
		HTTPTimeoutSec: resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout_sec", "http-timeout"),
		RateLimit:      resolveFloat(cmd, opts.RateLimit, "rate_limit", "rate-limit"),
		RateBurst:      resolveInt(cmd, opts.RateBurst, "rate_burst", "rate-burst"),
	}
}

func newAppService(cmd *cobra.Command, opts connectionOptions) app.Service {
	service := app.NewService()
	service.Progress = newProgress(resolveBool(cmd, opts.NoProgress, "no_progress", "no-progress"))
	return service
}

func newProgress(disabled bool) ports.ProgressPort {
	if disabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return adapters.NoopProgressAdapter{}
	}
	return adapters.NewTerminalProgressAdapter(os.Stderr)
}

func writesToTerminal(output string) bool {
	if output != "" && output != "-" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
