package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type datastacksOptions struct {
	connectionOptions
}

func newDatastacksCommand() *cobra.Command {
	opts := datastacksOptions{}
	cmd := &cobra.Command{
		Use:   "datastacks",
		Short: "List the datastacks an audit would check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDatastacks(cmd.Context(), cmd, opts)
		},
	}
	addConnectionFlags(cmd, &opts.connectionOptions)
	return cmd
}

func runDatastacks(ctx context.Context, cmd *cobra.Command, opts datastacksOptions) error {
	service := newAppService(cmd, opts.connectionOptions)
	ctx = log.Logger.WithContext(ctx)
	datastacks, err := service.ListDatastacks(ctx, connectionRequest(cmd, opts.connectionOptions))
	if err != nil {
		return err
	}
	for _, datastack := range datastacks {
		fmt.Fprintln(cmd.OutOrStdout(), datastack)
	}
	return nil
}
