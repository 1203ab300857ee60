package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/buildinfo"
	"github.com/aalvaropc/cpstool/internal/infra/logger"
)

// globalOpts holds the persistent flags shared by every subcommand.
type globalOpts struct {
	debug     bool
	workspace string

	ws      *workspaceCtx
	cleanup func() error
}

func (o *globalOpts) close() {
	if o.cleanup != nil {
		_ = o.cleanup()
		o.cleanup = nil
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, opts := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	opts.close()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *globalOpts) {
	opts := &globalOpts{}

	cmd := &cobra.Command{
		Use:          "cpstool",
		Short:        "cpstool: batch editing and result extraction for COPASI models",
		Version:      buildinfo.String(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts.workspace)
			if err != nil {
				return err
			}
			opts.ws = ws

			cleanup, lerr := logger.Setup(logger.Config{Root: ws.root, Debug: opts.debug})
			switch {
			case lerr != nil:
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: no log file: %v\n", lerr)
			case opts.debug:
				opts.cleanup = cleanup
				fmt.Fprintf(cmd.ErrOrStderr(), "debug log: %s\n", logger.Path())
			default:
				opts.cleanup = cleanup
			}
			logger.L().Debug("workspace.resolved", "root", ws.root, "found", ws.found)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to .cpstool/logs/cpstool.log")
	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		initCmd(),
		validateCmd(opts),
		targetCmd(opts),
		batchCmd(opts),
		extractCmd(opts),
		tabulateCmd(opts),
		summarizeCmd(opts),
		versionCmd(),
	)
	return cmd, opts
}
