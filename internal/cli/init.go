package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/infra/fsworkspace"
	"github.com/aalvaropc/cpstool/internal/infra/logger"
	"github.com/aalvaropc/cpstool/internal/usecase"
)

func initCmd() *cobra.Command {
	var path, copasi, runner string
	var jobs int
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a cpstool workspace (cpstool.yaml, models/, results/, runs/)",
		Example: `  cpstool init
  cpstool init --path ~/scans --copasi /opt/copasi/bin/CopasiSE --jobs 32`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer(), logger.L())
			rep, err := uc.Execute(domain.WorkspaceSpec{
				Root:    root,
				Copasi:  copasi,
				Runner:  domain.RunnerKind(runner),
				MaxJobs: jobs,
				Force:   force,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Workspace ready at %s\n", rep.Root)
			for _, p := range rep.Created {
				fmt.Fprintf(w, "  created %s\n", p)
			}
			for _, p := range rep.Kept {
				fmt.Fprintf(w, "  kept    %s (use --force to replace)\n", p)
			}
			if len(rep.Gitignore) > 0 {
				fmt.Fprintf(w, "  ignored %d generated paths in .gitignore\n", len(rep.Gitignore))
			}
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "Directory to initialize")
	c.Flags().BoolVar(&force, "force", false, "Replace an existing cpstool.yaml")
	c.Flags().StringVarP(&copasi, "copasi", "c", "", "CopasiSE executable to record in cpstool.yaml")
	c.Flags().StringVar(&runner, "runner", "", "Default task runner: parallel|local")
	c.Flags().IntVarP(&jobs, "jobs", "p", 0, "Default maximum simultaneous simulations")
	return c
}
