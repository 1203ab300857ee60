package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/usecase"
	"github.com/aalvaropc/cpstool/internal/usecase/batch"
)

func batchCmd(opts *globalOpts) *cobra.Command {
	var ro runOpts
	var task, base, pattern string

	c := &cobra.Command{
		Use:   "batch <model.cps> <count>",
		Short: "Copy a model <count> times with separate report files and run the copies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return domain.Errorf("cli.batch", domain.KindInvalidArgument, "count %q is not a number", args[1])
			}

			d, kind, err := opts.ws.dispatcher(ro)
			if err != nil {
				return err
			}

			m, err := usecase.NewRunBatch(d).Execute(cmd.Context(), usecase.BatchRequest{
				ModelPath: args[0],
				Count:     count,
				Base:      base,
				Pattern:   pattern,
				Task:      task,
				Runner:    kind,
				NoRun:     ro.noRun,
			})
			printManifest(cmd.OutOrStdout(), m)
			return err
		},
	}

	ro.bind(c)
	c.Flags().StringVar(&task, "task", "", "Task whose report is redirected (default: the scheduled task)")
	c.Flags().StringVar(&base, "base", "", "Base name for generated files (default: model path without .cps)")
	c.Flags().StringVar(&pattern, "name", "", "File name pattern with {{base}} and {{index}} (default "+batch.DefaultPattern+")")
	return c
}

func printManifest(w io.Writer, m domain.BatchManifest) {
	if len(m.Variants) == 0 {
		return
	}
	th := defaultTheme()

	state := "written"
	if m.Dispatched {
		state = "dispatched"
		if m.Runner != "" {
			state += " via " + string(m.Runner)
		}
	}
	fmt.Fprintf(w, "%s %d model(s) %s\n", th.Title.Render(m.SourceModel), len(m.Variants), state)
	for _, v := range m.Variants {
		fmt.Fprintf(w, "  %s -> %s\n", v.ModelPath, th.Subtitle.Render(v.ReportPath))
	}
	if m.ID != "" {
		fmt.Fprintf(w, "Manifest: %s\n", m.ID)
	}
	if m.ExitError != "" {
		fmt.Fprintln(w, th.Warn.Render("runner failed: "+m.ExitError))
	}
}
