package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/infra/logger"
	"github.com/aalvaropc/cpstool/internal/usecase"
)

func validateCmd(opts *globalOpts) *cobra.Command {
	var task string
	var format string

	c := &cobra.Command{
		Use:   "validate <model.cps>",
		Short: "Check that a model loads and its optimization target is unambiguous",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := usecase.NewValidateModel(opts.ws.cfg)
			info, err := uc.Execute(args[0], task)
			if err != nil {
				return err
			}
			if !info.Tested {
				logger.L().Warn("copasi.version.untested", "model", info.Path, "version", info.Version)
			}
			return printModelInfo(cmd.OutOrStdout(), info, format)
		},
	}

	c.Flags().StringVar(&task, "task", "", "Optimization task name (required when the model has several)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printModelInfo(w io.Writer, info usecase.ModelInfo, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "pretty", "":
		th := defaultTheme()
		tested := th.OK.Render("tested")
		if !info.Tested {
			tested = th.Warn.Render("untested")
		}
		fmt.Fprintln(w, th.Title.Render(info.Title))
		fmt.Fprintf(w, "Path:         %s\n", info.Path)
		fmt.Fprintf(w, "COPASI:       %s (%s)\n", info.Version, tested)
		fmt.Fprintf(w, "Compartments: %d\n", info.Compartments)
		fmt.Fprintf(w, "Metabolites:  %d %s\n", len(info.Metabolites), th.Subtitle.Render(strings.Join(info.Metabolites, ", ")))
		fmt.Fprintf(w, "Reactions:    %d %s\n", len(info.Reactions), th.Subtitle.Render(strings.Join(info.Reactions, ", ")))
		fmt.Fprintf(w, "Objective:    %s\n", info.Objective)
		if info.MCAType != "" {
			fmt.Fprintf(w, "MCA type:     %s\n", info.MCAType)
		}
		fmt.Fprintf(w, "Report:       %s\n", info.ReportTarget)
		fmt.Fprintln(w, th.OK.Render("OK"))
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}
