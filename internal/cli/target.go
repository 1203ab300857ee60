package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/infra/logger"
	"github.com/aalvaropc/cpstool/internal/usecase"
	"github.com/aalvaropc/cpstool/internal/usecase/batch"
	"github.com/aalvaropc/cpstool/internal/usecase/target"
)

func targetCmd(opts *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "target",
		Short: "Edit the optimization target of a model",
	}
	c.AddCommand(targetSetCmd(), targetItemCmd(), targetParamCmd(), targetMCACmd(opts))
	return c
}

func targetSetCmd() *cobra.Command {
	var task, out, typ, method string
	var maximize, minimize bool

	c := &cobra.Command{
		Use:   "set <model.cps> [expression]",
		Short: "Replace the objective expression, MCA array type or direction",
		Example: `  cpstool target set model.cps '<CN=Root,Model=M,Vector=Values[J],Reference=Value>'
  cpstool target set model.cps --type uFCC --maximize -o model_ufcc.cps
  cpstool target set model.cps --method EP`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maximize && minimize {
				return fmt.Errorf("--maximize and --minimize are mutually exclusive")
			}

			req := usecase.TargetRequest{
				ModelPath: args[0],
				OutPath:   out,
				Task:      task,
				Type:      domain.TargetType(typ),
			}
			if len(args) == 2 {
				req.Expression = args[1]
			}
			if method != "" {
				m, err := target.ParseMethod(method)
				if err != nil {
					return err
				}
				req.Method = m
			}
			switch {
			case maximize:
				req.Maximize = &maximize
			case minimize:
				f := false
				req.Maximize = &f
			}

			res, err := usecase.NewSetTarget().Execute(req)
			if err != nil {
				return err
			}
			logger.L().Info("target.set", "model", args[0], "out", res.Path, "objective", res.Objective)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Path, res.Objective)
			return nil
		},
	}

	c.Flags().StringVar(&task, "task", "", "Optimization task name (required when the model has several)")
	c.Flags().StringVarP(&out, "output", "o", "", "Write the edited model here instead of in place")
	c.Flags().StringVar(&typ, "type", "", "MCA array: CCC|FCC|E|uCCC|uFCC|uE")
	c.Flags().BoolVar(&maximize, "maximize", false, "Maximize the target")
	c.Flags().BoolVar(&minimize, "minimize", false, "Minimize the target")
	c.Flags().StringVar(&method, "method", "", "Optimization method with its standard settings: EP|PS")
	return c
}

func targetItemCmd() *cobra.Command {
	var task, out string
	var it target.Item
	var del bool

	c := &cobra.Command{
		Use:   "item <model.cps> <name[:parameter]>",
		Short: "Change the bounds and start value of an optimization item, or delete it",
		Long: `The item is addressed by the bracketed name of its object: a global
quantity, species or compartment (Vmax), or a reaction with one of its
kinetic parameters (R1:k1).`,
		Example: `  cpstool target item model.cps R1:k1 --lower 1e-6 --start 0.1 --upper 10
  cpstool target item model.cps Vmax --delete`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds := it.Lower != "" || it.Start != "" || it.Upper != ""
			if del == bounds {
				return fmt.Errorf("give --delete or at least one of --lower, --start, --upper")
			}

			req := usecase.TargetRequest{ModelPath: args[0], OutPath: out, Task: task}
			if del {
				req.DeleteItems = []string{args[1]}
			} else {
				name, param, err := target.ParseItemRef(args[1])
				if err != nil {
					return err
				}
				it.Name, it.Parameter = name, param
				req.Items = []target.Item{it}
			}

			res, err := usecase.NewSetTarget().Execute(req)
			if err != nil {
				return err
			}
			action := "updated"
			if del {
				action = "deleted"
			}
			logger.L().Info("target.item", "model", args[0], "out", res.Path, "item", args[1], "action", action)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: item %s %s\n", res.Path, args[1], action)
			return nil
		},
	}

	c.Flags().StringVar(&task, "task", "", "Optimization task name (required when the model has several)")
	c.Flags().StringVarP(&out, "output", "o", "", "Write the edited model here instead of in place")
	c.Flags().StringVar(&it.Lower, "lower", "", "Lower bound (number, -inf or an object reference)")
	c.Flags().StringVar(&it.Start, "start", "", "Start value")
	c.Flags().StringVar(&it.Upper, "upper", "", "Upper bound (number, inf or an object reference)")
	c.Flags().BoolVar(&del, "delete", false, "Remove the item from the optimization")
	return c
}

func targetParamCmd() *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:     "param <model.cps> <reaction> <parameter> <value>",
		Short:   "Set a kinetic parameter of a reaction in every parameter set",
		Example: `  cpstool target param model.cps R1 k1 0.5 -o model_k1.cps`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return &domain.OpError{Op: "cli.target_param", Kind: domain.KindInvalidArgument,
					Subject: args[3], Err: fmt.Errorf("value is not a number")}
			}

			res, err := usecase.NewSetTarget().Execute(usecase.TargetRequest{
				ModelPath: args[0],
				OutPath:   out,
				Params:    []usecase.ParamChange{{Reaction: args[1], Parameter: args[2], Value: v}},
			})
			if err != nil {
				return err
			}
			logger.L().Info("target.param", "model", args[0], "out", res.Path,
				"reaction", args[1], "parameter", args[2], "values", res.ParamValues)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s.%s = %s (%d parameter sets)\n",
				res.Path, args[1], args[2], args[3], res.ParamValues)
			return nil
		},
	}

	c.Flags().StringVarP(&out, "output", "o", "", "Write the edited model here instead of in place")
	return c
}

func targetMCACmd(opts *globalOpts) *cobra.Command {
	var ro runOpts
	var task, base, pattern string
	var jobArray bool

	c := &cobra.Command{
		Use:   "mca <model.cps> <rows> <cols>",
		Short: "Create and run one optimization per MCA coefficient",
		Long: `Rows and columns are comma-separated lists of zero-based indices or
element names, or "all". For flux control coefficients the diagonal is
skipped. Each model reports to <base>_<row>_<col>.txt.`,
		Example: `  cpstool target mca model.cps all all --norun
  cpstool target mca model.cps 0,R3 PFK --jobarray -p 32`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Job array files are submitted to a cluster, not run here.
			if jobArray {
				ro.noRun = true
			}
			d, kind, err := opts.ws.dispatcher(ro)
			if err != nil {
				return err
			}

			uc := usecase.NewScanMCA(d, logger.L(), usecase.WithWarnings(cmd.ErrOrStderr()))
			m, err := uc.Execute(cmd.Context(), usecase.ScanRequest{
				ModelPath: args[0],
				Rows:      splitList(args[1]),
				Cols:      splitList(args[2]),
				Base:      base,
				Pattern:   pattern,
				Task:      task,
				JobArray:  jobArray,
				Runner:    kind,
				NoRun:     ro.noRun,
			})
			printManifest(cmd.OutOrStdout(), m)
			return err
		},
	}

	ro.bind(c)
	c.Flags().StringVar(&task, "task", "", "Optimization task name (required when the model has several)")
	c.Flags().StringVar(&base, "base", "", "Base name for generated files (default: model path without .cps)")
	c.Flags().StringVar(&pattern, "name", "", "File name pattern with {{base}} {{row}} {{col}} {{row_index}} {{col_index}} {{index}} (default "+batch.DefaultPairPattern+")")
	c.Flags().BoolVar(&jobArray, "jobarray", false, "Append a running index to every file name and only write the models (implies --norun)")
	return c
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
