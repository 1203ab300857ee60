package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/infra/logger"
	"github.com/aalvaropc/cpstool/internal/infra/report"
	"github.com/aalvaropc/cpstool/internal/usecase"
)

const (
	concTableFile = "conc_table.tsv"
	fluxTableFile = "flux_table.tsv"
	summarySuffix = "_summary.txt"
)

func tabulateCmd(_ *globalOpts) *cobra.Command {
	var outDir string

	c := &cobra.Command{
		Use:   "tabulate <report.txt>...",
		Short: "Pivot steady-state reports into concentration and flux tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := usecase.NewTabulate(report.NewExtractor(), logger.L()).Execute(args)
			if err != nil {
				return err
			}
			for _, p := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: no steady state found, column left as %s\n", p, usecase.MissingCell)
			}

			for _, out := range []struct {
				name  string
				table usecase.Table
			}{{concTableFile, res.Conc}, {fluxTableFile, res.Flux}} {
				p, t := filepath.Join(outDir, out.name), out.table
				if err := writeTableFile(p, t); err != nil {
					return err
				}
				logger.L().Info("tabulate.written", "path", p, "rows", len(t.Rows))
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", p, len(t.Rows))
			}
			return nil
		},
	}

	c.Flags().StringVar(&outDir, "out-dir", ".", "Directory for conc_table.tsv and flux_table.tsv")
	return c
}

func summarizeCmd(_ *globalOpts) *cobra.Command {
	var outDir string

	c := &cobra.Command{
		Use:   "summarize <scan_row_col.txt>...",
		Short: "Collect MCA optimization objective values per scan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sums, err := usecase.NewSummarize(report.NewExtractor()).Execute(args)
			if err != nil {
				return err
			}

			for _, s := range sums {
				rows := make([][]string, 0, len(s.Lines))
				for _, l := range s.Lines {
					rows = append(rows, []string{l.Row, l.Col, l.Value})
				}
				p := filepath.Join(outDir, s.Scan+summarySuffix)
				if err := writeRowsFile(p, rows); err != nil {
					return err
				}
				logger.L().Info("summarize.written", "path", p, "lines", len(rows))
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d lines)\n", p, len(rows))
			}
			return nil
		},
	}

	c.Flags().StringVar(&outDir, "out-dir", ".", "Directory for <scan>_summary.txt files")
	return c
}

func writeTableFile(path string, t usecase.Table) error {
	return writeFile(path, func(f *os.File) error { return writeTSV(f, t.Header, t.Rows) })
}

// writeRowsFile writes headerless tab-separated lines.
func writeRowsFile(path string, rows [][]string) error {
	return writeFile(path, func(f *os.File) error {
		for _, r := range rows {
			if _, err := fmt.Fprintln(f, strings.Join(r, "\t")); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, fill func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.OpError{Op: "cli.write", Kind: domain.KindIO, Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &domain.OpError{Op: "cli.write", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return &domain.OpError{Op: "cli.write", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.OpError{Op: "cli.write", Kind: domain.KindIO, Path: path, Err: err}
	}
	return nil
}
