package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/infra/report"
	"github.com/aalvaropc/cpstool/internal/usecase"
	ucextract "github.com/aalvaropc/cpstool/internal/usecase/extract"
)

func extractCmd(_ *globalOpts) *cobra.Command {
	var format, query string
	var picks []string

	c := &cobra.Command{
		Use:   "extract <steady_state|mca_optimization> <report.txt>...",
		Short: "Extract records from COPASI report files",
		Example: `  cpstool extract steady_state results/*.txt --format tsv
  cpstool extract ss run_1.txt --query '$[?(@.type=="flux")]'
  cpstool extract mca scan_R1_R2.txt --pick obj='$[?(@.name=="Objective Function Value")].value'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseResultKind(args[0])
			if err != nil {
				return err
			}

			rows, err := usecase.NewExtractResults(report.NewExtractor()).Execute(args[1:], kind)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case len(picks) > 0:
				rules, err := ucextract.ParseRules(picks)
				if err != nil {
					return err
				}
				vals, results := ucextract.Pick(rows, rules)
				return printPicks(w, vals, results)
			case query != "":
				v, err := ucextract.Query(rows, query)
				if err != nil {
					return err
				}
				return writeJSON(w, v)
			}
			return printRecords(w, rows, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json|tsv")
	c.Flags().StringVar(&query, "query", "", "JSONPath applied to the record array; prints JSON")
	c.Flags().StringArrayVar(&picks, "pick", nil, "name=jsonpath; prints one value per name (repeatable)")
	return c
}

var recordHeader = []string{"source", "type", "name", "value", "unit", "contribution"}

func recordCells(r domain.RecordRow) []string {
	v := r.Text
	if v == "" {
		v = domain.FormatNumber(float64(r.Value))
	}
	return []string{r.Source, string(r.Type), r.Name, v, r.Unit, r.Contribution}
}

func printRecords(w io.Writer, rows []domain.RecordRow, format string) error {
	switch format {
	case "json":
		if rows == nil {
			rows = []domain.RecordRow{}
		}
		return writeJSON(w, rows)
	case "tsv":
		cells := make([][]string, 0, len(rows))
		for _, r := range rows {
			cells = append(cells, recordCells(r))
		}
		return writeTSV(w, recordHeader, cells)
	case "pretty", "":
		cells := make([][]string, 0, len(rows))
		for _, r := range rows {
			cells = append(cells, recordCells(r))
		}
		fmt.Fprintln(w, renderTable(recordHeader, cells, 3))
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json|tsv)", format)
	}
}

func printPicks(w io.Writer, vals map[string]string, results []ucextract.Result) error {
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(w, "# %s\n", r.Message)
			continue
		}
		fmt.Fprintf(w, "%s=%s\n", r.Name, vals[r.Name])
	}
	if failed > 0 {
		return fmt.Errorf("%d pick(s) failed", failed)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTSV writes tab-separated lines the way COPASI reports are laid out.
// Tabs and newlines inside cells are replaced by spaces.
func writeTSV(w io.Writer, header []string, rows [][]string) error {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	write := func(cells []string) error {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = clean.Replace(c)
		}
		_, err := io.WriteString(w, strings.Join(out, "\t")+"\n")
		return err
	}
	if err := write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := write(r); err != nil {
			return err
		}
	}
	return nil
}

// renderTable draws a bordered table; numCol is right-aligned (-1 for none).
func renderTable(header []string, rows [][]string, numCol int) string {
	th := defaultTheme()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.Border).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return th.Header
			case col == numCol:
				return th.Number
			default:
				return th.Cell
			}
		}).
		String()
}
