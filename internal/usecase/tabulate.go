package usecase

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

// MissingCell fills a table cell whose name is absent from a file.
const MissingCell = "na"

// Table is a pivot: one row per name, one column per source file.
type Table struct {
	Header []string
	Rows   [][]string
}

// Tables is the outcome of a tabulation. Skipped lists the reports whose
// calculation found no steady state; their columns hold only MissingCell.
type Tables struct {
	Conc    Table
	Flux    Table
	Skipped []string
}

type Tabulate struct {
	extractor ports.ResultExtractor
	log       *slog.Logger
}

func NewTabulate(e ports.ResultExtractor, log *slog.Logger) *Tabulate {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Tabulate{extractor: e, log: log}
}

// Execute builds the concentration and flux tables across steady-state
// reports. Columns follow the argument order; rows are sorted by name.
// Cells carry the value text as the report printed it.
func (uc *Tabulate) Execute(paths []string) (Tables, error) {
	if len(paths) == 0 {
		return Tables{}, domain.Errorf("usecase.tabulate", domain.KindInvalidArgument, "no result files given")
	}

	var skipped []string
	sources := make([]string, 0, len(paths))
	concVals := map[string]map[string]string{}
	fluxVals := map[string]map[string]string{}

	for _, p := range paths {
		src := sourceName(p)
		sources = append(sources, src)

		for rec, err := range uc.extractor.Extract(p, domain.KindSteadyState) {
			if errors.Is(err, domain.ErrNoSteadyState) {
				uc.log.Warn("tabulate.no_steady_state", "path", p, "err", err)
				skipped = append(skipped, p)
				break
			}
			if err != nil {
				return Tables{}, err
			}
			target := concVals
			if rec.Type() == domain.RecordFlux {
				target = fluxVals
			}
			if target[rec.Name()] == nil {
				target[rec.Name()] = map[string]string{}
			}
			target[rec.Name()][src] = rec.Text()
		}
	}

	return Tables{
		Conc:    pivot(sources, concVals),
		Flux:    pivot(sources, fluxVals),
		Skipped: skipped,
	}, nil
}

// pivot leaves the corner cell of the header empty, as COPASI users expect
// from the tables this tool replaces.
func pivot(sources []string, vals map[string]map[string]string) Table {
	t := Table{Header: append([]string{""}, sources...)}

	names := make([]string, 0, len(vals))
	for n := range vals {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, n := range names {
		row := make([]string, 0, len(sources)+1)
		row = append(row, n)
		for _, s := range sources {
			v, ok := vals[n][s]
			if !ok {
				v = MissingCell
			}
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
