package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
	"github.com/aalvaropc/cpstool/internal/usecase/batch"
)

// AllIndices selects every row or column.
const AllIndices = "all"

type ScanRequest struct {
	ModelPath string
	// Rows and Cols hold zero-based indices, element names, or "all".
	Rows, Cols []string
	Base       string
	Pattern    string
	Task       string
	JobArray   bool
	Runner     domain.RunnerKind
	NoRun      bool
}

// ScanMCA creates one optimization model per MCA coefficient and
// dispatches them.
type ScanMCA struct {
	dispatcher *Dispatcher
	log        *slog.Logger
	warnings   io.Writer
}

type ScanOption func(*ScanMCA)

// WithWarnings also writes skipped selections to w, one line each.
func WithWarnings(w io.Writer) ScanOption {
	return func(uc *ScanMCA) { uc.warnings = w }
}

func NewScanMCA(d *Dispatcher, log *slog.Logger, opts ...ScanOption) *ScanMCA {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	uc := &ScanMCA{dispatcher: d, log: log, warnings: io.Discard}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *ScanMCA) Execute(ctx context.Context, req ScanRequest) (domain.BatchManifest, error) {
	doc, err := modeldoc.Load(req.ModelPath)
	if err != nil {
		return domain.BatchManifest{}, err
	}

	pairs, err := uc.Pairs(doc, req.Task, req.Rows, req.Cols)
	if err != nil {
		return domain.BatchManifest{}, err
	}

	variants, err := batch.GeneratePairs(doc, pairs,
		batch.WithBase(req.Base), batch.WithTask(req.Task), batch.WithPattern(req.Pattern),
		batch.WithJobArray(req.JobArray))
	if err != nil {
		return domain.BatchManifest{}, err
	}

	return uc.dispatcher.Dispatch(ctx, DispatchRequest{
		SourceModel: req.ModelPath,
		Base:        baseName(req.ModelPath, req.Base),
		Runner:      req.Runner,
		NoRun:       req.NoRun,
	}, variants)
}

// Pairs resolves row and column selections against the model. Which lists
// index the MCA array depends on its type:
//
//	ccc: metabolites x reactions
//	e:   reactions x metabolites
//	fcc: reactions x reactions, diagonal excluded
//
// Out-of-range indices are skipped with a warning; an unknown name is an
// error.
func (uc *ScanMCA) Pairs(doc *modeldoc.Document, task string, rows, cols []string) ([]batch.Pair, error) {
	typ, err := doc.MCAType(task)
	if err != nil {
		return nil, err
	}
	reactions, err := doc.Reactions()
	if err != nil {
		return nil, err
	}
	metabolites, err := doc.Metabolites()
	if err != nil {
		return nil, err
	}

	var rowNames, colNames []string
	switch typ {
	case domain.MCAConcentrationControl:
		rowNames, colNames = metabolites, reactions
	case domain.MCAElasticity:
		rowNames, colNames = reactions, metabolites
	case domain.MCAFluxControl:
		rowNames, colNames = reactions, reactions
	default:
		return nil, domain.Errorf("usecase.scan_mca", domain.KindFormat, "unsupported MCA type %q", typ)
	}

	ri, err := uc.resolve("row", rows, rowNames)
	if err != nil {
		return nil, err
	}
	ci, err := uc.resolve("column", cols, colNames)
	if err != nil {
		return nil, err
	}

	var out []batch.Pair
	for _, r := range ri {
		for _, c := range ci {
			if typ == domain.MCAFluxControl && r == c {
				continue
			}
			p := batch.Pair{Row: r, Col: c, RowName: rowNames[r], ColName: colNames[c]}
			uc.log.Debug("objective selected", "type", typ, "pair", describePair(p))
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, domain.Errorf("usecase.scan_mca", domain.KindInvalidArgument,
			"no valid %s objectives for rows %v and columns %v", typ, rows, cols)
	}
	return out, nil
}

func (uc *ScanMCA) resolve(axis string, sel, names []string) ([]int, error) {
	if len(sel) == 0 {
		return nil, domain.Errorf("usecase.scan_mca", domain.KindInvalidArgument, "no %s selected", axis)
	}

	var out []int
	for _, s := range sel {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, AllIndices) {
			for i := range names {
				out = append(out, i)
			}
			continue
		}
		if i, err := strconv.Atoi(s); err == nil {
			if i < 0 || i >= len(names) {
				uc.log.Warn("index out of range, skipping", "axis", axis, "index", i, "size", len(names))
				fmt.Fprintf(uc.warnings, "warning: %s index %d out of range (0-%d), skipped\n", axis, i, len(names)-1)
				continue
			}
			out = append(out, i)
			continue
		}
		if i := slices.Index(names, s); i >= 0 {
			out = append(out, i)
			continue
		}
		return nil, &domain.OpError{
			Op:      "usecase.scan_mca",
			Kind:    domain.KindInvalidArgument,
			Subject: s,
			Err:     fmt.Errorf("unknown %s name (known: %s)", axis, strings.Join(names, ", ")),
		}
	}
	return out, nil
}

// baseName returns the explicit base, or the model path without extension.
func baseName(modelPath, base string) string {
	if strings.TrimSpace(base) != "" {
		return base
	}
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath))
}

// describePair is used in log lines.
func describePair(p batch.Pair) string {
	return fmt.Sprintf("[%d][%d] %s/%s", p.Row, p.Col, p.RowName, p.ColName)
}
