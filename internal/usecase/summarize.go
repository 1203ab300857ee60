package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

// SummaryLine is one optimized MCA coefficient.
type SummaryLine struct {
	Row   string
	Col   string
	Value string
}

// ScanSummary collects the objective values of one MCA scan.
type ScanSummary struct {
	Scan  string
	Lines []SummaryLine
}

type Summarize struct {
	extractor ports.ResultExtractor
}

func NewSummarize(e ports.ResultExtractor) *Summarize {
	return &Summarize{extractor: e}
}

// Execute groups MCA optimization reports named <scan>_<row>_<col>.txt by
// scan and reads each objective value. Lines keep argument order; scans are
// sorted by name.
func (uc *Summarize) Execute(paths []string) ([]ScanSummary, error) {
	if len(paths) == 0 {
		return nil, domain.Errorf("usecase.summarize", domain.KindInvalidArgument, "no result files given")
	}

	byScan := map[string]*ScanSummary{}
	for _, p := range paths {
		scan, row, col, err := splitScanName(p)
		if err != nil {
			return nil, err
		}

		value, err := uc.objective(p)
		if err != nil {
			return nil, err
		}

		s, ok := byScan[scan]
		if !ok {
			s = &ScanSummary{Scan: scan}
			byScan[scan] = s
		}
		s.Lines = append(s.Lines, SummaryLine{Row: row, Col: col, Value: value})
	}

	out := make([]ScanSummary, 0, len(byScan))
	for _, s := range byScan {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b ScanSummary) int { return cmp.Compare(a.Scan, b.Scan) })
	return out, nil
}

func (uc *Summarize) objective(path string) (string, error) {
	for rec, err := range uc.extractor.Extract(path, domain.KindMCAOptimization) {
		if err != nil {
			return "", err
		}
		if rec.Name() == domain.ObjectiveRecordName {
			return rec.Text(), nil
		}
	}
	return "", &domain.OpError{
		Op:      "usecase.summarize",
		Kind:    domain.KindFormat,
		Path:    path,
		Subject: domain.ObjectiveRecordName,
		Err:     fmt.Errorf("report has no objective value"),
	}
}

// splitScanName reads <scan>_<row>_<col> from a report file name. Only the
// last two underscores separate fields.
func splitScanName(path string) (scan, row, col string, err error) {
	name := sourceName(path)

	i := strings.LastIndex(name, "_")
	if i > 0 {
		j := strings.LastIndex(name[:i], "_")
		if j > 0 && j+1 < i && i+1 < len(name) {
			return name[:j], name[j+1 : i], name[i+1:], nil
		}
	}
	return "", "", "", &domain.OpError{
		Op:      "usecase.summarize",
		Kind:    domain.KindInvalidArgument,
		Path:    path,
		Subject: name,
		Err:     fmt.Errorf("file name must look like <scan>_<row>_<col>"),
	}
}
