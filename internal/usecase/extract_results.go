package usecase

import (
	"path/filepath"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

type ExtractResults struct {
	extractor ports.ResultExtractor
}

func NewExtractResults(e ports.ResultExtractor) *ExtractResults {
	return &ExtractResults{extractor: e}
}

// Execute extracts every file in order and flattens the records into rows
// tagged with the file's base name. The first failing file stops the run.
func (uc *ExtractResults) Execute(paths []string, kind domain.ResultKind) ([]domain.RecordRow, error) {
	if len(paths) == 0 {
		return nil, domain.Errorf("usecase.extract", domain.KindInvalidArgument, "no result files given")
	}

	var rows []domain.RecordRow
	for _, p := range paths {
		src := sourceName(p)
		for rec, err := range uc.extractor.Extract(p, kind) {
			if err != nil {
				return nil, err
			}
			rows = append(rows, domain.Flatten(src, rec))
		}
	}
	return rows, nil
}

func sourceName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
