package ports

import (
	"iter"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// ResultExtractor turns a report file into records.
type ResultExtractor interface {
	Extract(path string, kind domain.ResultKind) iter.Seq2[domain.Record, error]
}
