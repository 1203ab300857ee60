package usecase

import (
	"context"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
	"github.com/aalvaropc/cpstool/internal/usecase/batch"
)

type BatchRequest struct {
	ModelPath string
	Count     int
	Base      string
	Pattern   string
	Task      string
	Runner    domain.RunnerKind
	NoRun     bool
}

type RunBatch struct {
	dispatcher *Dispatcher
}

func NewRunBatch(d *Dispatcher) *RunBatch {
	return &RunBatch{dispatcher: d}
}

// Execute copies the model Count times, each copy reporting to its own file,
// and dispatches the copies.
func (uc *RunBatch) Execute(ctx context.Context, req BatchRequest) (domain.BatchManifest, error) {
	doc, err := modeldoc.Load(req.ModelPath)
	if err != nil {
		return domain.BatchManifest{}, err
	}

	variants, err := batch.Generate(doc, req.Count,
		batch.WithBase(req.Base), batch.WithTask(req.Task), batch.WithPattern(req.Pattern))
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
