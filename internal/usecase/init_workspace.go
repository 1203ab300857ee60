package usecase

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
	log         *slog.Logger
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer, log *slog.Logger) *InitWorkspace {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &InitWorkspace{initializer: initializer, log: log}
}

// Execute checks the requested settings before anything is written: the
// root must be a directory or not exist yet, the runner must be known and
// the job limit positive.
func (uc *InitWorkspace) Execute(spec domain.WorkspaceSpec) (domain.InitReport, error) {
	const op = "usecase.init_workspace"

	if strings.TrimSpace(spec.Root) == "" {
		return domain.InitReport{}, domain.Errorf(op, domain.KindInvalidArgument, "workspace root is empty")
	}
	if info, err := os.Stat(spec.Root); err == nil && !info.IsDir() {
		return domain.InitReport{}, &domain.OpError{Op: op, Kind: domain.KindInvalidArgument, Path: spec.Root,
			Err: errors.New("not a directory")}
	}
	if spec.Runner != "" {
		k, err := domain.ParseRunnerKind(string(spec.Runner))
		if err != nil {
			return domain.InitReport{}, err
		}
		spec.Runner = k
	}
	if spec.MaxJobs < 0 {
		return domain.InitReport{}, domain.Errorf(op, domain.KindInvalidArgument,
			"job limit must be positive, got %d", spec.MaxJobs)
	}

	rep, err := uc.initializer.Init(spec)
	if err != nil {
		return rep, err
	}
	uc.log.Info("workspace.init", "root", rep.Root, "created", len(rep.Created), "kept", len(rep.Kept),
		"gitignore", len(rep.Gitignore), "force", spec.Force)
	return rep, nil
}
