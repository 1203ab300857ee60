package ports

import "github.com/aalvaropc/cpstool/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec) (domain.InitReport, error)
}
