package ports

import (
	"context"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// TaskRunner executes model files, typically in parallel. The core only
// relies on it accepting an ordered list of tasks.
type TaskRunner interface {
	Run(ctx context.Context, tasks []domain.Task) error
}
