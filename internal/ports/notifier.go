package ports

import "github.com/aalvaropc/cpstool/internal/domain"

// Notifier announces that a batch has been dispatched.
type Notifier interface {
	Notify(m domain.BatchManifest) error
}
