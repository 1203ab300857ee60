package ports

import "github.com/aalvaropc/cpstool/internal/domain"

// ManifestStore persists batch manifests for reproducibility.
type ManifestStore interface {
	SaveManifest(m domain.BatchManifest) (id string, err error)
}
