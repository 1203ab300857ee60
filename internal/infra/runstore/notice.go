package runstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

// NoticePrefix starts the name of the file written next to the variants
// once a batch returns. The prefix sorts it to the top of a listing.
const NoticePrefix = "AA_FINISHED_"

// FinishedNotice writes a short plain-text summary next to the variants.
type FinishedNotice struct{}

func NewFinishedNotice() *FinishedNotice { return &FinishedNotice{} }

var _ ports.Notifier = (*FinishedNotice)(nil)

// NoticePath is where the notice for a batch base goes.
func NoticePath(base string) string {
	dir, name := filepath.Split(base)
	return filepath.Join(dir, NoticePrefix+name)
}

func (n *FinishedNotice) Notify(m domain.BatchManifest) error {
	path := NoticePath(m.Base)

	var b strings.Builder
	fmt.Fprintf(&b, "source:   %s\n", m.SourceModel)
	fmt.Fprintf(&b, "variants: %d\n", len(m.Variants))
	fmt.Fprintf(&b, "runner:   %s\n", m.Runner)
	fmt.Fprintf(&b, "started:  %s\n", m.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "finished: %s\n", m.FinishedAt.Format(time.RFC3339))
	if m.ID != "" {
		fmt.Fprintf(&b, "manifest: %s\n", m.ID)
	}
	if m.ExitError != "" {
		fmt.Fprintf(&b, "error:    %s\n", m.ExitError)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &domain.OpError{
			Op:   "runstore.notify",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
