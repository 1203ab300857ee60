package workspacefinder

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

// Finder locates the workspace a model or directory belongs to: the
// nearest ancestor holding cpstool.yaml. The search does not leave the
// version-control repository it starts in, so a stray cpstool.yaml in a
// home directory never captures models of an unrelated checkout.
type Finder struct {
	ConfigFile string
	// Boundaries mark the last directory searched.
	Boundaries []string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile, Boundaries: []string{".git", ".hg"}}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(start string) (string, error) {
	const op = "workspacefinder.find_root"

	if start == "" {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidArgument, Err: errors.New("start path is empty")}
	}
	dir, err := startDir(start)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindIO, Path: start, Err: err}
	}

	searched := 0
	for d := range ancestors(dir) {
		searched++
		if exists(filepath.Join(d, f.ConfigFile)) {
			return d, nil
		}
		if f.atBoundary(d) {
			break
		}
	}
	return "", &domain.OpError{
		Op:   op,
		Kind: domain.KindNotFound,
		Path: start,
		Err:  fmt.Errorf("no %s in %d directories searched: %w", f.ConfigFile, searched, domain.ErrNotFound),
	}
}

func (f *Finder) atBoundary(dir string) bool {
	for _, b := range f.Boundaries {
		if exists(filepath.Join(dir, b)) {
			return true
		}
	}
	return false
}

// startDir is the directory of a model file, or the path itself.
func startDir(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

// ancestors yields dir and each of its parents up to the filesystem root.
func ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for cur := filepath.Clean(dir); ; {
			if !yield(cur) {
				return
			}
			parent := filepath.Dir(cur)
			if parent == cur {
				return
			}
			cur = parent
		}
	}
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
