package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aalvaropc/cpstool/internal/domain"
)

func TestFindRoot_FromModelsAndDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "models", "glycolysis")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("cpstool: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	model := filepath.Join(nested, "pfk.cps")
	if err := os.WriteFile(model, []byte("<COPASI/>"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	for _, start := range []string{root, nested, model, filepath.Join(nested, "not-yet-written.cps")} {
		got, err := NewFinder().FindRoot(start)
		if err != nil {
			t.Fatalf("%s: %v", start, err)
		}
		if got != root {
			t.Fatalf("%s: expected %s, got %s", start, root, got)
		}
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := NewFinder().FindRoot(dir)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindRoot_StopsAtRepositoryRoot(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ConfigFile), []byte("cpstool: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	repo := filepath.Join(tmp, "checkout")
	models := filepath.Join(repo, "models")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(models, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := NewFinder().FindRoot(models)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found inside the repository, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 directories searched") {
		t.Fatalf("expected the search depth in the error, got %v", err)
	}

	// Without boundaries the outer workspace is found.
	got, err := (&Finder{ConfigFile: ConfigFile}).FindRoot(models)
	if err != nil || got != tmp {
		t.Fatalf("expected %s, got %s err=%v", tmp, got, err)
	}
}

func TestFindRoot_ConfigAtRepositoryRoot(t *testing.T) {
	repo := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repo, ConfigFile), []byte("cpstool: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	nested := filepath.Join(repo, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := NewFinder().FindRoot(nested)
	if err != nil || got != repo {
		t.Fatalf("expected %s, got %s err=%v", repo, got, err)
	}
}

func TestFindRoot_EmptyStart(t *testing.T) {
	if _, err := NewFinder().FindRoot(""); !domain.IsKind(err, domain.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
