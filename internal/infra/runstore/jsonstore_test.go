package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
)

func manifest() domain.BatchManifest {
	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	return domain.BatchManifest{
		SourceModel: "models/Glycolysis Model.cps",
		Base:        "models/Glycolysis Model",
		Runner:      domain.RunnerParallel,
		StartedAt:   start,
		FinishedAt:  start.Add(90 * time.Second),
		Variants: []domain.Variant{
			{Index: 1, Name: "models/GlycolysisModel_1", ModelPath: "models/GlycolysisModel_1.cps", ReportPath: "models/GlycolysisModel_1.txt"},
		},
		Dispatched: true,
	}
}

func TestSaveManifest_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()

	store := NewJSONStore(tmp, domain.DefaultConfig())

	id, err := store.SaveManifest(manifest())
	if err != nil {
		t.Fatalf("SaveManifest error: %v", err)
	}
	if id != "20260203T101112Z_glycolysis-model" {
		t.Fatalf("unexpected id %q", id)
	}

	b, err := os.ReadFile(filepath.Join(tmp, "runs", id+".json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded domain.BatchManifest
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := manifest()
	want.ID = id
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveManifest_UsesClockWhenUnset(t *testing.T) {
	tmp := t.TempDir()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cfg := domain.DefaultConfig()
	cfg.Paths.RunsDir = "batches"
	store := NewJSONStore(tmp, cfg, WithNow(func() time.Time { return now }))

	m := manifest()
	m.StartedAt = time.Time{}
	m.Base = ""
	id, err := store.SaveManifest(m)
	if err != nil {
		t.Fatalf("SaveManifest error: %v", err)
	}
	if id != "20260101T000000Z_glycolysis-model" {
		t.Fatalf("unexpected id %q", id)
	}
	if _, err := os.Stat(filepath.Join(tmp, "batches", id+".json")); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestSaveManifest_AppendsIndex(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithIndex(true))

	m := manifest()
	if _, err := store.SaveManifest(m); err != nil {
		t.Fatalf("SaveManifest error: %v", err)
	}
	m.StartedAt = m.StartedAt.Add(time.Hour)
	m.ExitError = "exit status 1"
	if _, err := store.SaveManifest(m); err != nil {
		t.Fatalf("SaveManifest error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, "runs", "index.jsonl"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 index lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], `"failed":true`) {
		t.Fatalf("second entry should be marked failed: %s", lines[1])
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Glycolysis Model": "glycolysis-model",
		"  run__1 ":        "run-1",
		"(((":              "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFinishedNotice(t *testing.T) {
	tmp := t.TempDir()
	m := manifest()
	m.Base = filepath.Join(tmp, "scan")
	m.ExitError = "exit status 2"

	if err := NewFinishedNotice().Notify(m); err != nil {
		t.Fatalf("notify: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(tmp, "AA_FINISHED_scan"))
	if err != nil {
		t.Fatalf("read notice: %v", err)
	}
	for _, want := range []string{"variants: 1", "runner:   parallel", "error:    exit status 2"} {
		if !strings.Contains(string(got), want) {
			t.Fatalf("notice missing %q:\n%s", want, got)
		}
	}
}

func TestFinishedNotice_MissingDirIsIOError(t *testing.T) {
	m := manifest()
	m.Base = filepath.Join(t.TempDir(), "nope", "scan")

	err := NewFinishedNotice().Notify(m)
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected KindIO, got %v", err)
	}
}
