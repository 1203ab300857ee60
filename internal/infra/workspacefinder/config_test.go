package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Partial config (runner only)
	root := writeConfig(t, "cpstool:\n  runner:\n    kind: Local\n    max_jobs: 4\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	want := domain.DefaultConfig()
	want.Runner.Kind = domain.RunnerLocal
	want.Runner.MaxJobs = 4
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	root := writeConfig(t, `cpstool:
  copasi:
    path: /opt/copasi/bin/CopasiSE
    tested_versions: ["4.16 (Build 104)"]
  runner:
    kind: parallel
    max_jobs: 32
    log_file: logs/copasi.txt
  paths:
    runs_dir: batches
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	want := domain.Config{
		Copasi: domain.CopasiConfig{Path: "/opt/copasi/bin/CopasiSE", TestedVersions: []string{"4.16 (Build 104)"}},
		Runner: domain.RunnerConfig{Kind: domain.RunnerParallel, MaxJobs: 32, LogFile: "logs/copasi.txt"},
		Paths:  domain.PathsConfig{RunsDir: "batches"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"yaml":     "cpstool: [",
		"runner":   "cpstool:\n  runner:\n    kind: slurm\n",
		"max_jobs": "cpstool:\n  runner:\n    max_jobs: 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			if !domain.IsKind(err, domain.KindFormat) {
				t.Fatalf("expected KindFormat, got: %v", err)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}
