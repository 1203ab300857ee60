package domain

import "strings"

// Config represents the cpstool configuration loaded from cpstool.yaml.
type Config struct {
	Copasi CopasiConfig
	Runner RunnerConfig
	Paths  PathsConfig
}

type CopasiConfig struct {
	// Path is the CopasiSE executable name or path.
	Path           string
	TestedVersions []string
}

type RunnerKind string

const (
	RunnerParallel RunnerKind = "parallel"
	RunnerLocal    RunnerKind = "local"
)

type RunnerConfig struct {
	Kind    RunnerKind
	MaxJobs int
	// LogFile collects the stdout/stderr of every CopasiSE invocation.
	LogFile string
}

type PathsConfig struct {
	RunsDir string
}

// DefaultConfig provides sane defaults if cpstool.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Copasi: CopasiConfig{
			Path:           "copasise",
			TestedVersions: []string{"4.14 (Build 89)", "4.15 (Build 95)"},
		},
		Runner: RunnerConfig{
			Kind:    RunnerParallel,
			MaxJobs: 10,
			LogFile: "copasiOut.txt",
		},
		Paths: PathsConfig{
			RunsDir: "runs",
		},
	}
}

// IsTestedVersion reports whether a COPASI file version is in the tested list.
func (c Config) IsTestedVersion(v string) bool {
	for _, t := range c.Copasi.TestedVersions {
		if t == v {
			return true
		}
	}
	return false
}

// WorkspaceSpec describes the workspace to create. Zero values keep the
// defaults of the cpstool.yaml template.
type WorkspaceSpec struct {
	Root    string
	Copasi  string
	Runner  RunnerKind
	MaxJobs int
	// Force overwrites an existing cpstool.yaml.
	Force bool
}

// InitReport lists what workspace initialization wrote, relative to Root.
type InitReport struct {
	Root    string
	Created []string
	// Kept are files that already existed and were left alone.
	Kept []string
	// Gitignore lists the entries appended to .gitignore.
	Gitignore []string
}

// ParseRunnerKind accepts a runner name in any case.
func ParseRunnerKind(s string) (RunnerKind, error) {
	switch k := RunnerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case RunnerParallel, RunnerLocal:
		return k, nil
	}
	return "", Errorf("domain.parse_runner_kind", KindInvalidArgument,
		"unknown runner %q (expected parallel|local)", s)
}
