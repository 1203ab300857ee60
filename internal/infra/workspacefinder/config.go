package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// ConfigFile marks a cpstool workspace root.
const ConfigFile = "cpstool.yaml"

// LoadConfig loads cpstool.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	return LoadConfigFile(filepath.Join(root, ConfigFile))
}

// LoadConfigFile loads a configuration file and applies defaults.
func LoadConfigFile(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindFormat,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	c := y.Cpstool
	if c.Copasi.Path != "" {
		cfg.Copasi.Path = c.Copasi.Path
	}
	if len(c.Copasi.TestedVersions) > 0 {
		cfg.Copasi.TestedVersions = c.Copasi.TestedVersions
	}
	if c.Runner.Kind != "" {
		kind, err := domain.ParseRunnerKind(c.Runner.Kind)
		if err != nil {
			return cfg, &domain.OpError{
				Op:      "workspacefinder.loadconfig",
				Kind:    domain.KindFormat,
				Path:    path,
				Subject: "runner.kind",
				Err:     err,
			}
		}
		cfg.Runner.Kind = kind
	}
	if c.Runner.MaxJobs != nil {
		if *c.Runner.MaxJobs < 1 {
			return cfg, &domain.OpError{
				Op:      "workspacefinder.loadconfig",
				Kind:    domain.KindFormat,
				Path:    path,
				Subject: "runner.max_jobs",
				Err:     fmt.Errorf("must be >= 1, got %d", *c.Runner.MaxJobs),
			}
		}
		cfg.Runner.MaxJobs = *c.Runner.MaxJobs
	}
	if c.Runner.LogFile != "" {
		cfg.Runner.LogFile = c.Runner.LogFile
	}
	if c.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = c.Paths.RunsDir
	}

	return cfg, nil
}

type yamlConfig struct {
	Cpstool struct {
		Copasi struct {
			Path           string   `yaml:"path"`
			TestedVersions []string `yaml:"tested_versions"`
		} `yaml:"copasi"`

		Runner struct {
			Kind    string `yaml:"kind"`
			MaxJobs *int   `yaml:"max_jobs"`
			LogFile string `yaml:"log_file"`
		} `yaml:"runner"`

		Paths struct {
			RunsDir string `yaml:"runs_dir"`
		} `yaml:"paths"`
	} `yaml:"cpstool"`
}
