package fsworkspace

import (
	"os"
	"path/filepath"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/infra/workspacefinder"
	"github.com/aalvaropc/cpstool/internal/ports"
)

const configName = workspacefinder.ConfigFile

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init writes cpstool.yaml from the template with the spec's overrides,
// creates the directories that configuration points at and ignores the
// files CopasiSE runs leave behind.
func (i *Initializer) Init(spec domain.WorkspaceSpec) (domain.InitReport, error) {
	root := filepath.Clean(spec.Root)
	rep := domain.InitReport{Root: root}

	cfgPath := filepath.Join(root, configName)
	_, statErr := os.Stat(cfgPath)
	exists := statErr == nil

	// An existing configuration decides the layout unless it is replaced.
	var cfg domain.Config
	if exists && !spec.Force {
		c, err := workspacefinder.LoadConfigFile(cfgPath)
		if err != nil {
			return rep, err
		}
		cfg = c
		rep.Kept = append(rep.Kept, configName)
	} else {
		b, c, err := renderConfig(spec)
		if err != nil {
			return rep, &domain.OpError{Op: "fsworkspace.render_config", Kind: domain.KindFormat, Path: cfgPath, Err: err}
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return rep, &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindIO, Path: root, Err: err}
		}
		if err := os.WriteFile(cfgPath, b, 0o644); err != nil {
			return rep, &domain.OpError{Op: "fsworkspace.write", Kind: domain.KindIO, Path: cfgPath, Err: err}
		}
		cfg = c
		rep.Created = append(rep.Created, configName)
	}

	for _, d := range layout(cfg) {
		dir := filepath.Join(root, d)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return rep, &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindIO, Path: dir, Err: err}
		}
		rep.Created = append(rep.Created, filepath.ToSlash(d)+"/")
	}

	added, err := ensureGitignore(root, ignoredArtifacts(cfg))
	if err != nil {
		return rep, &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindIO, Path: root, Err: err}
	}
	rep.Gitignore = added
	return rep, nil
}

// layout is the directory tree of a workspace. Absolute run directories
// live outside the workspace and are left to the runner.
func layout(cfg domain.Config) []string {
	dirs := []string{"models", "results"}
	if rd := cfg.Paths.RunsDir; rd != "" && !filepath.IsAbs(rd) {
		dirs = append(dirs, filepath.Clean(rd))
	}
	return append(dirs, filepath.Join(".cpstool", "logs"))
}
