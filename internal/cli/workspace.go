package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/infra/copasise"
	"github.com/aalvaropc/cpstool/internal/infra/localrunner"
	"github.com/aalvaropc/cpstool/internal/infra/logger"
	"github.com/aalvaropc/cpstool/internal/infra/parallel"
	"github.com/aalvaropc/cpstool/internal/infra/runstore"
	"github.com/aalvaropc/cpstool/internal/infra/workspacefinder"
	"github.com/aalvaropc/cpstool/internal/ports"
	"github.com/aalvaropc/cpstool/internal/usecase"
)

type workspaceCtx struct {
	root  string
	cfg   domain.Config
	found bool
}

// loadWorkspace resolves the workspace root and its configuration. Without
// a cpstool.yaml the working directory and the defaults are used.
func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		root, err := filepath.Abs(w)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace path: %w", err)
		}
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				return &workspaceCtx{root: root, cfg: domain.DefaultConfig()}, nil
			}
			return nil, err
		}
		return &workspaceCtx{root: root, cfg: cfg, found: true}, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	var locator ports.WorkspaceLocator = workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return &workspaceCtx{root: wd, cfg: domain.DefaultConfig()}, nil
		}
		return nil, err
	}
	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return &workspaceCtx{root: root, cfg: cfg, found: true}, nil
}

// runOpts are the flags of every command that dispatches models.
type runOpts struct {
	runner string
	copasi string
	jobs   int
	noRun  bool
}

func (o *runOpts) bind(c *cobra.Command) {
	c.Flags().StringVar(&o.runner, "runner", "", "Task runner: parallel|local (default from cpstool.yaml)")
	c.Flags().StringVarP(&o.copasi, "copasi", "c", "", "CopasiSE executable (default from cpstool.yaml)")
	c.Flags().IntVarP(&o.jobs, "jobs", "p", 0, "Maximum simultaneous simulations (default from cpstool.yaml)")
	c.Flags().BoolVar(&o.noRun, "norun", false, "Write the model files but do not run them")
}

// dispatcher wires the configured runner, manifest store and notice.
func (ws *workspaceCtx) dispatcher(o runOpts) (*usecase.Dispatcher, domain.RunnerKind, error) {
	log := logger.L()
	rc := ws.cfg.Runner

	kind := rc.Kind
	if o.runner != "" {
		k, err := domain.ParseRunnerKind(o.runner)
		if err != nil {
			return nil, "", err
		}
		kind = k
	}
	if o.jobs > 0 {
		rc.MaxJobs = o.jobs
	}
	if rc.LogFile != "" && !filepath.IsAbs(rc.LogFile) {
		rc.LogFile = filepath.Join(ws.root, rc.LogFile)
	}

	opts := []usecase.DispatcherOption{
		usecase.WithLogger(log),
		usecase.WithManifestStore(runstore.NewJSONStore(ws.root, ws.cfg, runstore.WithIndex(true))),
		usecase.WithNotifier(runstore.NewFinishedNotice()),
	}

	if o.noRun {
		return usecase.NewDispatcher(nil, opts...), kind, nil
	}

	configured := ws.cfg.Copasi.Path
	if o.copasi != "" {
		configured = o.copasi
	}
	bin, err := copasise.Resolve(configured)
	if err != nil {
		return nil, "", err
	}

	cfg := ws.cfg
	opts = append(opts, usecase.WithVersionCheck(func(ctx context.Context, modelVersion string) {
		copasise.CheckVersion(ctx, log, cfg, bin, modelVersion)
	}))

	var runner ports.TaskRunner
	switch kind {
	case domain.RunnerLocal:
		runner = localrunner.NewRunner(bin, rc, localrunner.WithLogger(log))
	default:
		runner = parallel.NewRunner(bin, rc, parallel.WithLogger(log))
	}
	return usecase.NewDispatcher(runner, opts...), kind, nil
}
