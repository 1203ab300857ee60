// Package localrunner executes COPASI tasks with an in-process worker pool,
// for machines without GNU parallel.
package localrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

type Runner struct {
	copasi  string
	maxJobs int
	logFile string
	log     *slog.Logger
}

type Option func(*Runner)

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func NewRunner(copasi string, cfg domain.RunnerConfig, opts ...Option) *Runner {
	r := &Runner{
		copasi:  copasi,
		maxJobs: cfg.MaxJobs,
		logFile: cfg.LogFile,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxJobs < 1 {
		r.maxJobs = 1
	}
	return r
}

var _ ports.TaskRunner = (*Runner)(nil)

// Run executes `<copasi> <model>` for every task, at most maxJobs at a time.
// A failing task does not stop the others; all failures are joined.
func (r *Runner) Run(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	out, closeOut, err := r.output()
	if err != nil {
		return err
	}
	defer closeOut()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(r.maxJobs)

	r.log.Info("runner.start", "runner", "local", "tasks", len(tasks), "jobs", r.maxJobs, "log_file", r.logFile)

	for _, t := range tasks {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			cmd := exec.CommandContext(ctx, r.copasi, t.ModelPath)
			cmd.Stdout = out
			cmd.Stderr = out

			if err := cmd.Run(); err != nil {
				r.log.Error("runner.task.failed", "index", t.Index, "model", t.ModelPath, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("task %d (%s): %w", t.Index, t.ModelPath, err))
				mu.Unlock()
				return nil
			}
			r.log.Debug("runner.task.done", "index", t.Index, "model", t.ModelPath)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &domain.OpError{
			Op:      "localrunner.run",
			Kind:    domain.KindExecution,
			Path:    r.copasi,
			Subject: fmt.Sprintf("%d of %d task(s) failed", len(errs), len(tasks)),
			Err:     errors.Join(errs...),
		}
	}

	r.log.Info("runner.done", "runner", "local", "tasks", len(tasks))
	return nil
}

// output opens the shared simulator log in append mode, or discards output
// when no log file is configured.
func (r *Runner) output() (io.Writer, func(), error) {
	if r.logFile == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(r.logFile), 0o755); err != nil {
		return nil, nil, &domain.OpError{Op: "localrunner.log", Kind: domain.KindIO, Path: r.logFile, Err: err}
	}
	f, err := os.OpenFile(r.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, &domain.OpError{Op: "localrunner.log", Kind: domain.KindIO, Path: r.logFile, Err: err}
	}
	return &lockedWriter{w: f}, func() { _ = f.Close() }, nil
}

// lockedWriter serializes writes from concurrent simulator processes.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
