// Package parallel dispatches COPASI tasks through GNU parallel.
package parallel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

const defaultBinary = "parallel"

// Runner executes `parallel -j N <copasi> '>>' <log> '2>&1' ::: files…`.
// GNU parallel runs each job through a shell, so the redirection appends
// every simulator's output to one log file.
type Runner struct {
	binary  string
	copasi  string
	maxJobs int
	logFile string
	dir     string
	log     *slog.Logger
}

type Option func(*Runner)

// WithBinary overrides the GNU parallel executable.
func WithBinary(path string) Option {
	return func(r *Runner) { r.binary = path }
}

// WithDir sets the working directory of the parallel process.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func NewRunner(copasi string, cfg domain.RunnerConfig, opts ...Option) *Runner {
	r := &Runner{
		binary:  defaultBinary,
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

// Args returns the argument list passed to GNU parallel.
func (r *Runner) Args(tasks []domain.Task) []string {
	args := []string{"-j", strconv.Itoa(r.maxJobs), r.copasi}
	if r.logFile != "" {
		args = append(args, ">>", r.logFile, "2>&1")
	}
	args = append(args, ":::")
	for _, t := range tasks {
		args = append(args, t.ModelPath)
	}
	return args
}

// Run blocks until every task has finished. GNU parallel's exit status is
// the number of failed jobs.
func (r *Runner) Run(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	args := r.Args(tasks)
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.log.Info("runner.start", "runner", "parallel", "tasks", len(tasks), "jobs", r.maxJobs, "log_file", r.logFile)
	r.log.Debug("runner.command", "bin", r.binary, "args", args)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return &domain.OpError{Op: "parallel.run", Kind: domain.KindExecution, Err: ctx.Err()}
		}
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg == "" {
			msg = fmt.Sprintf("%d job(s) failed", exitErr.ExitCode())
		}
		r.log.Error("runner.failed", "runner", "parallel", "error", err, "stderr", msg)
		return &domain.OpError{
			Op:      "parallel.run",
			Kind:    domain.KindExecution,
			Path:    r.binary,
			Subject: msg,
			Err:     err,
		}
	}

	r.log.Info("runner.done", "runner", "parallel", "tasks", len(tasks))
	return nil
}
