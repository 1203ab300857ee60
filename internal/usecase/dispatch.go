package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
	"github.com/aalvaropc/cpstool/internal/usecase/batch"
)

// Dispatcher writes generated variants, hands them to a runner and records
// the outcome. Store and notifier are optional.
type Dispatcher struct {
	runner     ports.TaskRunner
	store      ports.ManifestStore
	notifier   ports.Notifier
	log        *slog.Logger
	now        func() time.Time
	writeLimit int
	checkVer   func(ctx context.Context, modelVersion string)
}

type DispatcherOption func(*Dispatcher)

func WithManifestStore(s ports.ManifestStore) DispatcherOption {
	return func(d *Dispatcher) { d.store = s }
}

func WithNotifier(n ports.Notifier) DispatcherOption {
	return func(d *Dispatcher) { d.notifier = n }
}

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

func WithWriteLimit(n int) DispatcherOption {
	return func(d *Dispatcher) { d.writeLimit = n }
}

// WithVersionCheck is called with the model's COPASI version before the
// runner starts.
func WithVersionCheck(fn func(ctx context.Context, modelVersion string)) DispatcherOption {
	return func(d *Dispatcher) { d.checkVer = fn }
}

func NewDispatcher(runner ports.TaskRunner, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		runner: runner,
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DispatchRequest describes where a batch came from and how to run it.
type DispatchRequest struct {
	SourceModel string
	Base        string
	Runner      domain.RunnerKind
	// NoRun writes the variants but does not execute them.
	NoRun bool
}

// Dispatch writes the variants and, unless NoRun is set, runs them.
// The manifest is saved even when the runner fails; the runner error is
// returned afterwards.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest, variants []batch.Variant) (domain.BatchManifest, error) {
	m := domain.BatchManifest{
		SourceModel: req.SourceModel,
		Base:        req.Base,
		Runner:      req.Runner,
		StartedAt:   d.now().UTC(),
		Variants:    make([]domain.Variant, 0, len(variants)),
	}
	for _, v := range variants {
		m.Variants = append(m.Variants, v.Variant)
	}

	if err := WriteVariants(ctx, variants, d.writeLimit); err != nil {
		return m, err
	}
	d.log.Info("variants written", "source", req.SourceModel, "count", len(variants))

	var runErr error
	if !req.NoRun && d.runner != nil {
		m.Dispatched = true
		if d.checkVer != nil && len(variants) > 0 {
			if v, err := variants[0].Doc.Version(); err == nil {
				d.checkVer(ctx, v)
			}
		}
		d.log.Info("dispatching batch", "runner", req.Runner, "tasks", len(variants))
		if err := d.runner.Run(ctx, domain.TasksFor(m.Variants)); err != nil {
			runErr = &domain.OpError{
				Op:   "usecase.dispatch",
				Kind: domain.KindExecution,
				Path: req.SourceModel,
				Err:  err,
			}
			m.ExitError = err.Error()
			d.log.Error("batch failed", "source", req.SourceModel, "error", err)
		}
	}
	m.FinishedAt = d.now().UTC()

	if d.store != nil {
		id, err := d.store.SaveManifest(m)
		if err != nil {
			d.log.Warn("could not save manifest", "error", err)
		} else {
			m.ID = id
		}
	}
	if d.notifier != nil && m.Dispatched {
		if err := d.notifier.Notify(m); err != nil {
			d.log.Warn("could not write finished notice", "error", err)
		}
	}

	return m, runErr
}
