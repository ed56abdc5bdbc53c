package setup

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextbase-dev/nextbase/internal/console"
	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/metrics"
)

// Default tracer name for scaffolding spans.
const defaultTracerName = "nextbase"

// Orchestrator runs planned steps against a project directory.
type Orchestrator struct {
	runner  Runner
	log     console.Logger
	tracer  trace.Tracer
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTracer sets the tracer spans are started on.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

// WithMetrics sets the recorder step outcomes are reported to.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = r
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an Orchestrator that executes commands with runner.
func NewOrchestrator(runner Runner, log console.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner: runner,
		log:    log,
		tracer: otel.Tracer(defaultTracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes steps in order inside dir and records each outcome in report.
// It stops at the first failing command and returns that step's error; the
// remaining steps are recorded as skipped.
func (o *Orchestrator) Run(ctx context.Context, dir string, steps []Step, report *Report) error {
	for i, step := range steps {
		if err := o.runStep(ctx, dir, step, report); err != nil {
			rest := steps[i+1:]
			report.Skip(rest...)
			for _, s := range rest {
				o.metrics.ObserveStep(s.Name, metrics.OutcomeSkipped, 0)
			}
			return err
		}
	}
	return nil
}

func (o *Orchestrator) runStep(ctx context.Context, dir string, step Step, report *Report) error {
	o.log.Phase("%s", step.Title)

	ctx, span := o.tracer.Start(ctx, "setup."+step.Name,
		trace.WithAttributes(
			attribute.String("nextbase.step", step.Name),
			attribute.Int("nextbase.commands", len(step.Commands)),
		),
	)
	defer span.End()

	start := o.now()
	res := StepResult{Step: step.Name}

	for _, cmd := range step.Commands {
		line := cmd.String()
		res.Commands = append(res.Commands, line)
		o.log.Debug("running command", "step", step.Name, "cmd", line, "dir", dir)
		span.AddEvent("exec", trace.WithAttributes(attribute.String("nextbase.cmd", line)))

		if err := o.runner.Run(ctx, dir, cmd); err != nil {
			se := errors.FromError(err, "E130").WithStep(step.Name)

			res.Status = StatusFailed
			res.Duration = o.now().Sub(start)
			res.Err = se
			report.Record(res)

			span.RecordError(se)
			span.SetStatus(codes.Error, se.FormatCompact())
			span.SetAttributes(attribute.Int("nextbase.exit_code", se.ExitCode))
			o.metrics.ObserveStep(step.Name, metrics.OutcomeFailed, res.Duration)
			o.log.Debug("step failed", "step", step.Name, "cmd", line, "exit", se.ExitCode)
			return se
		}
	}

	res.Status = StatusOK
	res.Duration = o.now().Sub(start)
	report.Record(res)

	span.SetStatus(codes.Ok, "")
	o.metrics.ObserveStep(step.Name, metrics.OutcomeOK, res.Duration)
	return nil
}
