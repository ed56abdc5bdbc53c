// Package scaffold drives a complete project creation run: fetch the
// template, prune unselected features, run the setup steps and move the
// finished tree into place.
package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextbase-dev/nextbase/internal/config"
	"github.com/nextbase-dev/nextbase/internal/console"
	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/fetch"
	"github.com/nextbase-dev/nextbase/internal/metrics"
	"github.com/nextbase-dev/nextbase/internal/project"
	"github.com/nextbase-dev/nextbase/internal/prune"
	"github.com/nextbase-dev/nextbase/internal/setup"
)

// Pseudo-step names recorded in the report for the phases that are not
// external commands.
const (
	StepFetch   = "fetch"
	StepPrune   = "prune"
	StepPromote = "promote"
)

// stagingSuffix marks the hidden directory a project is built in.
const stagingSuffix = ".nextbase-staging"

// Scaffolder creates projects.
type Scaffolder struct {
	fetcher     fetch.Fetcher
	settings    *config.Settings
	runner      setup.Runner
	log         console.Logger
	metrics     *metrics.Recorder
	tracer      trace.Tracer
	baseDir     string
	cleanFailed bool
	now         func() time.Time
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithBaseDir sets the directory the project is created in. Defaults to the
// working directory.
func WithBaseDir(dir string) Option {
	return func(s *Scaffolder) {
		s.baseDir = dir
	}
}

// WithCleanFailed removes the staging directory of a failed run. By default
// it is left on disk.
func WithCleanFailed(clean bool) Option {
	return func(s *Scaffolder) {
		s.cleanFailed = clean
	}
}

// WithMetrics reports step and run outcomes to r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Scaffolder) {
		s.metrics = r
	}
}

// WithTracer sets the tracer for run and step spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scaffolder) {
		s.tracer = t
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scaffolder) {
		s.now = now
	}
}

// New creates a Scaffolder.
func New(fetcher fetch.Fetcher, settings *config.Settings, runner setup.Runner, log console.Logger, opts ...Option) *Scaffolder {
	s := &Scaffolder{
		fetcher:  fetcher,
		settings: settings,
		runner:   runner,
		log:      log,
		tracer:   otel.Tracer("nextbase"),
		baseDir:  ".",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TargetDir is where the project for cfg ends up.
func (s *Scaffolder) TargetDir(cfg project.Config) string {
	return filepath.Join(s.baseDir, cfg.Name)
}

// stagingDir is a hidden sibling of the target, so nested names such as
// "apps/demo" are staged inside "apps".
func (s *Scaffolder) stagingDir(cfg project.Config) string {
	target := s.TargetDir(cfg)
	return filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+stagingSuffix)
}

// Run creates the project described by cfg. The returned report is never nil
// once cfg has been validated, and on failure it names the failed step.
//
// The tree is assembled in a hidden staging directory and renamed to the
// project name only when every step succeeded. A failed run leaves the
// staging directory in place (see WithCleanFailed) and records it in the
// report.
func (s *Scaffolder) Run(ctx context.Context, cfg project.Config) (*setup.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := s.settings.FeatureTable()
	if err != nil {
		return nil, err
	}
	steps, err := setup.Plan(cfg, s.settings)
	if err != nil {
		return nil, err
	}

	target := s.TargetDir(cfg)
	staging := s.stagingDir(cfg)

	report := &setup.Report{
		Project:   cfg.Name,
		Dir:       target,
		Template:  s.fetcher.Source(),
		StartedAt: s.now(),
	}

	ctx, span := s.tracer.Start(ctx, "scaffold.run", trace.WithAttributes(
		attribute.String("nextbase.project", cfg.Name),
		attribute.String("nextbase.template", s.fetcher.Source()),
		attribute.StringSlice("nextbase.features", featureNames(cfg.Features)),
		attribute.Bool("nextbase.tailwind", cfg.Tailwind),
		attribute.Bool("nextbase.ui", cfg.UILibrary),
	))
	defer span.End()

	// An existing target or staging directory is never touched.
	if err := s.checkDestinations(target, staging); err != nil {
		s.recordFailure(report, StepFetch, 0, err)
		s.skip(report, steps)
		report.FinishedAt = s.now()
		return report, s.fail(span, err)
	}

	err = s.run(ctx, cfg, table, steps, staging, target, report)
	report.FinishedAt = s.now()

	if err != nil {
		err = s.cleanup(staging, report, err)
		return report, s.fail(span, err)
	}

	span.SetStatus(codes.Ok, "")
	s.metrics.ObserveRun(metrics.OutcomeOK)
	return report, nil
}

func (s *Scaffolder) checkDestinations(target, staging string) error {
	if err := fetch.CheckDestination(target); err != nil {
		return errors.FromError(err, "E112").WithStep(StepFetch)
	}
	if err := fetch.CheckDestination(staging); err != nil {
		return errors.FromError(err, "E112").
			WithStep(StepFetch).
			WithSuggestion("Remove '" + staging + "' left over from an earlier failed run")
	}
	return nil
}

func (s *Scaffolder) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.ObserveRun(metrics.OutcomeFailed)
	return err
}

func (s *Scaffolder) run(ctx context.Context, cfg project.Config, table project.FeatureTable, steps []setup.Step, staging, target string, report *setup.Report) error {
	// Remaining planned steps are recorded as skipped by whichever phase fails.
	skipAll := func() { s.skip(report, steps) }

	s.log.Phase("📦 Setting up %s...", cfg.Name)

	if err := os.MkdirAll(filepath.Dir(staging), 0755); err != nil {
		err = errors.New("E111").WithStep(StepFetch).Wrap(err)
		s.recordFailure(report, StepFetch, 0, err)
		skipAll()
		return err
	}

	start := s.now()
	if err := s.fetch(ctx, staging); err != nil {
		s.recordFailure(report, StepFetch, s.now().Sub(start), err)
		skipAll()
		return err
	}
	report.Record(setup.StepResult{Step: StepFetch, Status: setup.StatusOK, Duration: s.now().Sub(start)})
	s.log.Success("Starter project cloned successfully!")

	start = s.now()
	pruned, err := prune.Prune(staging, cfg.Features, table)
	if err != nil {
		err = errors.FromError(err, "E120").WithStep(StepPrune)
		s.recordFailure(report, StepPrune, s.now().Sub(start), err)
		skipAll()
		return err
	}
	report.Record(setup.StepResult{Step: StepPrune, Status: setup.StatusOK, Duration: s.now().Sub(start)})
	for _, rel := range pruned.Removed {
		s.log.Debug("removed feature file", "path", rel)
	}
	for _, rel := range pruned.Missing {
		s.log.Debug("feature file not in template", "path", rel)
	}

	orch := setup.NewOrchestrator(s.runner, s.log,
		setup.WithTracer(s.tracer),
		setup.WithMetrics(s.metrics),
		setup.WithClock(s.now),
	)
	if err := orch.Run(ctx, staging, steps, report); err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(target), 0755)
	if err == nil {
		err = os.Rename(staging, target)
	}
	if err != nil {
		err = errors.New("E133").
			WithStep(StepPromote).
			WithDetail("Could not move '" + staging + "' to '" + target + "'").
			Wrap(err)
		report.Record(setup.StepResult{Step: StepPromote, Status: setup.StatusFailed, Err: err})
		return err
	}
	s.log.Debug("project promoted", "from", staging, "to", target)
	return nil
}

func (s *Scaffolder) fetch(ctx context.Context, staging string) error {
	ctx, span := s.tracer.Start(ctx, "scaffold.fetch", trace.WithAttributes(
		attribute.String("nextbase.fetch.kind", string(s.fetcher.Kind())),
		attribute.String("nextbase.fetch.source", s.fetcher.Source()),
	))
	defer span.End()

	s.log.Debug("fetching template", "kind", s.fetcher.Kind(), "source", s.fetcher.Source(), "dst", staging)
	if err := s.fetcher.Fetch(ctx, staging); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.FromError(err, "E111").WithStep(StepFetch)
	}
	return nil
}

func (s *Scaffolder) recordFailure(report *setup.Report, step string, d time.Duration, err error) {
	report.Record(setup.StepResult{Step: step, Status: setup.StatusFailed, Duration: d, Err: err})
	s.metrics.ObserveStep(step, metrics.OutcomeFailed, d)
}

// skip records steps as skipped in both the report and the metrics.
func (s *Scaffolder) skip(report *setup.Report, steps []setup.Step) {
	report.Skip(steps...)
	for _, st := range steps {
		s.metrics.ObserveStep(st.Name, metrics.OutcomeSkipped, 0)
	}
}

// cleanup handles the staging directory after a failed run. A kept directory
// is named in the report and in the returned error.
func (s *Scaffolder) cleanup(staging string, report *setup.Report, runErr error) error {
	if _, err := os.Stat(staging); err != nil {
		return runErr
	}
	if s.cleanFailed {
		if err := os.RemoveAll(staging); err != nil {
			s.log.Warn("Could not remove %s: %v", staging, err)
		}
		return runErr
	}

	report.Staging = staging
	s.log.Warn("Partial project left in %s", staging)
	se := errors.FromError(runErr, "E130")
	kept := "Partial project kept in '" + staging + "'"
	if se.Detail == "" {
		se.Detail = kept
	} else {
		se.Detail += ". " + kept
	}
	if se.Suggestion == "" {
		se.WithSuggestion("Remove '" + staging + "' before running again")
	}
	return se
}

func featureNames(set project.FeatureSet) []string {
	ids := set.Sorted()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
