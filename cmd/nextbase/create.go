package main

import (
	"context"
	"io"
	"os"

	"github.com/nextbase-dev/nextbase/internal/config"
	"github.com/nextbase-dev/nextbase/internal/console"
	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/fetch"
	"github.com/nextbase-dev/nextbase/internal/metrics"
	"github.com/nextbase-dev/nextbase/internal/prompt"
	"github.com/nextbase-dev/nextbase/internal/scaffold"
	"github.com/nextbase-dev/nextbase/internal/setup"
)

type createOptions struct {
	template    string
	configPath  string
	cleanFailed bool
	reportPath  string
	metricsPath string
	noColor     bool
	logLevel    string
}

// env holds the process-level collaborators of a create run.
type env struct {
	stdout  io.Writer
	stderr  io.Writer
	lookup  func(string) (string, bool)
	driver  prompt.Driver
	runner  func(tailLines int) setup.Runner
	baseDir string
}

func defaultEnv() *env {
	return &env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: os.LookupEnv,
		driver: prompt.NewSurveyDriver(),
		runner: func(tailLines int) setup.Runner {
			return setup.NewExecRunner(tailLines)
		},
		baseDir: ".",
	}
}

// runCreate runs the interactive create flow. It returns an error only when
// nothing was attempted: invalid settings or an abandoned questionnaire. A
// failed run is reported on stderr and returns nil.
func runCreate(ctx context.Context, opts *createOptions, env *env) error {
	log, err := console.New(console.Options{
		Out:     env.stdout,
		Err:     env.stderr,
		Level:   opts.logLevel,
		NoColor: opts.noColor,
	})
	if err != nil {
		return errors.New("E141").WithDetail(err.Error())
	}
	if opts.noColor {
		errors.DisableColors()
	}

	settings, err := config.Load(opts.configPath, env.lookup)
	if err != nil {
		return err
	}
	if opts.template != "" {
		settings.Template = opts.template
	}
	log.Debug("settings loaded", "file", settings.Path(), "template", settings.Template, "packageManager", settings.PackageManager)

	fetcher, err := fetch.New(settings.Template, fetch.WithProgress(env.stderr))
	if err != nil {
		return err
	}

	log.Banner()

	cfg, err := prompt.NewCollector(env.driver).Collect(ctx)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	s := scaffold.New(fetcher, settings, env.runner(settings.OutputTail), log,
		scaffold.WithBaseDir(env.baseDir),
		scaffold.WithCleanFailed(opts.cleanFailed),
		scaffold.WithMetrics(rec),
	)

	report, runErr := s.Run(ctx, cfg)

	if opts.reportPath != "" && report != nil {
		if err := report.WriteFile(opts.reportPath); err != nil {
			log.Warn("Could not write report: %v", err)
		}
	}
	if opts.metricsPath != "" {
		if err := rec.WriteTextfile(opts.metricsPath); err != nil {
			log.Warn("%v", errors.New("E151").Wrap(err))
		}
	}

	if runErr != nil {
		log.Error("Error setting up project")
		errors.PrintError(log.ErrWriter(), runErr)
		return nil
	}

	log.Phase("🚀 Setup complete! Run:")
	log.Hint("cd %s", cfg.Name)
	log.Hint("%s", settings.DevCommand())
	return nil
}
