package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := rootCmd(defaultEnv())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errors.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func rootCmd(env *env) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "nextbase",
		Short: "Create a Next.js + Supabase project",
		Long: `Nextbase creates a new Next.js project wired for Supabase.

It asks for a project name, the Supabase features to include and whether
to add Tailwind CSS and shadcn/ui, then fetches the starter template,
removes the files of features you did not pick, installs dependencies
and makes the first git commit.

Examples:
  nextbase
  nextbase --template github:acme/starter#v2
  nextbase --config nextbase.yaml --report run.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), opts, env)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.template, "template", "t", "", "Template source (git URL, github:owner/repo[#ref], archive URL, s3://bucket/prefix or directory)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Settings file (YAML)")
	flags.BoolVar(&opts.cleanFailed, "clean-failed", false, "Remove the partially built project when a step fails")
	flags.StringVar(&opts.reportPath, "report", "", "Write a JSON run report to this file")
	flags.StringVar(&opts.metricsPath, "metrics-file", "", "Write Prometheus metrics to this file")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")

	return cmd
}
