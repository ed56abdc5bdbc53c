package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextbase-dev/nextbase/internal/config"
	"github.com/nextbase-dev/nextbase/internal/project"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the nextbase build and the starter it scaffolds by default:
template source, package manager and the Supabase features on offer.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}

			ids := make([]string, 0, len(project.AllFeatures))
			for _, id := range project.AllFeatures {
				ids = append(ids, string(id))
			}

			fmt.Fprintf(out, "nextbase %s (%s, built %s)\n", version, commit, date)
			fmt.Fprintf(out, "  %s %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "  Template:         %s\n", config.DefaultTemplate)
			fmt.Fprintf(out, "  Package manager:  %s (supported: %s)\n", config.DefaultPackageManager, strings.Join(config.PackageManagers(), ", "))
			fmt.Fprintf(out, "  Features:         %s\n", strings.Join(ids, ", "))
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
