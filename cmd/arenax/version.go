package main

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/arenax/arenax/internal/build"
)

func newVersionCommand() *cobra.Command {
	var latest string

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Show version",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == "" {
				fmt.Fprintln(cmd.OutOrStdout(), build.Version)
				return nil
			}

			if _, err := semver.NewVersion(latest); err != nil {
				return fmt.Errorf("invalid --latest version %q: %w", latest, err)
			}

			if build.IsNewer(build.Version, latest) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (update available: %s)\n", build.Version, latest)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (up to date)\n", build.Version)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&latest, "latest", "", "compare against a released version")

	return cmd
}

func newBuildInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build-info",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.GetBuildInfo())
		},
	}
}
