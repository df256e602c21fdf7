package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ludusavi-restic-tasks/internal/service/builder"
)

// buildCmd compiles the extension in release configuration.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the extension with dotnet in release configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return builder.Build(cmd.Context(), &builder.Options{Config: settings})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(buildCmd)
}
