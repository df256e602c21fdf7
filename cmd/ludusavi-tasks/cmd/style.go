package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ludusavi-restic-tasks/internal/service/builder"
)

// styleCmd formats the extension sources.
var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Format the extension sources with dotnet format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return builder.Style(cmd.Context(), &builder.Options{Config: settings})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(styleCmd)
}
