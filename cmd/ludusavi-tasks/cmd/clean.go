package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ludusavi-restic-tasks/internal/service/cleaner"
)

// ignoreMissing makes clean succeed when there is nothing to remove.
var ignoreMissing bool

// cleanCmd removes the artifact directory.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the dist directory and everything in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cleaner.Run(cmd.Context(), &cleaner.Options{
			Config:        settings,
			IgnoreMissing: ignoreMissing,
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	cleanCmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "succeed when the dist directory does not exist")
	rootCmd.AddCommand(cleanCmd)
}
