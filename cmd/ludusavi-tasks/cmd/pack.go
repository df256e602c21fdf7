package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ludusavi-restic-tasks/internal/config"
	"github.com/oshokin/ludusavi-restic-tasks/internal/service/packager"
)

// packCmd stages the build output and produces the .pext and .zip artifacts.
var packCmd = &cobra.Command{
	Use:   "pack [toolbox-path]",
	Short: "Package the build output into .pext and .zip release artifacts",
	Long: "Copy the build output into the staging directory, run the Playnite Toolbox on it, " +
		"rename the produced package after the manifest version and zip the staged tree.\n\n" +
		"The toolbox path defaults to " + config.DefaultToolbox + " or the toolbox setting.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options := &packager.Options{Config: settings}
		if len(args) == 1 {
			options.Toolbox = args[0]
		}

		_, err := packager.Run(cmd.Context(), options)

		return err
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(packCmd)
}
