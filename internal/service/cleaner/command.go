package cleaner

import (
	"context"

	"github.com/oshokin/ludusavi-restic-tasks/internal/config"
	"github.com/oshokin/ludusavi-restic-tasks/internal/fsops"
	"github.com/oshokin/ludusavi-restic-tasks/internal/logger"
)

// Options contains inputs for the cleaner entry point.
type Options struct {
	// Config is the repository layout; nil means config.Default().
	Config *config.Config
	// IgnoreMissing turns a missing output directory into a no-op.
	// By default it is a release.ErrClean failure.
	IgnoreMissing bool
}

// Run recursively deletes the output directory.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "clean")

	if opts == nil {
		opts = new(Options)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	output := cfg.Resolve(cfg.OutputDir)

	logger.InfoKV(ctx, "Removing output directory", "path", output)

	if err := fsops.RemoveTree(output, opts.IgnoreMissing); err != nil {
		return err
	}

	logger.Info(ctx, "Done")

	return nil
}
