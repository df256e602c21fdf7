package builder

import (
	"context"
	"os"

	"github.com/oshokin/ludusavi-restic-tasks/internal/config"
	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
	"github.com/oshokin/ludusavi-restic-tasks/internal/logger"
	"github.com/oshokin/ludusavi-restic-tasks/internal/runner"
)

// Options contains inputs for the build and style entry points.
type Options struct {
	// Config is the repository layout; nil means config.Default().
	Config *config.Config
	// Runner executes the tool; nil means a runner streaming to stdout.
	Runner runner.Runner
}

// Build compiles the extension: dotnet build <source_dir> -c <configuration>.
func Build(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "build")

	cfg, r, err := prepare(opts)
	if err != nil {
		return err
	}

	return run(ctx, r, runner.Command{
		Name: cfg.Dotnet,
		Args: []string{"build", cfg.SourceDir, "-c", cfg.BuildConfiguration},
		Dir:  cfg.Root,
	})
}

// Style formats the extension sources: dotnet format <source_dir>.
func Style(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "style")

	cfg, r, err := prepare(opts)
	if err != nil {
		return err
	}

	return run(ctx, r, runner.Command{
		Name: cfg.Dotnet,
		Args: []string{"format", cfg.SourceDir},
		Dir:  cfg.Root,
	})
}

func prepare(opts *Options) (*config.Config, runner.Runner, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	r := opts.Runner
	if r == nil {
		r = runner.NewExecRunner(os.Stdout)
	}

	return cfg, r, nil
}

// run executes cmd and turns a failure into a release.ErrCommand carrying the exit status.
func run(ctx context.Context, r runner.Runner, cmd runner.Command) error {
	logger.InfoKV(ctx, "Running", "command", cmd.String(), "dir", cmd.Dir)

	res, err := r.Run(ctx, cmd)
	if err != nil {
		return release.NewError(release.ErrCommand, cmd.String(), "", err)
	}

	if !res.Success() {
		return &release.StepError{
			Kind: release.ErrCommand,
			Op:   cmd.String(),
			Code: res.ExitCode,
		}
	}

	logger.Info(ctx, "Done")

	return nil
}
