package packager

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oshokin/ludusavi-restic-tasks/internal/archive"
	"github.com/oshokin/ludusavi-restic-tasks/internal/config"
	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
	"github.com/oshokin/ludusavi-restic-tasks/internal/fsops"
	"github.com/oshokin/ludusavi-restic-tasks/internal/logger"
	"github.com/oshokin/ludusavi-restic-tasks/internal/manifest"
	"github.com/oshokin/ludusavi-restic-tasks/internal/runner"
	"github.com/oshokin/ludusavi-restic-tasks/internal/service/common"
)

// zipExtension is the extension of the self-produced archive.
const zipExtension = ".zip"

var (
	errToolboxIsDirectory    = errors.New("toolbox path is a directory")
	errToolboxNotExecutable  = errors.New("toolbox is not executable")
	errToolboxPathIsNotGiven = errors.New("toolbox path is empty")
)

// Options contains inputs for the packager entry point.
type Options struct {
	// Config is the repository layout; nil means config.Default().
	Config *config.Config
	// Toolbox overrides Config.Toolbox when not empty.
	Toolbox string
	// Runner executes the toolbox; nil means a runner streaming to stdout.
	Runner runner.Runner
	// Processes reports which of the given executables are running;
	// nil means common.RunningProcesses.
	Processes func(names []string) ([]string, error)
}

// Report lists what a successful pack produced.
type Report struct {
	// Version is the manifest version the artifacts are named after.
	Version string
	// Package is the canonical .pext path, empty when the toolbox produced no matching file.
	Package string
	// Archive is the zip of the staged tree.
	Archive *archive.Artifact
}

// packager holds the state of a single pack run.
// It is unexported; callers should use Run.
type packager struct {
	cfg       *config.Config
	toolbox   string
	runner    runner.Runner
	processes func(names []string) ([]string, error)
	version   string
}

// Run executes the packaging workflow:
// read manifest, stage, run toolbox, rename package, zip.
// Any failure aborts the remaining steps.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	ctx = logger.WithName(ctx, "pack")

	p, err := newPackager(opts)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx)
}

func newPackager(opts *Options) (*packager, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	p := &packager{
		cfg:       cfg,
		toolbox:   cfg.Toolbox,
		runner:    opts.Runner,
		processes: opts.Processes,
	}

	if opts.Toolbox != "" {
		p.toolbox = opts.Toolbox
	}

	if p.runner == nil {
		p.runner = runner.NewExecRunner(os.Stdout)
	}

	if p.processes == nil {
		p.processes = common.RunningProcesses
	}

	return p, nil
}

// Run performs the steps in order.
func (p *packager) Run(ctx context.Context) (*Report, error) {
	manifestPath := p.cfg.Resolve(p.cfg.Manifest)

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return nil, err
	}

	p.version = m.Version
	ctx = logger.WithKV(ctx, "version", p.version)

	logger.InfoKV(ctx, "Read manifest", "path", manifestPath, "extension", m.String())

	p.warnIfPlayniteRunning(ctx)

	var (
		source  = p.cfg.Resolve(p.cfg.BuildOutput)
		staging = p.cfg.Resolve(p.cfg.StagingDir)
		output  = p.cfg.Resolve(p.cfg.OutputDir)
	)

	logger.InfoKV(ctx, "Staging build output", "source", source, "staging", staging)

	if err = fsops.Stage(source, staging); err != nil {
		return nil, err
	}

	if err = p.runToolbox(ctx, staging, output); err != nil {
		return nil, err
	}

	pkg, err := p.renamePackages(ctx, output)
	if err != nil {
		return nil, err
	}

	zipPath := filepath.Join(output, release.ArtifactName(p.cfg.ArtifactName, p.version, zipExtension))

	logger.InfoKV(ctx, "Creating zip archive", "path", zipPath)

	artifact, err := archive.CreateZip(staging, zipPath)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Version: p.version,
		Package: pkg,
		Archive: artifact,
	}

	p.printSummary(ctx, report)

	return report, nil
}

// runToolbox invokes `"<toolbox>" pack "<staging>" "<output>"` and waits for it.
func (p *packager) runToolbox(ctx context.Context, staging, output string) error {
	toolbox, err := ResolveToolbox(p.toolbox)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(output, fsops.DefaultDirMode); err != nil {
		return release.NewError(release.ErrPackaging, "create output directory", output, err)
	}

	cmd := runner.Command{
		Name: toolbox,
		Args: []string{"pack", staging, output},
		Dir:  p.cfg.Root,
	}

	logger.InfoKV(ctx, "Running toolbox", "command", cmd.String())

	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return release.NewError(release.ErrPackaging, "run toolbox", toolbox, err)
	}

	if !res.Success() {
		return &release.StepError{
			Kind: release.ErrPackaging,
			Op:   "run toolbox",
			Path: toolbox,
			Code: res.ExitCode,
		}
	}

	return nil
}

// renamePackages applies RenameOutputs and logs the outcome.
func (p *packager) renamePackages(ctx context.Context, output string) (string, error) {
	result, err := RenameOutputs(output, p.cfg.ArtifactName, p.version, p.cfg.PackageExtension)
	if err != nil {
		return "", err
	}

	switch len(result.Renamed) {
	case 0:
		if result.Existing {
			logger.WarnKV(ctx, "Toolbox produced no new package, keeping the existing one", "path", result.Path)
		} else {
			logger.WarnKV(ctx, "Toolbox produced no package to rename",
				"dir", output, "pattern", "*_*"+p.cfg.PackageExtension)
		}
	case 1:
		logger.InfoKV(ctx, "Renamed package", "from", result.Renamed[0], "to", result.Path)
	default:
		// Later matches overwrite earlier ones; the last in name order wins.
		logger.WarnKV(ctx, "Several packages matched, each overwrote the previous one",
			"matched", result.Renamed, "kept", result.Renamed[len(result.Renamed)-1], "to", result.Path)
	}

	return result.Path, nil
}

// warnIfPlayniteRunning warns when Playnite may hold the build output open.
func (p *packager) warnIfPlayniteRunning(ctx context.Context) {
	running, err := p.processes(common.PlayniteProcesses)
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(running) > 0 {
		logger.WarnKV(ctx, "Playnite is running and may lock extension files; close it if staging fails",
			"processes", running)
	}
}

// printSummary logs the produced artifacts with their SHA-512 checksums.
func (p *packager) printSummary(ctx context.Context, report *Report) {
	var builder strings.Builder

	builder.WriteString("Release ")
	builder.WriteString(report.Version)
	builder.WriteString(" is ready:")

	if report.Package != "" {
		builder.WriteString("\n")
		builder.WriteString(report.Package)

		if checksum, err := archive.FileChecksum(report.Package); err == nil {
			builder.WriteString("\n  sha512: ")
			builder.WriteString(base64.StdEncoding.EncodeToString(checksum))
		}
	}

	builder.WriteString("\n")
	builder.WriteString(report.Archive.Path)
	builder.WriteString("\n  sha512: ")
	builder.WriteString(base64.StdEncoding.EncodeToString(report.Archive.Checksum))

	logger.Info(ctx, builder.String())
}

// ResolveToolbox expands a leading ~ and checks that path names an executable file.
// Failures wrap release.ErrPackaging.
func ResolveToolbox(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", release.NewError(release.ErrPackaging, "resolve toolbox", "", errToolboxPathIsNotGiven)
	}

	expanded, err := config.ExpandHome(path)
	if err != nil {
		return "", release.NewError(release.ErrPackaging, "resolve toolbox", path, err)
	}

	info, err := os.Stat(expanded)
	if err != nil {
		return "", release.NewError(release.ErrPackaging, "resolve toolbox", expanded, err)
	}

	if info.IsDir() {
		return "", release.NewError(release.ErrPackaging, "resolve toolbox", expanded, errToolboxIsDirectory)
	}

	// Windows has no executable bit; CreateProcess decides.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return "", release.NewError(release.ErrPackaging, "resolve toolbox", expanded, errToolboxNotExecutable)
	}

	return expanded, nil
}
