package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the repository layout and tool locations used by every task.
// Paths other than Root and Toolbox are relative to Root.
type Config struct {
	// Root is the repository root all relative paths are resolved against.
	// Validate turns it into an absolute path.
	Root string `yaml:"root"`
	// Manifest is the extension manifest holding the release version.
	Manifest string `yaml:"manifest"`
	// SourceDir is the project directory passed to the build tool and formatter.
	SourceDir string `yaml:"source_dir"`
	// BuildOutput is the compiled output directory that gets staged.
	BuildOutput string `yaml:"build_output"`
	// StagingDir receives a fresh copy of BuildOutput on every pack.
	StagingDir string `yaml:"staging_dir"`
	// OutputDir is where the packager and the zip step write their archives.
	OutputDir string `yaml:"output_dir"`
	// Toolbox is the path to the Playnite packaging executable. A leading ~ is expanded.
	Toolbox string `yaml:"toolbox"`
	// ArtifactName is the base name of produced artifacts.
	ArtifactName string `yaml:"artifact_name"`
	// PackageExtension is the extension of packager-produced archives, with the dot.
	PackageExtension string `yaml:"package_extension"`
	// Dotnet is the build tool executable.
	Dotnet string `yaml:"dotnet"`
	// BuildConfiguration is passed to the build tool via -c.
	BuildConfiguration string `yaml:"build_configuration"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the optional settings file looked up in the working directory.
	DefaultConfigFilename = "ludusavi-tasks.yaml"

	// DefaultManifest is the Playnite extension manifest.
	DefaultManifest = "extension.yaml"
	// DefaultSourceDir is the extension project directory.
	DefaultSourceDir = "src"
	// DefaultBuildOutput is where a Release build of the net462 target lands.
	DefaultBuildOutput = "src/bin/Release/net462"
	// DefaultStagingDir is the staging directory consumed by the packager and the zip step.
	DefaultStagingDir = "dist/raw"
	// DefaultOutputDir is the artifact directory removed by clean.
	DefaultOutputDir = "dist"
	// DefaultToolbox is the location the Playnite installer puts Toolbox.exe into.
	DefaultToolbox = "~/AppData/Local/Playnite/Toolbox.exe"
	// DefaultArtifactName is the base name of release artifacts.
	DefaultArtifactName = "LudusaviRestic"
	// DefaultPackageExtension is the extension of Playnite extension packages.
	DefaultPackageExtension = ".pext"
	// DefaultDotnet is the build tool.
	DefaultDotnet = "dotnet"
	// DefaultBuildConfiguration is the build configuration that produces BuildOutput.
	DefaultBuildConfiguration = "Release"
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

var (
	errConfigIsNotSet       = errors.New("configuration is not set")
	errAbsolutePath         = errors.New("path must be relative to the repository root")
	errEscapingPath         = errors.New("path must stay inside the repository root")
	errEmptyArtifactName    = errors.New("artifact name must not be empty")
	errBadPackageExtension  = errors.New("package extension must start with a dot")
	errStagingIsOutputDir   = errors.New("staging directory must differ from the output directory")
	errStagingOverlaps      = errors.New("staging directory must not contain the sources, the build output or the output directory")
	errHomeDirUnavailable   = errors.New("home directory is unavailable")
	errConfigPathNotFound   = errors.New("settings file not found")
	errRootIsNotADirectory  = errors.New("repository root is not a directory")
	errEmptyRepositoryPaths = errors.New("repository paths must not be empty")
)

// Default returns a configuration with every field set to its default value.
func Default() *Config {
	return &Config{
		Root:               ".",
		Manifest:           DefaultManifest,
		SourceDir:          DefaultSourceDir,
		BuildOutput:        DefaultBuildOutput,
		StagingDir:         DefaultStagingDir,
		OutputDir:          DefaultOutputDir,
		Toolbox:            DefaultToolbox,
		ArtifactName:       DefaultArtifactName,
		PackageExtension:   DefaultPackageExtension,
		Dotnet:             DefaultDotnet,
		BuildConfiguration: DefaultBuildConfiguration,
		LogLevel:           DefaultLogLevel,
	}
}

// Load reads settings from path on top of the defaults and validates them.
// An empty path means DefaultConfigFilename, which may be absent.
// An explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Defaults only.
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%s: %w", path, errConfigPathNotFound)
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fills empty fields with defaults, makes Root absolute and checks the repository layout.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}

	cfg.Root = root

	if info, err := os.Stat(cfg.Root); err == nil && !info.IsDir() {
		return fmt.Errorf("%s: %w", cfg.Root, errRootIsNotADirectory)
	}

	for name, rel := range map[string]string{
		"manifest":     cfg.Manifest,
		"source_dir":   cfg.SourceDir,
		"build_output": cfg.BuildOutput,
		"staging_dir":  cfg.StagingDir,
		"output_dir":   cfg.OutputDir,
	} {
		if err := validateRelPath(rel); err != nil {
			return fmt.Errorf("%s %q: %w", name, rel, err)
		}
	}

	if filepath.Clean(cfg.StagingDir) == filepath.Clean(cfg.OutputDir) {
		return errStagingIsOutputDir
	}

	// Staging is removed on every pack.
	for name, rel := range map[string]string{
		"source_dir":   cfg.SourceDir,
		"build_output": cfg.BuildOutput,
		"output_dir":   cfg.OutputDir,
	} {
		if containsPath(cfg.StagingDir, rel) {
			return fmt.Errorf("staging_dir %q, %s %q: %w", cfg.StagingDir, name, rel, errStagingOverlaps)
		}
	}

	if strings.TrimSpace(cfg.ArtifactName) == "" {
		return errEmptyArtifactName
	}

	if !strings.HasPrefix(cfg.PackageExtension, ".") || len(cfg.PackageExtension) < 2 {
		return fmt.Errorf("%q: %w", cfg.PackageExtension, errBadPackageExtension)
	}

	return nil
}

// Resolve joins a repository-relative path to the configured root.
func (c *Config) Resolve(rel string) string {
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// ExpandHome replaces a leading "~" with the home directory of the current user.
// Paths such as "~user/x" are returned untouched.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errHomeDirUnavailable, err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, filepath.FromSlash(strings.ReplaceAll(path[2:], `\`, "/"))), nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()

	for _, field := range []struct {
		value    *string
		fallback string
	}{
		{&cfg.Root, defaults.Root},
		{&cfg.Manifest, defaults.Manifest},
		{&cfg.SourceDir, defaults.SourceDir},
		{&cfg.BuildOutput, defaults.BuildOutput},
		{&cfg.StagingDir, defaults.StagingDir},
		{&cfg.OutputDir, defaults.OutputDir},
		{&cfg.Toolbox, defaults.Toolbox},
		{&cfg.ArtifactName, defaults.ArtifactName},
		{&cfg.PackageExtension, defaults.PackageExtension},
		{&cfg.Dotnet, defaults.Dotnet},
		{&cfg.BuildConfiguration, defaults.BuildConfiguration},
		{&cfg.LogLevel, defaults.LogLevel},
	} {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
	}
}

func validateRelPath(rel string) error {
	cleaned := filepath.Clean(filepath.FromSlash(rel))

	switch {
	case cleaned == "" || cleaned == ".":
		return errEmptyRepositoryPaths
	case filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "":
		return errAbsolutePath
	case cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)):
		return errEscapingPath
	}

	return nil
}

// containsPath reports whether the repository-relative path child is parent or lies within it.
func containsPath(parent, child string) bool {
	parent = filepath.Clean(filepath.FromSlash(parent))
	child = filepath.Clean(filepath.FromSlash(child))

	return child == parent || strings.HasPrefix(child, parent+string(filepath.Separator))
}
