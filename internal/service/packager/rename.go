package packager

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
)

// RenameResult describes what RenameOutputs did.
type RenameResult struct {
	// Path is the canonical package path, empty when no package matched.
	Path string
	// Renamed lists the original file names in the order they were renamed.
	// A file that already had the canonical name is not listed.
	Renamed []string
	// Existing reports that the directory already held a canonical package,
	// which Renamed entries, if any, replaced.
	Existing bool
}

// RenameOutputs renames every "*<ext>" file in dir whose name contains an
// underscore to "<base>_v<version><ext>". Hidden files are ignored. Files are processed in name order and
// each rename replaces the previous one, so with several matches the last wins.
// Failures wrap release.ErrRename; earlier renames are not undone.
func RenameOutputs(dir, base, version, ext string) (*RenameResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, release.NewError(release.ErrRename, "list", dir, err)
	}

	var (
		canonicalName = release.ArtifactName(base, version, ext)
		canonical     = filepath.Join(dir, canonicalName)
		result        = new(RenameResult)
	)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) || !strings.Contains(name, "_") {
			continue
		}

		result.Path = canonical

		if name == canonicalName {
			result.Existing = true
			continue
		}

		if err = os.Rename(filepath.Join(dir, name), canonical); err != nil {
			return nil, release.NewError(release.ErrRename, "rename "+name+" to", canonical, err)
		}

		result.Renamed = append(result.Renamed, name)
	}

	return result, nil
}
