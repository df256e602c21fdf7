package fsops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
)

// DefaultDirMode is used for directories created outside the copied tree.
const DefaultDirMode os.FileMode = 0o755

var (
	errSourceNotDirectory  = errors.New("source is not a directory")
	errDestinationInSource = errors.New("destination is inside the source tree")
	errSourceInDestination = errors.New("source is inside the destination tree")
)

// Stage replaces dst with a recursive copy of src. Every failure wraps release.ErrStaging.
func Stage(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return release.NewError(release.ErrStaging, "stat source", src, err)
	}

	if !srcInfo.IsDir() {
		return release.NewError(release.ErrStaging, "stat source", src, errSourceNotDirectory)
	}

	if inside, err := isInside(src, dst); err != nil {
		return release.NewError(release.ErrStaging, "resolve destination", dst, err)
	} else if inside {
		return release.NewError(release.ErrStaging, "resolve destination", dst, errDestinationInSource)
	}

	// Removing an ancestor of src would delete the tree we are about to copy.
	if inside, err := isInside(dst, src); err != nil {
		return release.NewError(release.ErrStaging, "resolve destination", dst, err)
	} else if inside {
		return release.NewError(release.ErrStaging, "resolve destination", dst, errSourceInDestination)
	}

	if err = os.RemoveAll(dst); err != nil {
		return release.NewError(release.ErrStaging, "remove previous staging", dst, err)
	}

	if err = os.MkdirAll(filepath.Dir(dst), DefaultDirMode); err != nil {
		return release.NewError(release.ErrStaging, "create parent", filepath.Dir(dst), err)
	}

	if err = copyDir(src, dst); err != nil {
		// Never leave a partial tree behind.
		_ = os.RemoveAll(dst)

		return release.NewError(release.ErrStaging, "copy", dst, err)
	}

	return nil
}

// RemoveTree recursively removes path. A missing path is an error unless
// ignoreMissing is set. Failures wrap release.ErrClean.
func RemoveTree(path string, ignoreMissing bool) error {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && ignoreMissing {
			return nil
		}

		return release.NewError(release.ErrClean, "stat", path, err)
	}

	if err := os.RemoveAll(path); err != nil {
		return release.NewError(release.ErrClean, "remove", path, err)
	}

	return nil
}

// copyDir recursively copies the directory src to dst, which must not exist.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source directory: %w", err)
	}

	// Owner write is kept so the tree can be replaced on the next run.
	if err = os.Mkdir(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read source directory: %w", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat follows symlinks, entry.Type() does not.
		info, err := os.Stat(srcPath)
		if err != nil {
			return fmt.Errorf("stat %s: %w", srcPath, err)
		}

		switch {
		case info.IsDir():
			err = copyDir(srcPath, dstPath)
		case info.Mode().IsRegular():
			err = copyFile(srcPath, dstPath, info.Mode().Perm())
		default:
			err = fmt.Errorf("%s: unsupported file type %s", srcPath, info.Mode().Type())
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single regular file.
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}

	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()

		return fmt.Errorf("copy %s: %w", src, err)
	}

	if err = dstFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	return nil
}

// isInside reports whether dst is src or lies within it.
func isInside(src, dst string) (bool, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return false, err
	}

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(absSrc, absDst)
	if err != nil {
		return false, nil //nolint:nilerr // Different volumes cannot nest.
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}
