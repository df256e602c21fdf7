package archive

import (
	"archive/zip"
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultFileMode is the mode of produced archives.
	DefaultFileMode os.FileMode = 0o644

	// DefaultChecksumFunction is used for archive verification and release checksums.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512
)

var errHashUnavailable = errors.New("hash function unavailable")

// Artifact describes a written archive.
type Artifact struct {
	// Path is the archive location.
	Path string
	// Entries is the number of files and directories stored.
	Entries int
	// Size is the archive size in bytes.
	Size int64
	// Checksum is the DefaultChecksumFunction digest of the archive.
	Checksum []byte
}

// CreateZip writes a deflate zip of every file and directory under srcDir to target.
// Entry names are slash-separated and relative to srcDir. Failures wrap release.ErrArchive.
func CreateZip(srcDir, target string) (*Artifact, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, release.NewError(release.ErrArchive, "stat source", srcDir, err)
	}

	if !info.IsDir() {
		return nil, release.NewError(release.ErrArchive, "stat source", srcDir, fs.ErrInvalid)
	}

	var buf bytes.Buffer

	entries, err := writeZip(&buf, srcDir)
	if err != nil {
		return nil, release.NewError(release.ErrArchive, "compress", srcDir, err)
	}

	checksum, err := Checksum(buf.Bytes())
	if err != nil {
		return nil, release.NewError(release.ErrArchive, "checksum", target, err)
	}

	if err = apply(target, buf.Bytes(), checksum); err != nil {
		return nil, release.NewError(release.ErrArchive, "write", target, err)
	}

	return &Artifact{
		Path:     target,
		Entries:  entries,
		Size:     int64(buf.Len()),
		Checksum: checksum,
	}, nil
}

// writeZip streams the tree rooted at srcDir into w and returns the number of entries.
func writeZip(w io.Writer, srcDir string) (int, error) {
	zw := zip.NewWriter(w)
	entries := 0

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}

		header.Name = filepath.ToSlash(rel)

		if info.IsDir() {
			header.Name += "/"
			header.Method = zip.Store
		} else {
			header.Method = zip.Deflate
		}

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		entries++

		if info.IsDir() {
			return nil
		}

		return copyInto(entry, path)
	})
	if err != nil {
		_ = zw.Close()

		return 0, err
	}

	if err = zw.Close(); err != nil {
		return 0, err
	}

	return entries, nil
}

func copyInto(w io.Writer, path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	_, err = io.Copy(w, f)

	return err
}

// apply swaps data into target with checksum validation.
func apply(target string, data, checksum []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	// go-update renames the current target aside first, so it has to exist.
	created := false

	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		placeholder, err := os.Create(filepath.Clean(target))
		if err != nil {
			return err
		}

		if err = placeholder.Close(); err != nil {
			return err
		}

		created = true
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       DefaultChecksumFunction,
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		if created {
			_ = os.Remove(target)
		}

		return err
	}

	dir, name := filepath.Split(target)
	for _, oldFileName := range []string{target + ".old", filepath.Join(dir, "."+name+".old")} {
		if _, err := os.Stat(oldFileName); err == nil {
			_ = os.Remove(oldFileName)
		}
	}

	return nil
}

// Checksum returns the DefaultChecksumFunction digest of data.
func Checksum(data []byte) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// FileChecksum returns the DefaultChecksumFunction digest of the file at path.
func FileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	return Checksum(contents)
}
