package packager

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
)

// TestRenameOutputs_Single renames the toolbox output and leaves other files alone.
func TestRenameOutputs_Single(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "LudusaviRestic_e9861c36-68a8-4654-8071-a9c50612bc24_2_0.pext", "pext")
	touch(t, dir, "Other.pext", "other")
	touch(t, dir, "notes_v2.txt", "txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "raw_dir.pext"), 0o755))

	result, err := RenameOutputs(dir, "LudusaviRestic", "2.0.0", ".pext")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "LudusaviRestic_v2.0.0.pext"), result.Path)
	require.Equal(t, []string{"LudusaviRestic_e9861c36-68a8-4654-8071-a9c50612bc24_2_0.pext"}, result.Renamed)

	require.ElementsMatch(t,
		[]string{"LudusaviRestic_v2.0.0.pext", "Other.pext", "notes_v2.txt", "raw_dir.pext"},
		names(t, dir))
}

// TestRenameOutputs_LastWriteWins keeps exactly one canonical package when several files match.
func TestRenameOutputs_LastWriteWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "Ludusavi_a.pext", "first")
	touch(t, dir, "Ludusavi_b.pext", "second")

	result, err := RenameOutputs(dir, "LudusaviRestic", "1.4.0", ".pext")
	require.NoError(t, err)
	require.Equal(t, []string{"Ludusavi_a.pext", "Ludusavi_b.pext"}, result.Renamed)
	require.Equal(t, []string{"LudusaviRestic_v1.4.0.pext"}, names(t, dir))

	contents, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	require.Equal(t, "second", string(contents))
}

// TestRenameOutputs_AlreadyCanonical keeps a canonical file in place without reporting it as renamed.
func TestRenameOutputs_AlreadyCanonical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "LudusaviRestic_v3.0.0.pext", "canonical")

	result, err := RenameOutputs(dir, "LudusaviRestic", "3.0.0", ".pext")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "LudusaviRestic_v3.0.0.pext"), result.Path)
	require.True(t, result.Existing)
	require.Empty(t, result.Renamed)
	require.Equal(t, []string{"LudusaviRestic_v3.0.0.pext"}, names(t, dir))
}

// TestRenameOutputs_ReplacesPreviousRun overwrites a canonical package left by an earlier pack.
func TestRenameOutputs_ReplacesPreviousRun(t *testing.T) {
	t.Parallel()

	for _, fresh := range []string{
		"LudusaviRestic_e9861c36_3_0.pext", // Sorts before the canonical name.
		"LudusaviRestic_x_3_0.pext",        // Sorts after it.
	} {
		dir := t.TempDir()
		touch(t, dir, "LudusaviRestic_v3.0.0.pext", "previous")
		touch(t, dir, fresh, "fresh")

		result, err := RenameOutputs(dir, "LudusaviRestic", "3.0.0", ".pext")
		require.NoError(t, err)
		require.True(t, result.Existing)
		require.Equal(t, []string{fresh}, result.Renamed)
		require.Equal(t, []string{"LudusaviRestic_v3.0.0.pext"}, names(t, dir))

		contents, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		require.Equal(t, "fresh", string(contents), fresh)
	}
}

// TestRenameOutputs_PermissionDenied reports a rename error and leaves the package where it was.
func TestRenameOutputs_PermissionDenied(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}

	dir := t.TempDir()
	touch(t, dir, "LudusaviRestic_e9861c36_2_0.pext", "pext")

	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() {
		_ = os.Chmod(dir, 0o755)
	})

	_, err := RenameOutputs(dir, "LudusaviRestic", "2.0.0", ".pext")
	require.ErrorIs(t, err, release.ErrRename)
	require.ErrorIs(t, err, os.ErrPermission)
	require.Equal(t, []string{"LudusaviRestic_e9861c36_2_0.pext"}, names(t, dir))
}

// TestRenameOutputs_NoMatches returns an empty result.
func TestRenameOutputs_NoMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "LudusaviRestic.pext", "no underscore")
	touch(t, dir, ".hidden_x.pext", "hidden")

	result, err := RenameOutputs(dir, "LudusaviRestic", "1.0.0", ".pext")
	require.NoError(t, err)
	require.Empty(t, result.Path)
	require.Empty(t, result.Renamed)
}

// TestRenameOutputs_MissingDir reports a rename error.
func TestRenameOutputs_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := RenameOutputs(filepath.Join(t.TempDir(), "dist"), "LudusaviRestic", "1.0.0", ".pext")
	require.ErrorIs(t, err, release.ErrRename)
}

func touch(t *testing.T, dir, name, contents string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func names(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}

	return result
}
