package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
)

const validManifest = `Id: LudusaviRestic_e9861c36-68a8-4654-8071-a9c50612bc24
Name: Ludusavi Restic
Author: sharkusk
Version: "2.0.0"
Module: LudusaviRestic.dll
Type: GenericPlugin
Icon: icon.png
`

// TestRead_ReturnsVersion verifies that a valid manifest yields exactly the declared version.
func TestRead_ReturnsVersion(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, validManifest)

	m, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", m.Version)
	require.Equal(t, "Ludusavi Restic", m.Name)
	require.Equal(t, "GenericPlugin", m.Type)
	require.Equal(t, "Ludusavi Restic 2.0.0 (LudusaviRestic_e9861c36-68a8-4654-8071-a9c50612bc24)", m.String())
}

// TestParse_Versions covers the accepted spellings of the version scalar.
func TestParse_Versions(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Version: 1.2.3":                  "1.2.3",
		"Version: '0.9'":                  "0.9",
		"Version: 1.10":                   "1.10",
		"Version: 3":                      "3",
		"Version: \" 4.0 \"":              "4.0",
		"Name: x\nVersion: v5":            "v5",
		"base: &v \"1.2.3\"\nVersion: *v": "1.2.3",
	}
	for doc, want := range cases {
		m, err := Parse([]byte(doc))
		require.NoError(t, err, doc)
		require.Equal(t, want, m.Version, doc)
	}
}

// TestRead_Failures ensures missing files, malformed documents and missing keys wrap ErrManifest.
func TestRead_Failures(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "extension.yaml"))
	require.ErrorIs(t, err, release.ErrManifest)
	require.ErrorIs(t, err, os.ErrNotExist)

	for _, doc := range []string{
		"Name: Ludusavi Restic\n",
		"Version: [1, 2]\n",
		"Version:\n",
		"Version: ''\n",
		"- Version: 1.0\n",
		"Version: \"1.0\n",
		"Version: 1/../../../x\n",
		"Version: '1\\x'\n",
		"base: &v [1]\nVersion: *v\n",
		"",
	} {
		_, err = Read(writeManifest(t, doc))
		require.ErrorIs(t, err, release.ErrManifest, doc)
	}
}

// TestParse_VersionWithSeparator rejects versions that would escape the output directory.
func TestParse_VersionWithSeparator(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{"Version: 1/../../../x", `Version: '..\evil'`} {
		_, err := Parse([]byte(doc))
		require.ErrorIs(t, err, errVersionIsPath, doc)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "extension.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}
