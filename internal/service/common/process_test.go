//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"os"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

var errListFailed = errors.New("list failed")

// fakeProcess is a static ps.Process.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int { return p.pid }
func (p fakeProcess) PPid() int { return 0 }
func (p fakeProcess) Executable() string { return p.name }

// TestRunningProcesses_Matches filters, de-duplicates and sorts matching executables.
func TestRunningProcesses_Matches(t *testing.T) {
	t.Parallel()

	list := func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: 10, name: "explorer.exe"},
			fakeProcess{pid: 11, name: "playnite.fullscreenapp.exe"},
			fakeProcess{pid: 12, name: "Playnite.DesktopApp.exe"},
			fakeProcess{pid: 13, name: "Playnite.DesktopApp.exe"},
			fakeProcess{pid: os.Getpid(), name: "Playnite.DesktopApp.exe"},
		}, nil
	}

	got, err := runningProcesses(list, PlayniteProcesses)
	require.NoError(t, err)
	require.Equal(t, []string{"Playnite.DesktopApp.exe", "playnite.fullscreenapp.exe"}, got)
}

// TestRunningProcesses_ListError propagates lister failures.
func TestRunningProcesses_ListError(t *testing.T) {
	t.Parallel()

	_, err := runningProcesses(func() ([]ps.Process, error) { return nil, errListFailed }, PlayniteProcesses)
	require.ErrorIs(t, err, errListFailed)
}

// TestRunningProcesses_Real queries the real process table for a name that cannot exist.
func TestRunningProcesses_Real(t *testing.T) {
	t.Parallel()

	got, err := RunningProcesses([]string{"ludusavi-no-such-process.exe"})
	require.NoError(t, err)
	require.Empty(t, got)
}
