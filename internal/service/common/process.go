//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-ps"
)

// PlayniteProcesses are the Playnite executables that load installed extensions.
//
//nolint:gochecknoglobals // Read-only list of well-known executable names.
var PlayniteProcesses = []string{
	"Playnite.DesktopApp.exe",
	"Playnite.FullscreenApp.exe",
}

// ProcessLister lists running processes. ps.Processes satisfies it.
type ProcessLister func() ([]ps.Process, error)

// RunningProcesses returns the sorted, de-duplicated executable names from
// names that belong to a running process other than the current one.
// Names are compared case-insensitively, as on Windows.
func RunningProcesses(names []string) ([]string, error) {
	return runningProcesses(ps.Processes, names)
}

func runningProcesses(list ProcessLister, names []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = struct{}{}
	}

	processList, err := list()
	if err != nil {
		return nil, err
	}

	thisProcessID := os.Getpid()
	found := make(map[string]struct{})

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		processName := process.Executable()
		if _, ok := wanted[strings.ToLower(processName)]; !ok {
			continue
		}

		found[processName] = struct{}{}
	}

	result := make([]string, 0, len(found))
	for name := range found {
		result = append(result, name)
	}

	sort.Strings(result)

	return result, nil
}
