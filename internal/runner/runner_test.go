package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

var errNotStarted = errors.New("not started")

// TestCommand_String checks quoting of arguments with spaces.
func TestCommand_String(t *testing.T) {
	t.Parallel()

	cmd := Command{
		Name: `C:\Users\me\AppData\Local\Playnite\Toolbox.exe`,
		Args: []string{"pack", `C:\repo with space\dist\raw`, "dist"},
	}

	require.Equal(t, `C:\Users\me\AppData\Local\Playnite\Toolbox.exe pack "C:\repo with space\dist\raw" dist`, cmd.String())
}

// TestExecRunner_ExitCodes runs real shell commands and checks exit status propagation.
func TestExecRunner_ExitCodes(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}

	var streamed bytes.Buffer

	r := NewExecRunner(&streamed)

	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo packed"}})
	require.NoError(t, err)
	require.True(t, res.Success())
	require.Equal(t, "packed\n", string(res.Output))
	require.Equal(t, "packed\n", streamed.String())

	res, err = r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo failed >&2; exit 3"}})
	require.NoError(t, err)
	require.False(t, res.Success())
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "failed\n", string(res.Output))
}

// TestExecRunner_WorkingDirectory ensures Dir is honored.
func TestExecRunner_WorkingDirectory(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0o600))

	res, err := new(ExecRunner).Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "ls"}, Dir: dir})
	require.NoError(t, err)
	require.Equal(t, "marker\n", string(res.Output))
}

// TestExecRunner_MissingExecutable reports a start failure as an error.
func TestExecRunner_MissingExecutable(t *testing.T) {
	t.Parallel()

	res, err := new(ExecRunner).Run(context.Background(), Command{Name: filepath.Join(t.TempDir(), "no-such-tool")})
	require.Error(t, err)
	require.Nil(t, res)
}

// TestFake records calls and delegates to the handler.
func TestFake(t *testing.T) {
	t.Parallel()

	f := new(Fake)

	res, err := f.Run(context.Background(), Command{Name: "dotnet", Args: []string{"build"}})
	require.NoError(t, err)
	require.True(t, res.Success())

	f.Handler = ExitWith(2, "error CS1002")

	res, err = f.Run(context.Background(), Command{Name: "dotnet", Args: []string{"format"}})
	require.NoError(t, err)
	require.Equal(t, 2, res.ExitCode)

	f.Handler = func(context.Context, Command) (*Result, error) { return nil, errNotStarted }

	_, err = f.Run(context.Background(), Command{Name: "Toolbox.exe"})
	require.ErrorIs(t, err, errNotStarted)

	calls := f.Calls()
	require.Len(t, calls, 3)
	require.Equal(t, "dotnet build", calls[0].String())
	require.Equal(t, "Toolbox.exe", calls[2].Name)
}
