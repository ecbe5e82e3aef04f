package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicekit/slicekit/internal/slicer"
)

func TestExtractExitCodeMapsKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil is success", err: nil, want: ExitSuccess},
		{name: "invalid request", err: slicer.NewInvalidRequest("bad"), want: ExitInvalidRequest},
		{name: "backend unavailable", err: slicer.NewError(slicer.BackendUnavailable, "no git"), want: ExitBackendUnavailable},
		{name: "unknown format falls to generic error", err: slicer.NewError(slicer.UnknownFormat, "yaml"), want: ExitError},
		{name: "plain error falls to generic", err: assertError{}, want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractExitCode(tt.err))
		})
	}
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestRootCmdRegistersSliceFlags(t *testing.T) {
	cmd := RootCmd()
	assert.NotNil(t, cmd.PersistentFlags().Lookup("task"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("budget"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("intensity"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("format"))
}

func TestRunSliceDryRunPrintsFileListAndStatsWithoutRendering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cmd"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmd", "main.go"), []byte("package main\n\nfunc main() {}\n"), 0644))

	rootCmd.SetArgs([]string{"--task", "look at main", "--repo", dir, "--dry-run"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, ExitSuccess, code)

	out := buf.String()
	assert.Contains(t, out, "Selected files:")
	assert.Contains(t, out, "Token Accounting")
	assert.NotContains(t, out, "<context")
}

func TestRunSliceStatsPrintsAccountingAfterRendering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cmd"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmd", "main.go"), []byte("package main\n\nfunc main() {}\n"), 0644))

	rootCmd.SetArgs([]string{"--task", "look at main", "--repo", dir, "--format", "json", "--stats", "--dry-run=false"})
	defer rootCmd.SetArgs(nil)

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	code := Execute()
	assert.Equal(t, ExitSuccess, code)

	assert.Contains(t, out.String(), `"generator"`)
	assert.Contains(t, errOut.String(), "Token Accounting")
}
