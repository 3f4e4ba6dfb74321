package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("IDEA_DB_PATH", filepath.Join(dir, "idea.db"))
	t.Setenv("IDEA_NOTES_DIR", filepath.Join(dir, "notes"))
	t.Setenv("IDEA_LOG_PATH", filepath.Join(dir, "debug.log"))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestBatchPersistsBetweenRuns(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "add buy milk", "add walk", "add read")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "config.toml"))

	_, err = execute(t, dir, "move 3 1")
	require.NoError(t, err)

	out, err := execute(t, dir, "list")
	require.NoError(t, err)
	read := strings.Index(out, "read")
	milk := strings.Index(out, "buy milk")
	walk := strings.Index(out, "walk")
	require.True(t, read >= 0 && read < milk && milk < walk, out)
}

func TestFailedBatchSavesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "add one")
	require.NoError(t, err)

	_, err = execute(t, dir, "add two", "remove 9")
	require.ErrorIs(t, err, ErrBatchFailed)

	out, err := execute(t, dir, "ls")
	require.NoError(t, err)
	require.Contains(t, out, "one")
	require.NotContains(t, out, "two")
}

func TestDebugFlagWritesLog(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "--debug", "add x")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "[config]")
	require.Contains(t, string(data), "[db]")
}

func TestExportImportThroughCLI(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "list.yaml")
	_, err := execute(t, dir, "add a", "add b", "export "+doc)
	require.NoError(t, err)

	other := t.TempDir()
	out, err := execute(t, other, "diff "+doc)
	require.NoError(t, err)
	require.Contains(t, out, "+ a")

	_, err = execute(t, other, "import "+doc)
	require.NoError(t, err)
	out, err = execute(t, other, "list")
	require.NoError(t, err)
	require.Contains(t, out, "a")
	require.Contains(t, out, "b")
}
