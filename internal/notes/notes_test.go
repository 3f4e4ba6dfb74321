package notes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.False(t, s.Has("01ABC"))
	require.NoError(t, s.Write("01ABC", "# heading\nbody\n"))
	require.True(t, s.Has("01ABC"))

	_, err = os.Stat(filepath.Join(dir, "01ABC.md"))
	require.NoError(t, err, "notes are stored as <id>.md")

	body, err := s.Read("01ABC")
	require.NoError(t, err)
	require.Equal(t, "# heading\nbody\n", body)

	require.NoError(t, s.Remove("01ABC"))
	require.False(t, s.Has("01ABC"))
	require.NoError(t, s.Remove("01ABC"), "removing missing notes is a no-op")
}

func TestPruneKeepsOnlyLiveIDs(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, s.Write(id, id))
	}

	require.NoError(t, s.Prune(context.Background(), map[string]bool{"B": true}))
	require.ElementsMatch(t, []string{"B"}, s.IDs(context.Background()))
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
