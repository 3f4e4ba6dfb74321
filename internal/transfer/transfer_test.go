package transfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"idea/internal/notes"
	"idea/internal/parser"
	"idea/internal/todo"
)

func names(l *todo.List) []string {
	var out []string
	for _, it := range l.All() {
		out = append(out, it.Name)
	}
	return out
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ns, err := notes.Open(filepath.Join(dir, "notes"))
	require.NoError(t, err)

	a, b := todo.NewItem("write report"), todo.NewItem("call bob")
	require.NoError(t, ns.Write(b.ID, "ask about friday\n"))
	b.Notes = true
	src := todo.NewList(a, b)

	path := filepath.Join(dir, "out.yaml")
	tbl := Actions(ns)
	r := parser.Dispatch(src, "export "+path, tbl)
	require.Equal(t, parser.KindInfo, r.Kind, r.Message)

	other, err := notes.Open(filepath.Join(dir, "other"))
	require.NoError(t, err)
	dst := todo.NewList(todo.NewItem("old"))
	r = parser.Dispatch(dst, "import "+path, Actions(other))
	require.Equal(t, parser.KindSuccess, r.Kind, r.Message)

	require.Equal(t, []string{"write report", "call bob"}, names(dst))
	require.Equal(t, a.ID, dst.Get(0).ID)
	require.False(t, dst.Get(0).Notes)
	require.True(t, dst.Get(1).Notes)
	require.Equal(t, "ask about friday\n", dst.Get(1).Draft)
	require.False(t, other.Has(dst.Get(1).ID), "bodies are written on save, not on import")

	// A re-export before saving still carries the staged body.
	again := filepath.Join(dir, "again.yaml")
	r = parser.Dispatch(dst, "export "+again, Actions(other))
	require.Equal(t, parser.KindInfo, r.Kind, r.Message)
	data, err := os.ReadFile(again)
	require.NoError(t, err)
	require.Contains(t, string(data), "ask about friday")
}

func TestImportWithoutNotesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\ntodos:\n  - name: a\n    notes: hi\n  - name: b\n"), 0o644))

	l := todo.NewList()
	r := parser.Dispatch(l, "import "+path, Actions(nil))
	require.Equal(t, parser.KindSuccess, r.Kind)
	require.Equal(t, []string{"a", "b"}, names(l))
	require.False(t, l.Get(0).Notes)
	require.NotEmpty(t, l.Get(0).ID)
}

func TestImportErrorsLeaveListAlone(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: 7\ntodos: []\n"), 0o644))
	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("version: 1\ntodos:\n  - name: \"\"\n"), 0o644))

	l := todo.NewList(todo.NewItem("keep"))
	for _, line := range []string{
		"import " + bad,
		"import " + unnamed,
		"import " + filepath.Join(dir, "missing.yaml"),
		"import",
		"import ",
	} {
		r := parser.Dispatch(l, line, Actions(nil))
		require.Equal(t, parser.KindError, r.Kind, line)
	}
	require.Equal(t, []string{"keep"}, names(l))
}

func TestDecodeVersion(t *testing.T) {
	_, err := Decode([]byte("version: 2\n"))
	require.ErrorIs(t, err, ErrVersion)
}

func TestItemsReplacesDuplicateIDs(t *testing.T) {
	doc := Document{Version: Version, Todos: []Entry{{ID: "X", Name: "a"}, {ID: "X", Name: "b"}, {Name: "c"}}}
	items := doc.Items()
	require.Equal(t, "X", items[0].ID)
	require.NotEqual(t, "X", items[1].ID)
	require.NotEmpty(t, items[2].ID)
}

func TestDiff(t *testing.T) {
	require.Equal(t, "", Diff([]string{"a", "b"}, []string{"a", "b"}))
	require.Equal(t, "  a\n- b\n  c\n+ d", Diff([]string{"a", "b", "c"}, []string{"a", "c", "d"}))
	require.Equal(t, "+ a", Diff(nil, []string{"a"}))
}

func TestDiffAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\ntodos:\n  - name: a\n  - name: c\n"), 0o644))

	l := todo.NewList(todo.NewItem("a"), todo.NewItem("b"))
	r := parser.Dispatch(l, "diff "+path, Actions(nil))
	require.Equal(t, parser.Info("  a\n- b\n+ c"), r)
	require.Equal(t, []string{"a", "b"}, names(l))
}
