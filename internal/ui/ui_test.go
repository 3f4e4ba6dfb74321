package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestModelDrivesEngine(t *testing.T) {
	e := newEngine("A", "B")
	m := NewModel(e)

	m, _ = update(t, m, runes("j"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Equal(t, []string{"B"}, selectedNames(e))

	m, _ = update(t, m, runes(":"), runes("add two words"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"A", "B", "two words"}, names(e))

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	require.True(t, e.Quit())
}

func TestModelCtrlCQuits(t *testing.T) {
	e := newEngine("A")
	_, cmd := update(t, NewModel(e), tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.True(t, e.Quit())
	require.False(t, e.Aborted())
}

func TestView(t *testing.T) {
	e := newEngine("write report", "call bob")
	e.List().Get(1).Notes = true
	m := NewModel(e)

	v := m.View()
	require.Contains(t, v, "1) write report")
	require.Contains(t, v, "2) call bob")
	require.Contains(t, v, "[notes]")

	m, _ = update(t, m, runes("V"))
	require.Contains(t, m.View(), "-- VISUAL --")

	m, _ = update(t, m, runes("V"), runes(":"), runes("rm 9"))
	require.Contains(t, m.View(), ":rm 9")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Contains(t, m.View(), "Invalid position")
}

func TestViewEmptyList(t *testing.T) {
	m := NewModel(newEngine())
	require.Contains(t, m.View(), "Nothing to do")
}
