package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"idea/internal/config"
	"idea/internal/log"
	"idea/internal/parser"
	"idea/internal/storage"
	"idea/internal/transfer"
)

// ErrAborted is returned by Run when a command ended the session with a
// fatal result. Nothing is saved in that case.
var ErrAborted = errors.New("session aborted")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f9fb0")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12"))
	notesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	modeStyle     = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d16d7a")).Bold(true)
)

type Model struct {
	engine *Engine
	help   help.Model
}

func NewModel(e *Engine) Model {
	return Model{engine: e, help: help.New()}
}

func Run(store *storage.Store, cfg config.Config) error {
	l, err := store.Load()
	if err != nil {
		return err
	}

	e := NewEngine(l, cfg.Keys, transfer.Actions(store.Notes()))
	program := tea.NewProgram(NewModel(e))
	if _, err := program.Run(); err != nil {
		return err
	}

	if e.Aborted() {
		r, _ := e.Status()
		return fmt.Errorf("%w: %s", ErrAborted, r.Message)
	}
	if !e.Modified() {
		return nil
	}
	if err := store.Save(l); err != nil {
		log.ErrorErr(log.CatDB, "save failed", err)
		return err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.engine.quit = true
		return m, tea.Quit
	}
	if m.engine.Mode() == ModeCommand && msg.Type == tea.KeyRunes {
		m.engine.Type(string(msg.Runes))
	} else {
		m.engine.HandleKey(msg)
	}
	if m.engine.Quit() {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("idea"))
	b.WriteString("\n\n")

	if m.engine.List().IsEmpty() {
		b.WriteString(infoStyle.Render("Nothing to do. Press o to add a todo."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.engine.keys))

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	e := m.engine
	for i, t := range e.List().All() {
		cursor := "  "
		if e.Cursor() == i && e.Mode() != ModeCommand {
			cursor = cursorStyle.Render("> ")
		}

		body := fmt.Sprintf("%d) %s", i+1, t.Name)
		if e.IsSelected(t) {
			body = selectedStyle.Render(body)
		}
		if t.Notes {
			body += notesStyle.Render(" [notes]")
		}

		b.WriteString(cursor)
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusLine() string {
	e := m.engine
	if e.Mode() == ModeCommand {
		return ":" + e.Line() + "█"
	}

	var parts []string
	if e.Mode() == ModeVisual {
		parts = append(parts, modeStyle.Render("-- VISUAL --"))
	}
	if e.Multiplier() > 0 {
		parts = append(parts, fmt.Sprintf("%d", e.Multiplier()))
	}
	if r, ok := e.Status(); ok && r.Message != "" {
		style := infoStyle
		if r.Kind == parser.KindError || r.Kind == parser.KindFatal {
			style = errorStyle
		}
		parts = append(parts, style.Render(r.Message))
	}
	return strings.Join(parts, " ")
}
