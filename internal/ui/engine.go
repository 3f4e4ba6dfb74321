package ui

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"

	"idea/internal/config"
	"idea/internal/log"
	"idea/internal/parser"
	"idea/internal/todo"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeVisual
	ModeCommand
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeVisual:
		return "VISUAL"
	case ModeCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// visualAction is what moving through a visual range does to the items
// it covers.
type visualAction int

const (
	visualSelect visualAction = iota
	visualUnselect
)

// Engine is the whole interactive session: the list, the selection and the
// modal key state. It knows nothing about rendering.
type Engine struct {
	list *todo.List
	keys keyMap

	commands parser.Table[*Engine]
	actions  []parser.Table[*Engine]

	selected   map[string]struct{}
	mode       Mode
	cursor     int
	multiplier int
	anchor     int
	action     visualAction
	line       []rune

	status    parser.Result
	hasStatus bool

	modified bool
	quit     bool
	aborted  bool
}

// NewEngine starts a session over l. The generic todo actions are always
// available in command mode; extra tables are searched after them.
func NewEngine(l *todo.List, km config.Keymap, extra ...parser.Table[*todo.List]) *Engine {
	e := &Engine{
		list:     l,
		keys:     newKeyMap(km),
		selected: make(map[string]struct{}),
	}
	e.commands = uiCommands
	for _, t := range append([]parser.Table[*todo.List]{todo.Actions}, extra...) {
		e.actions = append(e.actions, parser.Adapt(t, (*Engine).List, markModified))
	}
	return e
}

func markModified(e *Engine, r parser.Result) parser.Result {
	if r.OK() {
		e.modified = true
	}
	return r
}

func (e *Engine) List() *todo.List { return e.list }
func (e *Engine) Mode() Mode       { return e.mode }
func (e *Engine) Cursor() int      { return e.cursor }
func (e *Engine) Multiplier() int  { return e.multiplier }
func (e *Engine) Line() string     { return string(e.line) }
func (e *Engine) Modified() bool   { return e.modified }
func (e *Engine) Quit() bool       { return e.quit }

// Aborted reports whether a Fatal result ended the session. An aborted
// session must not be saved.
func (e *Engine) Aborted() bool { return e.aborted }

// Status returns the result of the last command, if any.
func (e *Engine) Status() (parser.Result, bool) { return e.status, e.hasStatus }

func (e *Engine) IsSelected(it *todo.Item) bool {
	_, ok := e.selected[it.ID]
	return ok
}

// SelectedPositions returns the 0-based indices of the selected items.
func (e *Engine) SelectedPositions() []int {
	var out []int
	for i, it := range e.list.All() {
		if e.IsSelected(it) {
			out = append(out, i)
		}
	}
	return out
}

// HandleKey feeds one key press to the session.
func (e *Engine) HandleKey(k fmt.Stringer) {
	if e.quit {
		return
	}
	if e.mode == ModeCommand {
		e.handleCommandKey(k)
		return
	}
	e.handleNormalKey(k)
}

// Type appends text to the command line. Non-printable runes are dropped.
func (e *Engine) Type(text string) {
	if e.mode != ModeCommand {
		return
	}
	for _, r := range text {
		if unicode.IsPrint(r) {
			e.line = append(e.line, r)
		}
	}
}

func (e *Engine) handleCommandKey(k fmt.Stringer) {
	switch {
	case key.Matches(k, e.keys.Submit):
		e.submit()
	case key.Matches(k, e.keys.Cancel):
		e.enterNormal()
	case key.Matches(k, e.keys.Backspace):
		if len(e.line) > 0 {
			e.line = e.line[:len(e.line)-1]
		}
	default:
		if s := k.String(); len([]rune(s)) == 1 {
			e.Type(s)
		}
	}
}

func (e *Engine) handleNormalKey(k fmt.Stringer) {
	if s := k.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		// repeat never runs more than Len times, so the count saturates there.
		if e.multiplier < e.list.Len() {
			e.multiplier = e.multiplier*10 + int(s[0]-'0')
		}
		return
	}

	switch {
	case key.Matches(k, e.keys.Cancel):
		e.multiplier = 0
	case key.Matches(k, e.keys.Quit):
		e.quit = true
	case key.Matches(k, e.keys.Toggle):
		e.repeat(func() {
			e.toggle()
			e.next()
		})
	case key.Matches(k, e.keys.Down):
		e.repeat(func() {
			if e.mode == ModeVisual {
				e.visualMove(1)
			} else {
				e.next()
			}
		})
	case key.Matches(k, e.keys.Up):
		e.repeat(func() {
			if e.mode == ModeVisual {
				e.visualMove(-1)
			} else {
				e.prev()
			}
		})
	case key.Matches(k, e.keys.Top):
		e.toExtreme(-1)
	case key.Matches(k, e.keys.Bottom):
		e.toExtreme(1)
	case key.Matches(k, e.keys.MoveDown):
		e.repeat(func() { e.shiftSelection(1) })
	case key.Matches(k, e.keys.MoveUp):
		e.repeat(func() { e.shiftSelection(-1) })
	case key.Matches(k, e.keys.Visual):
		e.toggleVisual()
	case key.Matches(k, e.keys.Unselect):
		if e.mode == ModeNormal {
			clear(e.selected)
		}
		e.multiplier = 0
	case key.Matches(k, e.keys.Command):
		if e.mode == ModeNormal {
			e.enterCommand("")
		}
		e.multiplier = 0
	case key.Matches(k, e.keys.Delete):
		if e.mode == ModeNormal && e.deleteSelected() {
			e.modified = true
		}
		e.multiplier = 0
	case key.Matches(k, e.keys.AddBelow):
		if e.mode == ModeNormal {
			pos := e.cursor + 2
			if e.list.IsEmpty() {
				pos = 1
			}
			e.enterCommand(fmt.Sprintf("add_at %d ", pos))
		}
		e.multiplier = 0
	case key.Matches(k, e.keys.AddAbove):
		if e.mode == ModeNormal {
			e.enterCommand(fmt.Sprintf("add_at %d ", e.cursor+1))
		}
		e.multiplier = 0
	}
}

// repeat runs fn once, or multiplier times capped at the list size, and
// resets the multiplier.
func (e *Engine) repeat(fn func()) {
	n := e.multiplier
	if n == 0 {
		n = 1
	} else if n > e.list.Len() {
		n = e.list.Len()
	}
	e.multiplier = 0
	for range n {
		fn()
	}
}

func (e *Engine) current() (*todo.Item, bool) {
	if e.list.IsEmpty() {
		return nil, false
	}
	return e.list.Get(e.cursor), true
}

func (e *Engine) selectCurrent() {
	if it, ok := e.current(); ok {
		e.selected[it.ID] = struct{}{}
	}
}

func (e *Engine) unselectCurrent() {
	if it, ok := e.current(); ok {
		delete(e.selected, it.ID)
	}
}

func (e *Engine) toggle() {
	it, ok := e.current()
	if !ok {
		return
	}
	if e.IsSelected(it) {
		delete(e.selected, it.ID)
	} else {
		e.selected[it.ID] = struct{}{}
	}
}

func (e *Engine) next() {
	if e.cursor < e.list.Len()-1 {
		e.cursor++
	}
}

func (e *Engine) prev() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *Engine) apply(a visualAction) {
	if a == visualSelect {
		e.selectCurrent()
	} else {
		e.unselectCurrent()
	}
}

func (e *Engine) opposite(a visualAction) visualAction {
	if a == visualSelect {
		return visualUnselect
	}
	return visualSelect
}

// visualMove steps the cursor in dir. Moving away from the anchor applies
// the visual action to the new item; moving back towards it undoes the
// action on the item being left.
func (e *Engine) visualMove(dir int) {
	against := (dir == 1 && e.cursor < e.anchor) || (dir == -1 && e.cursor > e.anchor)
	if against {
		e.apply(e.opposite(e.action))
		e.step(dir)
		return
	}
	e.step(dir)
	e.apply(e.action)
}

func (e *Engine) step(dir int) {
	if dir == 1 {
		e.next()
	} else {
		e.prev()
	}
}

func (e *Engine) toggleVisual() {
	if e.mode == ModeVisual {
		e.mode = ModeNormal
		e.multiplier = 0
		log.Debug(log.CatUI, "mode change", "mode", e.mode)
		return
	}
	it, ok := e.current()
	if !ok {
		e.multiplier = 0
		return
	}

	e.anchor = e.cursor
	e.mode = ModeVisual
	e.action = visualSelect
	if e.IsSelected(it) {
		e.action = visualUnselect
	}
	e.repeat(func() {
		e.apply(e.action)
		e.next()
	})
	if e.cursor != e.list.Len()-1 {
		e.prev()
	}
	log.Debug(log.CatUI, "mode change", "mode", e.mode, "anchor", e.anchor)
}

func (e *Engine) toExtreme(dir int) {
	e.multiplier = 0
	if e.list.IsEmpty() {
		return
	}
	last := 0
	if dir == 1 {
		last = e.list.Len() - 1
	}

	if e.mode == ModeVisual {
		for e.cursor != last {
			e.visualMove(dir)
		}
		return
	}

	for e.moveSelected(dir) {
		e.modified = true
	}
	e.cursor = last
}

func (e *Engine) shiftSelection(dir int) {
	if !e.moveSelected(dir) {
		return
	}
	e.step(dir)
	if e.mode == ModeVisual {
		e.anchor += dir
	}
	e.modified = true
}

func (e *Engine) selectedAt(i int) bool {
	return e.IsSelected(e.list.Get(i))
}

// moveSelected shifts every run of consecutive selected items one slot in
// dir, each run swapping with its unselected neighbour. Nothing moves when
// the item at the boundary in dir is selected.
func (e *Engine) moveSelected(dir int) bool {
	n := e.list.Len()
	if len(e.selected) == 0 || n == 0 {
		return false
	}
	limit := 0
	if dir == 1 {
		limit = n - 1
	}
	if e.selectedAt(limit) {
		return false
	}

	start := -1
	for i := range n {
		if !e.selectedAt(i) {
			if start == -1 {
				continue
			}
			e.list.MoveChunk(start, i-start, dir)
			start = -1
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		e.list.MoveChunk(start, n-start, dir)
	}
	return true
}

func (e *Engine) deleteSelected() bool {
	removed := 0
	for i := e.list.Len() - 1; i >= 0; i-- {
		if e.selectedAt(i) {
			e.list.Remove(i)
			removed++
		}
	}
	clear(e.selected)
	e.clampCursor()
	return removed > 0
}

func (e *Engine) enterCommand(prefill string) {
	e.mode = ModeCommand
	e.line = []rune(prefill)
	e.hasStatus = false
}

func (e *Engine) enterNormal() {
	e.mode = ModeNormal
	e.line = nil
}

func (e *Engine) submit() {
	line := string(e.line)
	e.enterNormal()
	if strings.TrimSpace(line) == "" {
		return
	}

	tables := append([]parser.Table[*Engine]{e.commands}, e.actions...)
	r := parser.Dispatch(e, line, tables...)
	e.prune()
	e.report(line, r)
}

// Run dispatches one command line as if typed in command mode.
func (e *Engine) Run(line string) parser.Result {
	e.enterCommand("")
	e.Type(line)
	e.submit()
	r, _ := e.Status()
	return r
}

func (e *Engine) report(line string, r parser.Result) {
	e.status, e.hasStatus = r, true
	switch r.Kind {
	case parser.KindFatal:
		log.Error(log.CatCmd, "fatal command result", "line", line, "message", r.Message)
		e.aborted = true
		e.quit = true
	case parser.KindError:
		log.Debug(log.CatCmd, "command failed", "line", line, "message", r.Message)
	default:
		log.Debug(log.CatCmd, "command ran", "line", line, "kind", r.Kind)
	}
}

// prune drops selected IDs that left the list and keeps the cursor in range.
func (e *Engine) prune() {
	live := make(map[string]struct{}, e.list.Len())
	for _, it := range e.list.All() {
		live[it.ID] = struct{}{}
	}
	for id := range e.selected {
		if _, ok := live[id]; !ok {
			delete(e.selected, id)
		}
	}
	e.clampCursor()
}

func (e *Engine) clampCursor() {
	n := e.list.Len()
	switch {
	case n == 0 || e.cursor < 0:
		e.cursor = 0
	case e.cursor >= n:
		e.cursor = n - 1
	}
}

// usage lists every command reachable from command mode.
func (e *Engine) usage() []string {
	var lines []string
	for _, f := range e.commands {
		lines = append(lines, fmt.Sprintf("%-24s %s", f.Usage(), f.Help))
	}
	for _, t := range e.actions {
		for _, f := range t {
			if slices.ContainsFunc(e.commands, func(c parser.Functionality[*Engine]) bool { return c.Name == f.Name }) {
				continue
			}
			lines = append(lines, fmt.Sprintf("%-24s %s", f.Usage(), f.Help))
		}
	}
	return lines
}
