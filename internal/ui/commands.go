package ui

import (
	"strconv"
	"strings"

	"idea/internal/parser"
	"idea/internal/todo"
)

// uiCommands only make sense inside the interactive session. They are
// searched before the generic actions.
var uiCommands = parser.Table[*Engine]{
	{Name: "quit", Abbrev: "q", Handler: quitCmd, Help: "Exit, saving changes"},
	{Name: "quit!", Abbrev: "q!", Handler: discardCmd, Help: "Exit without saving"},
	{Name: "help", Abbrev: "h", Handler: helpCmd, Help: "List the available commands"},
	{Name: "add_at", Abbrev: "at", Handler: addAtCmd, Help: "Insert a new todo at a position and jump to it", Params: []string{"<pos>", "<name>"}},
}

func quitCmd(e *Engine, in *parser.Input) parser.Result {
	if r, ok := parser.NoArgs(in); !ok {
		return r
	}
	e.quit = true
	return parser.Success("")
}

func discardCmd(e *Engine, in *parser.Input) parser.Result {
	if r, ok := parser.NoArgs(in); !ok {
		return r
	}
	e.quit = true
	e.modified = false
	return parser.Success("")
}

func helpCmd(e *Engine, in *parser.Input) parser.Result {
	if r, ok := parser.NoArgs(in); !ok {
		return r
	}
	return parser.Info(strings.Join(e.usage(), "\n"))
}

func addAtCmd(e *Engine, in *parser.Input) parser.Result {
	pos, _ := parser.NewInput(in.Rest()).NextToken(' ')
	r := todo.AddAt(e.list, in)
	if !r.OK() {
		return r
	}
	e.modified = true
	if p, err := strconv.Atoi(strings.TrimSpace(pos)); err == nil {
		e.cursor = p - 1
		e.clampCursor()
	}
	return r
}
