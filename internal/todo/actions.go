package todo

import (
	"fmt"
	"strconv"
	"strings"

	"idea/internal/parser"
)

var (
	errMalformed       = parser.Error("Command malformed")
	errInvalidPosition = parser.Error("Invalid position")
	errEmptyName       = parser.Error("Empty name")
)

// Actions is the generic command table shared by the CLI and the TUI.
var Actions = parser.Table[*List]{
	{Name: "add", Abbrev: "a", Handler: addTodo, Help: "Append a new todo", Params: []string{"<name>"}},
	{Name: "add_at", Abbrev: "at", Handler: AddAt, Help: "Insert a new todo at a position", Params: []string{"<pos>", "<name>"}},
	{Name: "remove", Abbrev: "rm", Handler: removeTodo, Help: "Remove a todo", Params: []string{"<ref>"}},
	{Name: "move", Abbrev: "mv", Handler: moveTodo, Help: "Move a todo to another position", Params: []string{"<ref>", "<dest>"}},
	{Name: "edit", Abbrev: "e", Handler: editTodo, Help: "Rename a todo", Params: []string{"<ref>", "<new-name>"}},
	{Name: "clear", Handler: clearTodos, Help: "Remove every todo", Params: []string{"all"}},
	{Name: "notes_rm", Abbrev: "nrm", Handler: removeNotes, Help: "Detach the notes of one or more todos", Params: []string{"<ref>..."}},
}

func parsePosition(s string) (int, bool) {
	pos, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return pos, true
}

func isNumeric(ref string) bool {
	_, ok := parsePosition(ref)
	return ok
}

func notFound(ref string) parser.Result {
	if isNumeric(ref) {
		return errInvalidPosition
	}
	return parser.Error(fmt.Sprintf("No todo named %q", ref))
}

func addTodo(l *List, in *parser.Input) parser.Result {
	name, ok := in.NextToken(parser.ToEnd)
	if !ok {
		return errMalformed
	}
	if name == "" {
		return errEmptyName
	}
	l.Append(NewItem(name))
	return parser.Success("")
}

// AddAt inserts a todo at a 1-based position. It is exported so the TUI can
// wrap it and follow the new item with its cursor.
func AddAt(l *List, in *parser.Input) parser.Result {
	posStr, ok := in.NextToken(' ')
	if !ok {
		return errMalformed
	}
	pos, ok := parsePosition(posStr)
	if !ok || pos < 1 || pos > l.Len()+1 {
		return errInvalidPosition
	}
	name, ok := in.NextToken(parser.ToEnd)
	if !ok {
		return errMalformed
	}
	if name == "" {
		return errEmptyName
	}
	if err := l.InsertAt(NewItem(name), pos-1); err != nil {
		return errInvalidPosition
	}
	return parser.Success("")
}

func removeTodo(l *List, in *parser.Input) parser.Result {
	ref, ok := in.NextToken(parser.ToEnd)
	if !ok {
		return errMalformed
	}
	i, ok := l.Resolve(ref)
	if !ok {
		return notFound(ref)
	}
	l.Remove(i)
	return parser.Success("")
}

func moveTodo(l *List, in *parser.Input) parser.Result {
	ref, ok := in.NextToken(' ')
	if !ok {
		return errMalformed
	}
	destStr, ok := in.NextToken(parser.ToEnd)
	if !ok {
		return errMalformed
	}

	origin, ok := l.Resolve(ref)
	if !ok {
		if isNumeric(ref) {
			return parser.Error("Invalid origin position")
		}
		return notFound(ref)
	}
	dest, ok := parsePosition(destStr)
	if !ok || dest < 1 || dest > l.Len() {
		return parser.Error("Invalid destination position")
	}
	if dest-1 == origin {
		return parser.Info("Moving to the same position")
	}

	it := l.Remove(origin)
	// The destination is not shifted down when the origin precedes it.
	if err := l.InsertAt(it, dest-1); err != nil {
		return parser.Fatal(fmt.Sprintf("move: %v", err))
	}
	return parser.Success("")
}

func editTodo(l *List, in *parser.Input) parser.Result {
	ref, ok := in.NextToken(' ')
	if !ok {
		return errMalformed
	}
	i, ok := l.Resolve(ref)
	if !ok {
		return notFound(ref)
	}
	name, ok := in.NextToken(parser.ToEnd)
	if !ok || name == "" {
		return parser.Error("Empty new text")
	}
	l.Get(i).Name = name
	return parser.Success("")
}

func clearTodos(l *List, in *parser.Input) parser.Result {
	confirm, ok := in.NextToken(parser.ToEnd)
	if !ok || strings.TrimSpace(confirm) != "all" {
		return parser.Error("Type 'clear all' to remove every todo")
	}
	l.Clear()
	return parser.Success("")
}

func removeNotes(l *List, in *parser.Input) parser.Result {
	var targets []*Item
	for {
		ref, ok := in.NextToken(' ')
		if !ok {
			break
		}
		if ref == "" {
			continue
		}
		i, found := l.Resolve(ref)
		if !found {
			return notFound(ref)
		}
		targets = append(targets, l.Get(i))
	}
	if len(targets) == 0 {
		return errMalformed
	}

	detached := 0
	for _, it := range targets {
		if it.Notes {
			it.Notes = false
			it.Draft = ""
			detached++
		}
	}
	if detached == 0 {
		return parser.Info("No notes to remove")
	}
	return parser.Success(fmt.Sprintf("Removed notes from %d todo(s)", detached))
}
