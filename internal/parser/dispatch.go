package parser

import (
	"fmt"
	"strings"
)

// Handler runs one command against state S, reading its arguments from in.
type Handler[S any] func(s S, in *Input) Result

// Functionality is one entry of a command table.
type Functionality[S any] struct {
	Name    string
	Abbrev  string
	Handler Handler[S]
	Help    string
	Params  []string

	// ReadOnly commands never change the state, so Adapt skips wrap for them.
	ReadOnly bool
}

func (f Functionality[S]) matches(instruction string) bool {
	return instruction == f.Name || (f.Abbrev != "" && instruction == f.Abbrev)
}

// Usage renders "name|abbrev params" for help listings.
func (f Functionality[S]) Usage() string {
	name := f.Name
	if f.Abbrev != "" {
		name += "|" + f.Abbrev
	}
	if len(f.Params) == 0 {
		return name
	}
	return name + " " + strings.Join(f.Params, " ")
}

type Table[S any] []Functionality[S]

// Lookup finds the entry for instruction by full name or abbreviation.
func (t Table[S]) Lookup(instruction string) (Functionality[S], bool) {
	for _, f := range t {
		if f.matches(instruction) {
			return f, true
		}
	}
	return Functionality[S]{}, false
}

// Adapt lifts a table over T into a table over S. wrap, when non-nil, sees
// the result of every command that is not ReadOnly before it is returned.
func Adapt[S, T any](t Table[T], get func(S) T, wrap func(S, Result) Result) Table[S] {
	out := make(Table[S], 0, len(t))
	for _, f := range t {
		h := f.Handler
		w := wrap
		if f.ReadOnly {
			w = nil
		}
		out = append(out, Functionality[S]{
			Name:     f.Name,
			Abbrev:   f.Abbrev,
			Help:     f.Help,
			Params:   f.Params,
			ReadOnly: f.ReadOnly,
			Handler: func(s S, in *Input) Result {
				r := h(get(s), in)
				if w != nil {
					r = w(s, r)
				}
				return r
			},
		})
	}
	return out
}

// Dispatch runs line against the first table entry matching its first word.
// Tables are searched in order. A handler that reports Success or Info
// without consuming the whole line is a defect and yields Fatal.
func Dispatch[S any](s S, line string, tables ...Table[S]) Result {
	in := NewInput(line)
	instruction, ok := in.NextToken(' ')
	if !ok {
		return Error("Invalid command")
	}

	for _, t := range tables {
		f, found := t.Lookup(instruction)
		if !found {
			continue
		}
		r := f.Handler(s, in)
		if r.OK() && !in.Consumed() {
			return Fatal(fmt.Sprintf("command %q left input unconsumed at %d of %d", f.Name, in.Cursor(), len(line)))
		}
		return r
	}
	return Error("Invalid command")
}

// NoArgs returns Error when in still holds arguments. Handlers taking no
// parameters call it before acting. Trailing blanks are consumed.
func NoArgs(in *Input) (Result, bool) {
	if strings.TrimSpace(in.Rest()) != "" {
		return Error("Command takes no arguments"), false
	}
	in.NextToken(ToEnd)
	return Result{}, true
}
