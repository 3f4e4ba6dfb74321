// Package parser tokenizes command lines and dispatches them to action tables.
package parser

import "strings"

// ToEnd makes NextToken read to the end of the input.
const ToEnd byte = 0

const escape = '\\'

// Input is a command line being consumed token by token.
type Input struct {
	text   string
	cursor int
}

func NewInput(text string) *Input {
	return &Input{text: text}
}

func (in *Input) Text() string { return in.text }

func (in *Input) Cursor() int { return in.cursor }

// Consumed reports whether every token has been read.
func (in *Input) Consumed() bool {
	return in.cursor == len(in.text)+1
}

// Rest returns the unread remainder without consuming it.
func (in *Input) Rest() string {
	if in.cursor >= len(in.text) {
		return ""
	}
	return in.text[in.cursor:]
}

// NextToken reads up to the next unescaped delim (or to the end of the input
// when delim is ToEnd) and moves the cursor past the delimiter. It returns
// false when no input is left; an empty token with true means the argument
// is present but empty.
func (in *Input) NextToken(delim byte) (string, bool) {
	if in.cursor > len(in.text) {
		return "", false
	}

	var b strings.Builder
	i := in.cursor
	for i < len(in.text) {
		c := in.text[i]
		if c == escape && i+1 < len(in.text) {
			next := in.text[i+1]
			switch {
			case next == delim, next == ' ', next == escape:
				b.WriteByte(next)
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i += 2
			continue
		}
		if delim != ToEnd && c == delim {
			break
		}
		b.WriteByte(c)
		i++
	}

	in.cursor = i + 1
	return b.String(), true
}
