// Package transfer moves a whole todo list in and out of a YAML document.
package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"idea/internal/notes"
	"idea/internal/todo"
)

const Version = 1

var ErrVersion = errors.New("unsupported document version")

type Document struct {
	Version int     `yaml:"version"`
	Todos   []Entry `yaml:"todos"`
}

type Entry struct {
	ID        string    `yaml:"id,omitempty"`
	Name      string    `yaml:"name"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
	Notes     string    `yaml:"notes,omitempty"`
}

// Encode renders l as a document. Note bodies are embedded when ns is set
// or when an item still carries an unsaved draft.
func Encode(l *todo.List, ns *notes.Store) ([]byte, error) {
	doc := Document{Version: Version, Todos: make([]Entry, 0, l.Len())}
	for _, it := range l.All() {
		e := Entry{ID: it.ID, Name: it.Name, CreatedAt: it.CreatedAt}
		switch {
		case it.Notes && it.Draft != "":
			e.Notes = it.Draft
		case it.Notes && ns != nil:
			body, err := ns.Read(it.ID)
			if err != nil {
				return nil, err
			}
			e.Notes = body
		}
		doc.Todos = append(doc.Todos, e)
	}
	return yaml.Marshal(&doc)
}

func Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse document: %w", err)
	}
	if doc.Version != Version {
		return doc, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	for i, e := range doc.Todos {
		if strings.TrimSpace(e.Name) == "" {
			return doc, fmt.Errorf("todo %d has no name", i+1)
		}
	}
	return doc, nil
}

// Items builds fresh list items. Missing or repeated IDs are replaced.
func (d Document) Items() []*todo.Item {
	seen := make(map[string]bool, len(d.Todos))
	items := make([]*todo.Item, 0, len(d.Todos))
	for _, e := range d.Todos {
		it := todo.NewItem(e.Name)
		if e.ID != "" && !seen[e.ID] {
			it.ID = e.ID
		}
		seen[it.ID] = true
		if !e.CreatedAt.IsZero() {
			it.CreatedAt = e.CreatedAt
		}
		items = append(items, it)
	}
	return items
}

// Names lists the todo names in document order.
func (d Document) Names() []string {
	out := make([]string, 0, len(d.Todos))
	for _, e := range d.Todos {
		out = append(out, e.Name)
	}
	return out
}

// Diff returns a line diff from the names in from to the names in to, with
// "- " and "+ " marking removed and added lines. It is empty when both match.
func Diff(from, to []string) string {
	a := strings.Join(from, "\n")
	b := strings.Join(to, "\n")
	if a == b {
		return ""
	}
	if a != "" {
		a += "\n"
	}
	if b != "" {
		b += "\n"
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}
