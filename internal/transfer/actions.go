package transfer

import (
	"fmt"
	"os"
	"strings"

	"idea/internal/log"
	"idea/internal/notes"
	"idea/internal/parser"
	"idea/internal/todo"
)

var errNoPath = parser.Error("Missing file path")

// Actions returns the export/import/diff commands. ns may be nil, in which
// case note bodies are neither written nor read.
func Actions(ns *notes.Store) parser.Table[*todo.List] {
	a := actions{notes: ns}
	return parser.Table[*todo.List]{
		{Name: "export", Handler: a.export, Help: "Write the list to a YAML file", Params: []string{"<path>"}, ReadOnly: true},
		{Name: "import", Handler: a.importList, Help: "Replace the list with a YAML file", Params: []string{"<path>"}},
		{Name: "diff", Handler: a.diff, Help: "Show what importing a YAML file would change", Params: []string{"<path>"}, ReadOnly: true},
	}
}

type actions struct {
	notes *notes.Store
}

func readPath(in *parser.Input) (string, bool) {
	path, ok := in.NextToken(parser.ToEnd)
	path = strings.TrimSpace(path)
	return path, ok && path != ""
}

func (a actions) export(l *todo.List, in *parser.Input) parser.Result {
	path, ok := readPath(in)
	if !ok {
		return errNoPath
	}
	data, err := Encode(l, a.notes)
	if err != nil {
		log.ErrorErr(log.CatCmd, "export failed", err, "path", path)
		return parser.Error(fmt.Sprintf("Export failed: %v", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return parser.Error(fmt.Sprintf("Export failed: %v", err))
	}
	return parser.Info(fmt.Sprintf("Exported %d todo(s) to %s", l.Len(), path))
}

func load(path string) (Document, parser.Result, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, parser.Error(fmt.Sprintf("Cannot read %s: %v", path, err)), false
	}
	doc, err := Decode(data)
	if err != nil {
		return Document{}, parser.Error(fmt.Sprintf("Cannot import %s: %v", path, err)), false
	}
	return doc, parser.Result{}, true
}

func (a actions) importList(l *todo.List, in *parser.Input) parser.Result {
	path, ok := readPath(in)
	if !ok {
		return errNoPath
	}
	doc, res, ok := load(path)
	if !ok {
		return res
	}

	// Bodies are staged on the items; storage.Save writes them.
	items := doc.Items()
	if a.notes != nil {
		for i, e := range doc.Todos {
			if e.Notes == "" {
				continue
			}
			items[i].Notes = true
			items[i].Draft = e.Notes
		}
	}
	l.Replace(items)
	return parser.Success(fmt.Sprintf("Imported %d todo(s)", len(items)))
}

func (a actions) diff(l *todo.List, in *parser.Input) parser.Result {
	path, ok := readPath(in)
	if !ok {
		return errNoPath
	}
	doc, res, ok := load(path)
	if !ok {
		return res
	}
	current := make([]string, 0, l.Len())
	for _, it := range l.All() {
		current = append(current, it.Name)
	}
	d := Diff(current, doc.Names())
	if d == "" {
		return parser.Info("No differences")
	}
	return parser.Info(d)
}
