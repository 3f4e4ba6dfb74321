package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"idea/internal/log"
	"idea/internal/parser"
	"idea/internal/todo"
)

// ErrBatchFailed reports that a command in a batch did not go through. The
// list is left as it was before the batch started.
var ErrBatchFailed = errors.New("batch failed")

// Batch runs command lines one after another against a single list.
type Batch struct {
	list     *todo.List
	out      io.Writer
	tables   []parser.Table[*Batch]
	modified bool
}

// NewBatch prepares a batch over l. The generic todo actions are always
// available; extra tables are searched after them.
func NewBatch(l *todo.List, out io.Writer, extra ...parser.Table[*todo.List]) *Batch {
	b := &Batch{list: l, out: out}
	b.tables = append(b.tables, batchCommands)
	for _, t := range append([]parser.Table[*todo.List]{todo.Actions}, extra...) {
		b.tables = append(b.tables, parser.Adapt(t, (*Batch).List, markModified))
	}
	return b
}

func markModified(b *Batch, r parser.Result) parser.Result {
	if r.OK() {
		b.modified = true
	}
	return r
}

func (b *Batch) List() *todo.List { return b.list }
func (b *Batch) Modified() bool   { return b.modified }

// Run executes lines in order and stops at the first Error or Fatal result,
// restoring the list to its state before the batch.
func (b *Batch) Run(lines []string) error {
	snapshot := b.list.Snapshot()
	for _, line := range lines {
		r := parser.Dispatch(b, line, b.tables...)
		b.print(r)
		if r.OK() {
			continue
		}

		log.Warn(log.CatCmd, "batch stopped", "line", line, "kind", r.Kind, "message", r.Message)
		b.list.Replace(snapshot.Items())
		b.modified = false
		return fmt.Errorf("%w: %q: %s", ErrBatchFailed, line, r.Message)
	}
	return nil
}

func (b *Batch) print(r parser.Result) {
	if r.Message == "" {
		return
	}
	switch r.Kind {
	case parser.KindError, parser.KindFatal:
		_, _ = color.New(color.FgRed).Fprintln(b.out, r.String())
	default:
		_, _ = fmt.Fprintln(b.out, r.Message)
	}
}

var batchCommands = parser.Table[*Batch]{
	{Name: "list", Abbrev: "ls", Handler: listCmd, Help: "Print the list"},
	{Name: "help", Abbrev: "h", Handler: helpCmd, Help: "List the available commands"},
}

func listCmd(b *Batch, in *parser.Input) parser.Result {
	if r, ok := parser.NoArgs(in); !ok {
		return r
	}
	if b.list.IsEmpty() {
		return parser.Info("Nothing to do")
	}

	marker := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, it := range b.list.All() {
		name := it.Name
		if it.Notes {
			name += marker.Sprint(" [notes]")
		}
		tbl.AddRow(fmt.Sprintf("%d)", i+1), name)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(b.out, tbl)
	return parser.Success("")
}

func helpCmd(b *Batch, in *parser.Input) parser.Result {
	if r, ok := parser.NoArgs(in); !ok {
		return r
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Command"), bold.Sprint("Description"))
	for _, t := range b.tables {
		for _, f := range t {
			tbl.AddRow(f.Usage(), f.Help)
		}
	}
	_, _ = fmt.Fprintln(b.out, tbl)
	return parser.Success("")
}
