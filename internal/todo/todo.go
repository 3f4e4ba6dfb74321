// Package todo holds the task list and the actions that mutate it.
package todo

import (
	"crypto/rand"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"idea/internal/list"
)

type Item struct {
	ID        string
	Name      string
	Notes     bool
	CreatedAt time.Time

	// Draft is a note body waiting to be written when the list is saved.
	Draft string
}

var timeNow = time.Now

func NewItem(name string) *Item {
	now := timeNow().UTC()
	return &Item{ID: newID(now), Name: name, CreatedAt: now}
}

func newID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), rand.Reader)
	if err != nil {
		return strconv.FormatInt(t.UnixNano(), 36)
	}
	return id.String()
}

// List is the ordered todo list owned by one session.
type List struct {
	items *list.List[*Item]
}

func NewList(items ...*Item) *List {
	return &List{items: list.New(items...)}
}

func (l *List) Len() int                       { return l.items.Len() }
func (l *List) IsEmpty() bool                  { return l.items.IsEmpty() }
func (l *List) Get(i int) *Item                { return l.items.Get(i) }
func (l *List) All() iter.Seq2[int, *Item]     { return l.items.All() }
func (l *List) Items() []*Item                 { return l.items.Values() }
func (l *List) Append(it *Item)                { l.items.Append(it) }
func (l *List) InsertAt(it *Item, i int) error { return l.items.InsertAt(it, i) }
func (l *List) Remove(i int) *Item             { return l.items.Remove(i) }
func (l *List) Clear()                         { l.items.Clear() }

// MoveChunk shifts count items starting at start one slot in dir.
func (l *List) MoveChunk(start, count, dir int) bool {
	return l.items.MoveChunk(start, count, dir)
}

// Replace swaps the whole content for items.
func (l *List) Replace(items []*Item) {
	l.items = list.New(items...)
}

// IndexOf returns the position of the item with id, or -1.
func (l *List) IndexOf(id string) int {
	return l.items.IndexFunc(func(it *Item) bool { return it.ID == id })
}

// Resolve maps a user reference to a 0-based index. A reference is a 1-based
// position when it parses as a number, otherwise the name of the first
// matching item.
func (l *List) Resolve(ref string) (int, bool) {
	if pos, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		if pos < 1 || pos > l.Len() {
			return -1, false
		}
		return pos - 1, true
	}
	i := l.items.IndexFunc(func(it *Item) bool { return it.Name == ref })
	return i, i >= 0
}

// Snapshot deep-copies the list so a failed batch can be rolled back.
func (l *List) Snapshot() *List {
	out := make([]*Item, 0, l.Len())
	for _, it := range l.All() {
		c := *it
		out = append(out, &c)
	}
	return NewList(out...)
}
