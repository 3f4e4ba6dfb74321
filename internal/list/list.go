// Package list implements the ordered container that backs the todo list.
package list

import (
	"errors"
	"fmt"
	"iter"
)

// ErrOutOfBounds is returned by InsertAt when the position is past the end.
var ErrOutOfBounds = errors.New("position out of bounds")

// List is an insertion-ordered sequence. Positions are 0-based and contiguous.
type List[T any] struct {
	items []T
}

func New[T any](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

func (l *List[T]) Append(v T) {
	l.items = append(l.items, v)
}

// InsertAt places v at pos, shifting later elements. pos may equal Len().
func (l *List[T]) InsertAt(v T, pos int) error {
	if pos < 0 || pos > len(l.items) {
		return fmt.Errorf("insert at %d (size %d): %w", pos, len(l.items), ErrOutOfBounds)
	}
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[pos+1:], l.items[pos:])
	l.items[pos] = v
	return nil
}

// Remove deletes and returns the element at pos. It panics when pos is out of
// range; callers validate user input first.
func (l *List[T]) Remove(pos int) T {
	l.mustIndex(pos)
	v := l.items[pos]
	copy(l.items[pos:], l.items[pos+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return v
}

func (l *List[T]) Get(pos int) T {
	l.mustIndex(pos)
	return l.items[pos]
}

func (l *List[T]) Set(pos int, v T) {
	l.mustIndex(pos)
	l.items[pos] = v
}

func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) IsEmpty() bool {
	return len(l.items) == 0
}

// All yields (index, element) pairs in order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns a copy of the elements.
func (l *List[T]) Values() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// IndexFunc returns the first index whose element satisfies f, or -1.
func (l *List[T]) IndexFunc(f func(T) bool) int {
	for i, v := range l.items {
		if f(v) {
			return i
		}
	}
	return -1
}

func (l *List[T]) Clear() {
	clear(l.items)
	l.items = l.items[:0]
}

// Clone returns a shallow copy of the list.
func (l *List[T]) Clone() *List[T] {
	return New(l.items...)
}

// MoveChunk shifts the count elements starting at start one slot in dir (+1
// or -1) by swapping the run with its single neighbour. It reports false when
// the run is out of range or has no neighbour on that side.
func (l *List[T]) MoveChunk(start, count, dir int) bool {
	if count <= 0 || start < 0 || start+count > len(l.items) {
		return false
	}
	switch dir {
	case 1:
		end := start + count
		if end >= len(l.items) {
			return false
		}
		neighbour := l.items[end]
		copy(l.items[start+1:end+1], l.items[start:end])
		l.items[start] = neighbour
	case -1:
		if start == 0 {
			return false
		}
		neighbour := l.items[start-1]
		copy(l.items[start-1:start+count-1], l.items[start:start+count])
		l.items[start+count-1] = neighbour
	default:
		panic(fmt.Sprintf("list: invalid direction %d", dir))
	}
	return true
}

func (l *List[T]) mustIndex(pos int) {
	if pos < 0 || pos >= len(l.items) {
		panic(fmt.Sprintf("list: index %d out of range (size %d)", pos, len(l.items)))
	}
}
