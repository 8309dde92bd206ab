package registry

import (
	"strings"

	"loom/types"
)

// List is a mutable, pointer-identity ordered sequence of values —
// unlike a MOO list, a Scratch list is a shared entity addressed by
// ID and mutated in place rather than copied on write. Indices are
// 1-based throughout, matching the block set's own indexing.
type List struct {
	ID       string
	Name     string
	elements []types.Value
}

// NewList creates an empty, named list.
func NewList(id, name string) *List {
	return &List{ID: id, Name: name}
}

// Length returns the number of elements.
func (l *List) Length() int {
	return len(l.elements)
}

// Append adds a value to the end of the list.
func (l *List) Append(v types.Value) {
	l.elements = append(l.elements, v)
}

// Get returns the element at 1-based index i, or (nil, false) if out
// of range.
func (l *List) Get(i int) (types.Value, bool) {
	if i < 1 || i > len(l.elements) {
		return nil, false
	}
	return l.elements[i-1], true
}

// Set overwrites the element at 1-based index i, reporting whether i
// was in range.
func (l *List) Set(i int, v types.Value) bool {
	if i < 1 || i > len(l.elements) {
		return false
	}
	l.elements[i-1] = v
	return true
}

// InsertAt inserts v before 1-based index i. i == Length()+1 appends.
func (l *List) InsertAt(i int, v types.Value) bool {
	if i < 1 || i > len(l.elements)+1 {
		return false
	}
	l.elements = append(l.elements, nil)
	copy(l.elements[i:], l.elements[i-1:])
	l.elements[i-1] = v
	return true
}

// RemoveAt deletes the element at 1-based index i.
func (l *List) RemoveAt(i int) bool {
	if i < 1 || i > len(l.elements) {
		return false
	}
	copy(l.elements[i-1:], l.elements[i:])
	l.elements = l.elements[:len(l.elements)-1]
	return true
}

// Clear removes all elements.
func (l *List) Clear() {
	l.elements = l.elements[:0]
}

// IndexOf returns the 1-based index of the first element equal to v,
// or 0 if not present.
func (l *List) IndexOf(v types.Value) int {
	for i, e := range l.elements {
		if types.Equal(e, v) {
			return i + 1
		}
	}
	return 0
}

// Contains reports whether v is present in the list.
func (l *List) Contains(v types.Value) bool {
	return l.IndexOf(v) != 0
}

// Elements returns the underlying slice for iteration. Callers must
// not mutate it.
func (l *List) Elements() []types.Value {
	return l.elements
}

// String renders the list the way a "list reporter" block displays
// it: no separator if every element is a single character, otherwise
// space-joined, matching Scratch's list-monitor stringification.
func (l *List) String() string {
	if len(l.elements) == 0 {
		return ""
	}
	allSingleChar := true
	parts := make([]string, len(l.elements))
	for i, e := range l.elements {
		s := e.String()
		parts[i] = s
		if len(s) != 1 {
			allSingleChar = false
		}
	}
	if allSingleChar {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, " ")
}
