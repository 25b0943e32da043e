package value

import "slices"

// Value is a sealed interface implemented by Null, String, Int, Bool, List,
// and Map.
type Value interface {
	// Equals reports whether other is a Value structurally equal to this one.
	Equals(other any) bool

	// HashCode returns a hash consistent with Equals.
	HashCode() uint64

	value() // sealed
}

// Null is the Sass null value.
type Null struct{}

// String is an unquoted Sass string.
type String string

// Int is an integer Sass number without units.
type Int int64

// Bool is a Sass boolean.
type Bool bool

func (Null) value() {}
func (String) value() {}
func (Int) value() {}
func (Bool) value() {}
func (List) value() {}
func (Map) value() {}

func (v Null) Equals(other any) bool { return equal(v, other) }
func (v String) Equals(other any) bool { return equal(v, other) }
func (v Int) Equals(other any) bool { return equal(v, other) }
func (v Bool) Equals(other any) bool { return equal(v, other) }
func (v List) Equals(other any) bool { return equal(v, other) }
func (v Map) Equals(other any) bool { return equal(v, other) }

func (v Null) HashCode() uint64 { return hashCode(v) }
func (v String) HashCode() uint64 { return hashCode(v) }
func (v Int) HashCode() uint64 { return hashCode(v) }
func (v Bool) HashCode() uint64 { return hashCode(v) }
func (v List) HashCode() uint64 { return hashCode(v) }
func (v Map) HashCode() uint64 { return hashCode(v) }

// Separator is the separator between list elements.
type Separator int

const (
	// Undecided is used by empty and single-element lists.
	Undecided Separator = iota
	Comma
	Space
	Slash
)

// String returns the separator name used in the canonical encoding.
func (s Separator) String() string {
	switch s {
	case Comma:
		return "comma"
	case Space:
		return "space"
	case Slash:
		return "slash"
	default:
		return "undecided"
	}
}

// List is an immutable Sass list.
// The zero value is the empty undecided list without brackets.
type List struct {
	items     []Value
	separator Separator
	bracketed bool
}

// NewList creates a list from items. items is copied.
func NewList(sep Separator, bracketed bool, items ...Value) List {
	return List{items: slices.Clone(items), separator: sep, bracketed: bracketed}
}

// Len returns the number of elements.
func (l List) Len() int { return len(l.items) }

// At returns the element at index i.
func (l List) At(i int) Value { return l.items[i] }

// Items returns a copy of the elements.
func (l List) Items() []Value { return slices.Clone(l.items) }

// Separator returns the list separator.
func (l List) Separator() Separator { return l.separator }

// Bracketed reports whether the list has square brackets.
func (l List) Bracketed() bool { return l.bracketed }

// Append returns a new list with v added at the end.
func (l List) Append(v Value) List {
	items := make([]Value, len(l.items), len(l.items)+1)
	copy(items, l.items)
	return List{items: append(items, v), separator: l.separator, bracketed: l.bracketed}
}

// SetAt returns a new list with the element at index i replaced.
func (l List) SetAt(i int, v Value) List {
	items := slices.Clone(l.items)
	items[i] = v
	return List{items: items, separator: l.separator, bracketed: l.bracketed}
}

type mapEntry struct {
	key Value
	val Value
}

// Map is an immutable Sass map. Keys compare by Equals.
// The zero value is the empty map.
type Map struct {
	entries []mapEntry
}

// Pair is a key/value pair for map construction.
type Pair struct {
	Key   Value
	Value Value
}

// P is shorthand for Pair.
func P(key, val Value) Pair {
	return Pair{Key: key, Value: val}
}

// NewMap creates a map from pairs. A later pair replaces an earlier one with
// an equal key.
func NewMap(pairs ...Pair) Map {
	var m Map
	for _, p := range pairs {
		m = m.Set(p.Key, p.Value)
	}
	return m
}

// Len returns the number of entries.
func (m Map) Len() int { return len(m.entries) }

// Get returns the value stored under key.
func (m Map) Get(key Value) (Value, bool) {
	if i := m.find(key); i >= 0 {
		return m.entries[i].val, true
	}
	return nil, false
}

// Set returns a new map with key bound to val. An existing key keeps its
// position.
func (m Map) Set(key, val Value) Map {
	entries := slices.Clone(m.entries)
	if i := m.find(key); i >= 0 {
		entries[i].val = val
		return Map{entries: entries}
	}
	return Map{entries: append(entries, mapEntry{key: key, val: val})}
}

// Delete returns a new map without key.
func (m Map) Delete(key Value) Map {
	i := m.find(key)
	if i < 0 {
		return m
	}
	return Map{entries: slices.Delete(slices.Clone(m.entries), i, i+1)}
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []Value {
	keys := make([]Value, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

func (m Map) find(key Value) int {
	return slices.IndexFunc(m.entries, func(e mapEntry) bool {
		return e.key.Equals(key)
	})
}
