package domain

// Presence distinguishes a missing collection from an empty one.
type Presence int

const (
	// Absent means the collection was never obtained (not applicable, or the fetch failed).
	Absent Presence = iota
	// Empty means the collection was obtained and holds zero items.
	Empty
	// Present means the collection holds at least one item.
	Present
)

func (p Presence) String() string {
	switch p {
	case Empty:
		return "empty"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// List is a collection that remembers whether it exists at all.
// The zero value is Absent.
type List[T any] struct {
	items []T
	set   bool
}

// Some wraps items in a List. Zero items yield an Empty list, never an Absent one.
func Some[T any](items ...T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{items: items, set: true}
}

// None returns an Absent list.
func None[T any]() List[T] {
	return List[T]{}
}

// State reports whether the list is Absent, Empty or Present.
func (l List[T]) State() Presence {
	switch {
	case !l.set:
		return Absent
	case len(l.items) == 0:
		return Empty
	default:
		return Present
	}
}

// IsAbsent is shorthand for State() == Absent.
func (l List[T]) IsAbsent() bool { return !l.set }

// Items returns the underlying items. Absent lists return nil.
func (l List[T]) Items() []T { return l.items }

// Len returns the number of items.
func (l List[T]) Len() int { return len(l.items) }
