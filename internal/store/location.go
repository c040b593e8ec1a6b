package store

import "fmt"

// LocationKind tags where a lookup found its entry.
type LocationKind uint8

const (
	// NotFound means no active entry matched.
	NotFound LocationKind = iota
	// InPending means the entry is in the PendingBuffer.
	InPending
	// InStore means the entry is in the EntryStore.
	InStore
)

// Location is the result of Locate: NotFound, InPending(index) or
// InStore(index). Index is only meaningful for the latter two.
type Location struct {
	Kind  LocationKind
	Index int
}

// Found reports whether the location names an entry.
func (l Location) Found() bool {
	return l.Kind != NotFound
}

// String returns a string representation of the Location.
func (l Location) String() string {
	switch l.Kind {
	case InPending:
		return fmt.Sprintf("InPending(%d)", l.Index)
	case InStore:
		return fmt.Sprintf("InStore(%d)", l.Index)
	default:
		return "NotFound"
	}
}
