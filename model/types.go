package model

import (
	"fmt"
)

// ArenaID names the text arena a Span resolves through.
type ArenaID uint8

const (
	// ArenaLoaded is the immutable arena filled by a dictionary load.
	ArenaLoaded ArenaID = iota
	// ArenaPending is the append-only arena that backs inserted words.
	ArenaPending
)

// String returns the arena name.
func (a ArenaID) String() string {
	switch a {
	case ArenaLoaded:
		return "loaded"
	case ArenaPending:
		return "pending"
	default:
		return fmt.Sprintf("arena(%d)", uint8(a))
	}
}

// Span references Length bytes at Offset inside the arena named by Arena.
// A span never owns memory and never caches an address; it is resolved through
// its arena at read time, so arena growth cannot invalidate it.
type Span struct {
	Arena  ArenaID
	Offset uint32
	Length uint32
}

// End returns the exclusive end offset of the span.
func (s Span) End() uint64 {
	return uint64(s.Offset) + uint64(s.Length)
}

// String returns a string representation of the Span.
func (s Span) String() string {
	return fmt.Sprintf("Span(%s:%d+%d)", s.Arena, s.Offset, s.Length)
}

// Entry is a single dictionary entry.
//
// Text and Class are immutable after creation; only Active flips (on removal).
// Two entries are equal iff all fields match, i.e. span identity rather than
// string content, so plain == is the equality operator.
type Entry struct {
	Text   Span
	Class  WordClass
	Active bool
}
