package arena

import (
	"errors"

	"github.com/hupe1980/wordbook/model"
)

// Set owns the loaded and pending arenas of one dictionary and resolves spans
// through whichever arena their tag names.
type Set struct {
	Loaded  *Arena
	Pending *Arena
}

// NewSet creates both arenas with the same options.
func NewSet(opts ...Option) *Set {
	return &Set{
		Loaded:  New(model.ArenaLoaded, opts...),
		Pending: New(model.ArenaPending, opts...),
	}
}

// Arena returns the arena for id, or nil for an unknown tag.
func (s *Set) Arena(id model.ArenaID) *Arena {
	switch id {
	case model.ArenaLoaded:
		return s.Loaded
	case model.ArenaPending:
		return s.Pending
	default:
		return nil
	}
}

// Resolve returns the bytes span denotes, or nil if the span is invalid.
// The result must not be retained across a pending-arena Append.
func (s *Set) Resolve(span model.Span) []byte {
	a := s.Arena(span.Arena)
	if a == nil {
		return nil
	}
	return a.Bytes(span)
}

// Close releases both arenas.
func (s *Set) Close() error {
	return errors.Join(s.Loaded.Reset(), s.Pending.Reset())
}
