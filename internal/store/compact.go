package store

import (
	"time"

	"github.com/hupe1980/wordbook/model"
)

// Compact drops inactive entries from the EntryStore, preserving the order of
// the rest, and clears the dirty flag. The destination keeps the current
// capacity. Runs between tombstones are copied wholesale.
func (s *Store) Compact() {
	if s.main.tombstones.IsEmpty() {
		s.dirty = false
		return
	}
	start := time.Now()
	before := s.main.Len()

	dst := make([]model.Entry, 0, s.main.capacity)
	prev := 0
	it := s.main.tombstones.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		dst = append(dst, s.main.entries[prev:pos]...)
		prev = pos + 1
	}
	dst = append(dst, s.main.entries[prev:]...)

	s.main.entries = dst
	s.main.tombstones.Clear()
	s.dirty = false
	s.compactions++

	s.observer.OnCompact(before, len(dst), time.Since(start))
}
