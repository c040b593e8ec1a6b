package store

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/wordbook/internal/arena"
	"github.com/hupe1980/wordbook/model"
)

// ErrAllocationFailed is returned when the memory budget refuses store growth.
var ErrAllocationFailed = errors.New("store: allocation failed")

const (
	// DefaultBatchSize is the PendingBuffer size that triggers a merge.
	DefaultBatchSize = 64
	// DefaultInitialCapacity is the initial EntryStore capacity.
	DefaultInitialCapacity = 1024

	entrySize = int64(unsafe.Sizeof(model.Entry{}))
)

// Observer receives notifications about merge and compaction passes.
// Both calls happen synchronously on the caller's goroutine.
type Observer interface {
	OnMerge(storeLen, pendingLen int, d time.Duration)
	OnCompact(before, after int, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) OnMerge(int, int, time.Duration)   {}
func (noopObserver) OnCompact(int, int, time.Duration) {}

// Stats is a point-in-time snapshot of the engine.
type Stats struct {
	StoreLen    int  // EntryStore size, inactive entries included
	StoreCap    int  // EntryStore tracked capacity
	PendingLen  int  // PendingBuffer size
	Tombstones  int  // inactive entries awaiting compaction
	Dirty       bool // a soft deletion happened since the last compaction
	Ordered     bool // EntryStore is known to be sorted (binary search enabled)
	Merges      uint64
	Compactions uint64
}

// Store combines the EntryStore, the PendingBuffer and the arenas they
// reference.
type Store struct {
	arenas      *arena.Set
	main        EntryStore
	pending     PendingBuffer
	batchSize   int
	dirty       bool
	ordered     bool
	merges      uint64
	compactions uint64
	charged     int64
	acquirer    arena.MemoryAcquirer
	observer    Observer
}

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets the PendingBuffer size that triggers a merge.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithInitialCapacity sets the initial EntryStore capacity.
func WithInitialCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.main.capacity = n
		}
	}
}

// WithMemoryAcquirer charges EntryStore growth to a memory budget.
func WithMemoryAcquirer(acquirer arena.MemoryAcquirer) Option {
	return func(s *Store) {
		s.acquirer = acquirer
	}
}

// WithObserver installs a merge/compaction observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// New creates an empty Store over arenas.
func New(arenas *arena.Set, opts ...Option) (*Store, error) {
	s := &Store{
		arenas:    arenas,
		batchSize: DefaultBatchSize,
		ordered:   true,
		observer:  noopObserver{},
	}
	s.main.capacity = DefaultInitialCapacity
	for _, opt := range opts {
		opt(s)
	}

	if err := s.acquire(int64(s.main.capacity) * entrySize); err != nil {
		return nil, err
	}
	s.main = newEntryStore(s.main.capacity)
	s.pending = newPendingBuffer(s.batchSize)
	return s, nil
}

// BatchSize returns the merge threshold.
func (s *Store) BatchSize() int { return s.batchSize }

// Main returns the EntryStore for read-only inspection.
func (s *Store) Main() *EntryStore { return &s.main }

// Pending returns the PendingBuffer for read-only inspection.
func (s *Store) Pending() *PendingBuffer { return &s.pending }

// Text resolves an entry's span.
func (s *Store) Text(e model.Entry) []byte {
	return s.arenas.Resolve(e.Text)
}

// Insert appends text to the pending arena and sorts a new entry into the
// PendingBuffer. Reaching the batch size triggers a synchronous Merge. If
// that merge fails the entry stays buffered and the merge is retried on the
// next insert.
func (s *Store) Insert(text []byte, class model.WordClass) error {
	span, err := s.arenas.Pending.Append(text)
	if err != nil {
		return err
	}

	s.pending.insert(model.Entry{Text: span, Class: class, Active: true}, s.arenas.Resolve)

	if s.pending.Len() >= s.batchSize {
		return s.Merge()
	}
	return nil
}

// Find returns a copy of the first active match. An outstanding soft
// deletion is compacted after the result is taken, so compaction never
// changes the result of the current call.
func (s *Store) Find(text []byte) (model.Entry, bool) {
	var (
		e  model.Entry
		ok bool
	)
	switch loc := s.Locate(text); loc.Kind {
	case InPending:
		e, ok = s.pending.At(loc.Index), true
	case InStore:
		e, ok = s.main.At(loc.Index), true
	}

	if s.dirty {
		s.Compact()
	}
	return e, ok
}

// Remove deletes the first active match. Buffered entries are dropped
// immediately; store entries are only marked inactive and the store
// becomes dirty. It reports whether anything matched.
func (s *Store) Remove(text []byte) (Location, bool) {
	loc := s.Locate(text)
	switch loc.Kind {
	case InPending:
		s.pending.removeAt(loc.Index)
	case InStore:
		s.main.deactivate(loc.Index)
		s.dirty = true
	default:
		return loc, false
	}
	return loc, true
}

// Flush compacts and then merges, leaving every live entry in the
// EntryStore in order.
func (s *Store) Flush() error {
	s.Compact()
	return s.Merge()
}

// ReplaceLoaded installs a new set of loaded-arena entries.
//
// loaded must be in file order and reference the arena contents that swap
// installs; swap replaces the loaded arena and runs only after capacity has
// been reserved. Store entries that referenced the previous loaded arena are
// discarded, while those backed by the pending arena are merged with the new
// ones. If loaded is not sorted, lookups fall back to a linear scan until
// the next sorted load. On error the store is unchanged.
func (s *Store) ReplaceLoaded(loaded []model.Entry, swap func() error) error {
	survivors := make([]model.Entry, 0)
	for _, e := range s.main.entries {
		if e.Active && e.Text.Arena == model.ArenaPending {
			survivors = append(survivors, e)
		}
	}

	oldCap := s.main.capacity
	newCap, err := s.reserve(len(survivors) + len(loaded))
	if err != nil {
		return err
	}
	if swap != nil {
		if err := swap(); err != nil {
			s.release(int64(newCap-oldCap) * entrySize)
			return fmt.Errorf("replace loaded arena: %w", err)
		}
	}

	ordered := s.sorted(loaded)

	fresh := newEntryStore(newCap)
	fresh.entries = mergeEntries(fresh.entries, loaded, survivors, s.arenas.Resolve, fresh.tombstones)

	s.main = fresh
	s.dirty = false
	s.ordered = ordered
	return nil
}

// sorted reports whether entries are in Less order. Their arena must
// already be installed.
func (s *Store) sorted(entries []model.Entry) bool {
	for i := 1; i < len(entries); i++ {
		if Less(s.arenas.Resolve(entries[i].Text), s.arenas.Resolve(entries[i-1].Text)) {
			return false
		}
	}
	return true
}

// Ascend calls yield for every active entry of the merged view of the
// EntryStore and PendingBuffer, in order, without mutating either.
func (s *Store) Ascend(yield func(model.Entry) bool) {
	a, b := s.main.entries, s.pending.entries
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var e model.Entry
		if j < len(b) && (i >= len(a) || Less(s.arenas.Resolve(b[j].Text), s.arenas.Resolve(a[i].Text))) {
			e = b[j]
			j++
		} else {
			e = a[i]
			i++
		}
		if !e.Active {
			continue
		}
		if !yield(e) {
			return
		}
	}
}

// Len returns the number of active entries.
func (s *Store) Len() int {
	return s.main.Len() - s.main.Tombstones() + s.pending.Len()
}

// Stats returns a snapshot of the engine state.
func (s *Store) Stats() Stats {
	return Stats{
		StoreLen:    s.main.Len(),
		StoreCap:    s.main.capacity,
		PendingLen:  s.pending.Len(),
		Tombstones:  s.main.Tombstones(),
		Dirty:       s.dirty,
		Ordered:     s.ordered,
		Merges:      s.merges,
		Compactions: s.compactions,
	}
}

// Release returns all memory charged to the budget and empties the store.
func (s *Store) Release() {
	s.release(s.charged)
	s.main = newEntryStore(0)
	s.pending.reset()
	s.dirty = false
}
