package store

import (
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/wordbook/model"
)

// EntryStore is the sorted primary array. Capacity is tracked separately
// from the logical size so growth can be amortized by doubling.
type EntryStore struct {
	entries  []model.Entry
	capacity int
	// tombstones holds the positions of inactive entries.
	tombstones *roaring.Bitmap
}

func newEntryStore(capacity int) EntryStore {
	return EntryStore{
		entries:    make([]model.Entry, 0, capacity),
		capacity:   capacity,
		tombstones: roaring.New(),
	}
}

// Len returns the number of entries, inactive ones included.
func (s *EntryStore) Len() int { return len(s.entries) }

// Cap returns the tracked capacity.
func (s *EntryStore) Cap() int { return s.capacity }

// At returns the entry at position i.
func (s *EntryStore) At(i int) model.Entry { return s.entries[i] }

// Tombstones returns the number of inactive entries awaiting compaction.
func (s *EntryStore) Tombstones() int { return int(s.tombstones.GetCardinality()) }

func (s *EntryStore) deactivate(i int) {
	s.entries[i].Active = false
	s.tombstones.Add(uint32(i)) //nolint:gosec // store size is bounded by the arena
}

// PendingBuffer holds inserted entries, sorted, until the next merge.
// Its spans always reference the pending arena.
type PendingBuffer struct {
	entries []model.Entry
}

func newPendingBuffer(batchSize int) PendingBuffer {
	return PendingBuffer{entries: make([]model.Entry, 0, batchSize)}
}

// Len returns the number of buffered entries.
func (p *PendingBuffer) Len() int { return len(p.entries) }

// At returns the entry at position i.
func (p *PendingBuffer) At(i int) model.Entry { return p.entries[i] }

// insert places e after every entry that is not greater than it, so equal
// texts keep their insertion order.
func (p *PendingBuffer) insert(e model.Entry, resolve func(model.Span) []byte) int {
	text := resolve(e.Text)
	i := sort.Search(len(p.entries), func(i int) bool {
		return Less(text, resolve(p.entries[i].Text))
	})
	p.entries = slices.Insert(p.entries, i, e)
	return i
}

func (p *PendingBuffer) removeAt(i int) {
	p.entries = slices.Delete(p.entries, i, i+1)
}

func (p *PendingBuffer) reset() {
	clear(p.entries)
	p.entries = p.entries[:0]
}
