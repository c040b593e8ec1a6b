package store

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/wordbook/model"
)

// mergeEntries appends the two-pointer merge of base and incoming to dst.
//
// Both inputs must be sorted by Less. When the prefix comparison ties, the
// shorter text goes first; on equal length the base entry goes first, which
// keeps the merge stable. Inactive entries pass through unchanged and their
// output positions are recorded in tomb.
func mergeEntries(dst, base, incoming []model.Entry, resolve func(model.Span) []byte, tomb *roaring.Bitmap) []model.Entry {
	emit := func(e model.Entry) {
		dst = append(dst, e)
		if !e.Active {
			tomb.Add(uint32(len(dst) - 1)) //nolint:gosec // bounded by store capacity
		}
	}

	i, j := 0, 0
	for i < len(base) && j < len(incoming) {
		if Less(resolve(incoming[j].Text), resolve(base[i].Text)) {
			emit(incoming[j])
			j++
		} else {
			emit(base[i])
			i++
		}
	}
	for ; i < len(base); i++ {
		emit(base[i])
	}
	for ; j < len(incoming); j++ {
		emit(incoming[j])
	}
	return dst
}

// Merge folds the PendingBuffer into the EntryStore in one linear pass and
// empties the buffer. Nothing is dropped; size(store) grows by exactly
// size(pending). It fails only when the memory budget refuses the larger
// destination, in which case both sequences are left untouched.
func (s *Store) Merge() error {
	if s.pending.Len() == 0 {
		return nil
	}
	start := time.Now()

	storeLen, pendingLen := s.main.Len(), s.pending.Len()
	newCap, err := s.reserve(storeLen + pendingLen)
	if err != nil {
		return err
	}

	tomb := roaring.New()
	dst := make([]model.Entry, 0, newCap)
	dst = mergeEntries(dst, s.main.entries, s.pending.entries, s.arenas.Resolve, tomb)

	s.main.entries = dst
	s.main.capacity = newCap
	s.main.tombstones = tomb
	s.pending.reset()
	s.merges++

	s.observer.OnMerge(storeLen, pendingLen, time.Since(start))
	return nil
}

// reserve returns a capacity of at least need, doubling the current one, and
// charges any growth to the memory budget.
func (s *Store) reserve(need int) (int, error) {
	newCap := max(s.main.capacity, 1)
	for newCap < need {
		newCap *= 2
	}
	if delta := newCap - s.main.capacity; delta > 0 {
		if err := s.acquire(int64(delta) * entrySize); err != nil {
			return 0, err
		}
	}
	return newCap, nil
}

func (s *Store) acquire(bytes int64) error {
	if s.acquirer == nil || bytes <= 0 {
		return nil
	}
	if !s.acquirer.TryAcquireMemory(bytes) {
		return ErrAllocationFailed
	}
	s.charged += bytes
	return nil
}

func (s *Store) release(bytes int64) {
	if s.acquirer == nil || bytes <= 0 {
		return
	}
	s.acquirer.ReleaseMemory(bytes)
	s.charged -= bytes
}
