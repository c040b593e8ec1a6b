package store

import (
	"bytes"
	"sort"
)

// Locate finds the first active entry whose text prefix-compares equal to
// text, looking in the PendingBuffer first and then the EntryStore.
func (s *Store) Locate(text []byte) Location {
	for i, e := range s.pending.entries {
		if e.Active && Matches(s.arenas.Resolve(e.Text), text) {
			return Location{Kind: InPending, Index: i}
		}
	}

	var idx int
	if s.ordered {
		idx = s.searchStore(text)
	} else {
		idx = s.scanStore(text)
	}
	if idx < 0 {
		return Location{Kind: NotFound}
	}
	return Location{Kind: InStore, Index: idx}
}

// searchStore exploits sortedness. In byte order the matches for query are
// its proper prefixes (shortest first) followed by the contiguous run of
// entries that start with query, so each candidate group is probed with a
// binary search in that order.
func (s *Store) searchStore(query []byte) int {
	for k := 0; k < len(query); k++ {
		prefix := query[:k]
		i := s.lowerBound(prefix)
		for ; i < s.main.Len(); i++ {
			e := s.main.entries[i]
			if !bytes.Equal(s.arenas.Resolve(e.Text), prefix) {
				break
			}
			if e.Active {
				return i
			}
		}
	}

	for i := s.lowerBound(query); i < s.main.Len(); i++ {
		e := s.main.entries[i]
		if !bytes.HasPrefix(s.arenas.Resolve(e.Text), query) {
			break
		}
		if e.Active {
			return i
		}
	}
	return -1
}

// scanStore is the linear fallback used when the store is not known to be
// sorted (an unsorted file was loaded).
func (s *Store) scanStore(query []byte) int {
	for i, e := range s.main.entries {
		if e.Active && Matches(s.arenas.Resolve(e.Text), query) {
			return i
		}
	}
	return -1
}

// lowerBound returns the first store position whose text is not Less than q.
func (s *Store) lowerBound(q []byte) int {
	return sort.Search(s.main.Len(), func(i int) bool {
		return !Less(s.arenas.Resolve(s.main.entries[i].Text), q)
	})
}
