// Package store implements the dictionary's entry-storage engine.
//
// # Layout
//
//	┌──────────────────────┐     ┌──────────────────────┐
//	│    PendingBuffer     │     │      EntryStore      │
//	│ (sorted, ≤ batch N)  │────▶│  (sorted, primary)   │
//	└──────────────────────┘merge└──────────────────────┘
//	           │                            │
//	           ▼                            ▼
//	   pending arena spans       loaded / pending arena spans
//
// Inserts land in the PendingBuffer via sorted insertion. Once it holds
// batchSize entries, Merge combines it with the EntryStore in one linear
// two-pointer pass. Removals of store entries only clear the Active flag and
// record the position in a Roaring tombstone bitmap; Compact later drops them
// in a single pass that copies the runs between tombstones.
//
// # Ordering
//
// Every component orders text with the same comparator: PrefixCompare over
// the shorter length, ties broken by putting the shorter text first (Less).
// That is plain byte-wise lexicographic order. Lookups match on
// PrefixCompare == 0, so "test" matches both "te" and "testing".
//
// A Store is not safe for concurrent use.
package store
