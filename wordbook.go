package wordbook

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/wordbook/blobstore"
	"github.com/hupe1980/wordbook/internal/arena"
	"github.com/hupe1980/wordbook/internal/format"
	"github.com/hupe1980/wordbook/internal/store"
	"github.com/hupe1980/wordbook/model"
	"github.com/hupe1980/wordbook/resource"
)

// Dictionary is an in-memory word dictionary backed by a file.
//
// A Dictionary is not safe for concurrent use; callers that share one must
// serialize access themselves.
type Dictionary struct {
	arenas    *arena.Set
	store     *store.Store
	blobs     blobstore.BlobStore
	resources *resource.Controller
	logger    *Logger
	metrics   MetricsCollector
	closed    bool
}

// New creates an empty dictionary.
func New(optFns ...Option) (*Dictionary, error) {
	o := applyOptions(optFns)

	var arenaOpts []arena.Option
	storeOpts := []store.Option{
		store.WithBatchSize(o.batchSize),
		store.WithInitialCapacity(o.initialCapacity),
		store.WithObserver(&storeObserver{logger: o.logger, metrics: o.metricsCollector}),
	}
	if o.resources != nil {
		arenaOpts = append(arenaOpts, arena.WithMemoryAcquirer(o.resources))
		storeOpts = append(storeOpts, store.WithMemoryAcquirer(o.resources))
	}

	arenas := arena.NewSet(arenaOpts...)
	s, err := store.New(arenas, storeOpts...)
	if err != nil {
		return nil, translateError(err)
	}

	return &Dictionary{
		arenas:    arenas,
		store:     s,
		blobs:     o.blobStore,
		resources: o.resources,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}, nil
}

// Insert adds text with the given class. Duplicates are allowed. Classes
// outside the known range are stored as model.Unknown.
//
// Every batch-size inserts the buffered entries are merged into the entry
// store. If the memory budget refuses that merge, Insert returns
// ErrAllocationFailed; the entry itself stays buffered and findable.
func (d *Dictionary) Insert(text string, class model.WordClass) error {
	if d.closed {
		return ErrClosed
	}
	start := time.Now()

	err := d.insert(text, class)

	d.metrics.RecordInsert(time.Since(start), err)
	d.logger.LogInsert(context.Background(), text, err)
	return err
}

func (d *Dictionary) insert(text string, class model.WordClass) error {
	b := []byte(text)
	if !format.ValidText(b) {
		return translateError(format.ErrInvalidText)
	}
	if !class.Valid() {
		class = model.Unknown
	}
	return translateError(d.store.Insert(b, class))
}

// Find returns the first active entry whose text equals text over the
// shorter of the two lengths. Buffered inserts are checked before the entry
// store, so "test" is found for a query of "testing" and vice versa.
func (d *Dictionary) Find(text string) (model.Entry, bool) {
	if d.closed {
		return model.Entry{}, false
	}
	start := time.Now()

	e, ok := d.store.Find([]byte(text))

	d.metrics.RecordFind(ok, time.Since(start))
	return e, ok
}

// Remove deletes the first entry Find would return. Removing a missing word
// is a no-op.
func (d *Dictionary) Remove(text string) {
	if d.closed {
		return
	}
	start := time.Now()

	_, ok := d.store.Remove([]byte(text))

	d.metrics.RecordRemove(ok, time.Since(start))
}

// Text returns the text of an entry obtained from this dictionary. Entries
// that came from a loaded file are only valid until the next Load.
func (d *Dictionary) Text(e model.Entry) string {
	if d.closed {
		return ""
	}
	return string(d.store.Text(e))
}

// Len returns the number of active entries.
func (d *Dictionary) Len() int {
	if d.closed {
		return 0
	}
	return d.store.Len()
}

// All returns an iterator over the active entries in dictionary order,
// buffered inserts included. The dictionary must not be modified while
// iterating.
func (d *Dictionary) All() iter.Seq2[string, model.Entry] {
	return func(yield func(string, model.Entry) bool) {
		if d.closed {
			return
		}
		d.store.Ascend(func(e model.Entry) bool {
			return yield(string(d.store.Text(e)), e)
		})
	}
}

// Flush compacts the entry store and merges all buffered inserts into it.
// Write does this implicitly.
func (d *Dictionary) Flush() error {
	if d.closed {
		return ErrClosed
	}
	return translateError(d.store.Flush())
}

// ArenaStats describes one text arena.
type ArenaStats struct {
	BytesUsed     uint64
	BytesReserved uint64
	Grows         uint64
	Mapped        bool
}

// Stats is a point-in-time snapshot of a dictionary.
type Stats struct {
	Entries     int // active entries
	StoreLen    int // entry store size, inactive entries included
	StoreCap    int
	PendingLen  int
	Tombstones  int
	Dirty       bool
	Sorted      bool // false after loading an unsorted file
	Merges      uint64
	Compactions uint64
	Loaded      ArenaStats
	Pending     ArenaStats
	MemoryUsage int64 // bytes charged to the resource controller
}

// Stats returns a snapshot of the dictionary's internals.
func (d *Dictionary) Stats() Stats {
	if d.closed {
		return Stats{}
	}
	s := d.store.Stats()
	return Stats{
		Entries:     d.store.Len(),
		StoreLen:    s.StoreLen,
		StoreCap:    s.StoreCap,
		PendingLen:  s.PendingLen,
		Tombstones:  s.Tombstones,
		Dirty:       s.Dirty,
		Sorted:      s.Ordered,
		Merges:      s.Merges,
		Compactions: s.Compactions,
		Loaded:      arenaStats(d.arenas.Loaded.Stats()),
		Pending:     arenaStats(d.arenas.Pending.Stats()),
		MemoryUsage: d.resources.MemoryUsage(),
	}
}

func arenaStats(s arena.Stats) ArenaStats {
	return ArenaStats{
		BytesUsed:     s.BytesUsed,
		BytesReserved: s.BytesReserved,
		Grows:         s.Grows,
		Mapped:        s.Mapped,
	}
}

// Close releases the arenas, unmapping a loaded file, and returns all memory
// charged to the resource controller. Close is idempotent.
func (d *Dictionary) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.store.Release()
	return d.arenas.Close()
}

// storeObserver forwards merge and compaction events to logs and metrics.
type storeObserver struct {
	logger  *Logger
	metrics MetricsCollector
}

func (o *storeObserver) OnMerge(storeLen, pendingLen int, d time.Duration) {
	o.metrics.RecordMerge(pendingLen, d)
	o.logger.LogMerge(context.Background(), storeLen, pendingLen, d)
}

func (o *storeObserver) OnCompact(before, after int, d time.Duration) {
	o.metrics.RecordCompact(before-after, d)
	o.logger.LogCompact(context.Background(), before, after, d)
}
