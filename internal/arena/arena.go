package arena

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/wordbook/model"
)

// MemoryAcquirer reserves memory against a budget.
// *resource.Controller satisfies it.
type MemoryAcquirer interface {
	TryAcquireMemory(amount int64) bool
	ReleaseMemory(amount int64)
}

var (
	// ErrAllocationFailed is returned when arena growth cannot be satisfied,
	// either because the memory budget refused it or the arena would exceed MaxSize.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrReadOnly is returned when appending to the loaded arena.
	ErrReadOnly = errors.New("arena: arena is read-only")
)

const (
	// DefaultInitialSize is the first capacity reserved by the pending arena.
	DefaultInitialSize = 4096
	// MaxSize bounds an arena so every offset fits a Span.
	MaxSize = math.MaxUint32
)

// Stats tracks arena memory usage.
type Stats struct {
	BytesUsed     uint64 // bytes referenced by spans (the arena length)
	BytesReserved uint64 // capacity of the current buffer
	Grows         uint64 // number of reallocations
	Mapped        bool   // backing is a file mapping, not heap memory
}

// Backing is a complete byte buffer handed to the loaded arena.
type Backing struct {
	Data []byte
	// Release frees the backing (e.g. unmaps it). May be nil.
	Release func() error
	// Mapped marks off-heap file-backed memory, which is not charged to the
	// memory budget.
	Mapped bool
}

// Arena is a contiguous byte buffer addressed by spans.
type Arena struct {
	id          model.ArenaID
	buf         []byte
	release     func() error
	mapped      bool
	charged     int64
	grows       uint64
	initialSize int
	acquirer    MemoryAcquirer
}

// Option configures an Arena.
type Option func(*Arena)

// WithMemoryAcquirer charges every reservation to acquirer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithInitialSize sets the capacity reserved on the first append.
func WithInitialSize(size int) Option {
	return func(a *Arena) {
		if size > 0 {
			a.initialSize = size
		}
	}
}

// New creates an empty arena with the given identity.
func New(id model.ArenaID, opts ...Option) *Arena {
	a := &Arena{
		id:          id,
		initialSize: DefaultInitialSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the arena tag spans use to name this arena.
func (a *Arena) ID() model.ArenaID {
	return a.id
}

// Len returns the number of bytes in use.
func (a *Arena) Len() int {
	return len(a.buf)
}

// Append copies p to the end of the arena and returns its span.
// The span offset is the arena length before the call.
func (a *Arena) Append(p []byte) (model.Span, error) {
	if a.id == model.ArenaLoaded {
		return model.Span{}, ErrReadOnly
	}

	off := len(a.buf)
	need := uint64(off) + uint64(len(p))
	if need > MaxSize {
		return model.Span{}, fmt.Errorf("%w: arena would grow to %d bytes", ErrAllocationFailed, need)
	}
	if int(need) > cap(a.buf) {
		if err := a.grow(int(need)); err != nil {
			return model.Span{}, err
		}
	}

	a.buf = append(a.buf, p...)

	return model.Span{
		Arena:  a.id,
		Offset: uint32(off),    //nolint:gosec // bounded by MaxSize
		Length: uint32(len(p)), //nolint:gosec // bounded by MaxSize
	}, nil
}

// grow reallocates into a buffer of at least need bytes, doubling the
// current capacity. The old buffer is left for the GC; spans stay valid
// because they hold offsets, not addresses.
func (a *Arena) grow(need int) error {
	newCap := cap(a.buf) * 2
	if newCap < a.initialSize {
		newCap = a.initialSize
	}
	if newCap < need {
		newCap = need
	}
	if uint64(newCap) > MaxSize {
		newCap = MaxSize
	}

	delta := int64(newCap - cap(a.buf))
	if a.acquirer != nil && !a.acquirer.TryAcquireMemory(delta) {
		return fmt.Errorf("%w: memory budget refused %d bytes", ErrAllocationFailed, delta)
	}
	a.charged += delta

	next := make([]byte, len(a.buf), newCap)
	copy(next, a.buf)
	a.buf = next
	a.grows++
	return nil
}

// Replace swaps the arena contents wholesale and releases the previous backing.
// Used by loads; on error the arena is unchanged.
func (a *Arena) Replace(b Backing) error {
	if uint64(len(b.Data)) > MaxSize {
		return fmt.Errorf("%w: %d bytes exceed arena limit", ErrAllocationFailed, len(b.Data))
	}

	var charge int64
	if !b.Mapped {
		charge = int64(len(b.Data))
		if a.acquirer != nil && !a.acquirer.TryAcquireMemory(charge) {
			return fmt.Errorf("%w: memory budget refused %d bytes", ErrAllocationFailed, charge)
		}
	}

	err := a.free()

	a.buf = b.Data
	a.release = b.Release
	a.mapped = b.Mapped
	a.charged = charge
	return err
}

// Reset empties the arena and releases its backing.
func (a *Arena) Reset() error {
	return a.free()
}

func (a *Arena) free() error {
	var err error
	if a.release != nil {
		err = a.release()
	}
	if a.acquirer != nil && a.charged > 0 {
		a.acquirer.ReleaseMemory(a.charged)
	}
	a.buf = nil
	a.release = nil
	a.mapped = false
	a.charged = 0
	return err
}

// Bytes returns the view for span, or nil if span does not fit this arena.
func (a *Arena) Bytes(span model.Span) []byte {
	if span.Arena != a.id || span.End() > uint64(len(a.buf)) {
		return nil
	}
	end := int(span.Offset) + int(span.Length)
	return a.buf[span.Offset:end:end]
}

// Stats returns current usage.
func (a *Arena) Stats() Stats {
	return Stats{
		BytesUsed:     uint64(len(a.buf)),
		BytesReserved: uint64(cap(a.buf)),
		Grows:         a.grows,
		Mapped:        a.mapped,
	}
}
