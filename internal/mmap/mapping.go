package mmap

import (
	"math"
	"os"
	"sync/atomic"
)

// Mapping is a read-only view of a whole file.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	mapped bool
	unmap  func([]byte) error
}

// Open maps the file at path into memory.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size < 0 || size > math.MaxUint32 {
		return nil, ErrInvalidSize
	}

	data, unmap, mapped, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:   data,
		mapped: mapped,
		unmap:  unmap,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	data := m.data
	m.data = nil
	if m.unmap != nil && data != nil {
		return m.unmap(data)
	}
	return nil
}

// Bytes returns the mapped file contents, or nil once closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Mapped reports whether the bytes live in a real file mapping rather than
// heap memory.
func (m *Mapping) Mapped() bool {
	return m.mapped
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.mapped || len(m.data) == 0 {
		return nil
	}
	return osAdvise(m.data, pattern)
}
