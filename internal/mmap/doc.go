// Package mmap provides read-only memory-mapped file access.
//
// The loaded arena of a dictionary is backed by a mapping of the dictionary
// file, so entries reference the file bytes in place instead of copying them.
//
// # Usage
//
//	m, err := mmap.Open("words.dict")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	_ = m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints
//   - Other platforms: the file is read into heap memory and Advise is a no-op
//
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap
