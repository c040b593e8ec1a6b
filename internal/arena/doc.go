// Package arena provides the text arenas that back dictionary entries.
//
// Two arenas exist per dictionary:
//
//   - Loaded: filled wholesale by a dictionary load (often a read-only mmap of
//     the source file) and immutable until the next load or Close.
//   - Pending: append-only; grows by doubling as words are inserted.
//
// Entries reference text with model.Span values (arena tag, offset, length).
// Spans are resolved through a Set at read time, never through a cached
// address, so growing the pending arena cannot leave a span dangling.
//
// # Safety
//
// Resolve returns nil for spans that fall outside their arena rather than
// panicking. Slices returned by Resolve are read-only views and must not be
// retained across an Append on the pending arena.
package arena
