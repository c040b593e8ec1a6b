// Package compress selects a stream codec for dictionary files by name suffix.
//
//   - ".zst": zstd (github.com/klauspost/compress/zstd), better ratio
//   - ".lz4": LZ4 frames (github.com/pierrec/lz4/v4), faster
//   - anything else: stored as plain text
//
// Plain files keep the zero-copy mmap load path; compressed files are
// decompressed into heap memory before they become the loaded arena.
package compress
