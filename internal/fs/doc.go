// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two interfaces:
//
//   - [File]: an open file with write/sync/close capabilities
//   - [FileSystem]: the filesystem operations the local blob store needs
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test wrapper that injects open, write, sync and close failures
//
// Production code uses fs.Default. Tests inject a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".dict", fs.Fault{FailAfterBytes: 16})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// The package deliberately takes no context.Context: local filesystem calls
// are not interruptible at the syscall level.
package fs
