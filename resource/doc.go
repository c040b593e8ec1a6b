// Package resource bounds the memory and IO a dictionary may use.
//
//	┌───────────────────────────────────────────────┐
//	│                  Controller                   │
//	├───────────────────────┬───────────────────────┤
//	│  Memory budget        │  IO rate limiter      │
//	│  (weighted semaphore) │  (token bucket)       │
//	├───────────────────────┼───────────────────────┤
//	│  TryAcquireMemory     │  AcquireIO            │
//	│  ReleaseMemory        │  RateLimitedWriter    │
//	│  MemoryUsage          │  RateLimitedReader    │
//	└───────────────────────┴───────────────────────┘
//
// Arena growth and EntryStore growth are charged through TryAcquireMemory,
// which fails fast; a refused charge surfaces to the caller as an
// allocation failure and leaves the dictionary unchanged.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//	d, err := wordbook.New(wordbook.WithResourceController(rc))
//
// Load and Write stream their bytes through RateLimitedReader and
// RateLimitedWriter.
//
// All Controller methods are safe for concurrent use, and a nil *Controller
// is a valid, unlimited controller.
package resource
