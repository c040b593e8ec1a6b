// Package model defines the core types shared across wordbook.
//
// # Identity Types
//
//   - ArenaID: Which text arena a span lives in (loaded or pending)
//   - Span: Non-owning (arena, offset, length) reference to text bytes
//
// # Data Types
//
//   - WordClass: Closed enumeration of grammatical classes plus the Unknown sentinel
//   - Entry: A dictionary entry (span, class, active flag)
//
// Entries never hold text directly. Resolve a span through the dictionary that
// produced it:
//
//	e, ok := dict.Find("apple")
//	if ok {
//	    fmt.Println(dict.Text(e), e.Class)
//	}
package model
