// Package wordbook provides an in-memory word dictionary backed by a file.
//
// Each entry pairs a word with its grammatical class. Words are kept sorted
// byte-wise so lookups are binary searches, and the file a dictionary was
// loaded from backs the entries directly: loading maps the file and builds
// entries that point into it, without copying any text.
//
// # Quick Start
//
//	ctx := context.Background()
//	d, _ := wordbook.New()
//	defer d.Close()
//
//	report, err := d.Load(ctx, "words.txt")
//	if errors.Is(err, blobstore.ErrNotFound) {
//	    // start with an empty dictionary
//	}
//	_ = report.Skipped // malformed lines
//
//	_ = d.Insert("wordbook", model.Noun)
//	if e, ok := d.Find("wordbook"); ok {
//	    fmt.Println(d.Text(e), e.Class)
//	}
//	d.Remove("wordbook")
//
//	_ = d.Write(ctx, "words.txt")
//
// # Matching
//
// Two words match when they agree over the length of the shorter one, so a
// lookup for "testing" finds a stored "test" and a lookup for "test" finds a
// stored "testing". When several entries match, buffered inserts win over
// stored ones, and among stored entries the shortest comes first.
//
// # File Format
//
// One record per line, "<text>;<class ordinal>", sorted ascending by text:
//
//	apple;0
//	run;1
//	swiftly;3
//
// Ordinals follow model.WordClass (0 = noun ... 9 = name); anything else
// loads as model.Unknown. Text cannot contain ';' or a newline. Names ending
// in .zst or .lz4 are transparently compressed.
//
// # Storage Backends
//
// File names are resolved through a blobstore.BlobStore. The default is the
// local file system, where plain files are memory-mapped; s3 and minio
// stores are available for remote dictionaries:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("dictionaries/"))
//	d, _ := wordbook.New(wordbook.WithBlobStore(store))
//
// # Resource Limits
//
// A resource.Controller bounds the memory the dictionary may grow to and
// the throughput of Load and Write. Exceeding the budget yields
// ErrAllocationFailed and leaves the dictionary unchanged.
//
// # Thread Safety
//
// A Dictionary is not safe for concurrent use. Guard it with a mutex if it
// is shared.
package wordbook
