// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dictionaries/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	d, err := wordbook.New(wordbook.WithBlobStore(store))
//	report, err := d.Load(ctx, "en.txt.zst")
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart streaming uploads for Write
//   - CRC32C checksums on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
