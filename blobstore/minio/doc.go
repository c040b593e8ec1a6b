// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client library and also works against other
// S3-compatible servers like Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	store, err := minioblob.New("dictionaries", minioblob.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d, err := wordbook.New(wordbook.WithBlobStore(store))
//	_, err = d.Load(ctx, "en.txt")
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
